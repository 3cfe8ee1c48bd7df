package errors

import "errors"

// ErrInvalidDueDate 截止日期记录不完整（父对象、截止时间或截止类型缺失），拒绝写入
var ErrInvalidDueDate = errors.New("截止日期记录不完整")

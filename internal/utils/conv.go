package utils

import (
	"strconv"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

// ClampLimit 解析 limit 参数并限制在 [1, max] 区间，非法输入用默认值
func ClampLimit(s string, def, max int) int {
	n := StringToInt(s)
	if n <= 0 {
		n = def
	}
	if n > max {
		n = max
	}
	return n
}

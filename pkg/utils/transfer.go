package utils

import (
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("invalid id")

// Transfer jwt claims 中的数字可能是 float64 或字符串
func Transfer(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case string:
		if intValue, err := strconv.ParseInt(v, 10, 64); err == nil {
			return intValue
		}
	}
	return -1
}

func ConvertStringToInt64(v string) (int64, error) {
	res, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return -1, err
	}
	return res, nil
}

// ParseID 路径参数中的 ID 必须是正整数
func ParseID(v string) (int64, error) {
	id, err := ConvertStringToInt64(v)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

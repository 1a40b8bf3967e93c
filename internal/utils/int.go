package utils

import (
	"errors"
	"math"
)

func SafeIntToInt32(i int) (int32, error) {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, errors.New("integer overflow: value out of int32 range")
	}

	return int32(i), nil
}

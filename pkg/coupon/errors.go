package coupon

import "errors"

var (
	ErrEmptyCode             = errors.New("coupon: code is empty")
	ErrNoPlanSelected        = errors.New("coupon: no paid plan selected")
	ErrValidationUnavailable = errors.New("coupon: validation temporarily unavailable")
)

package spake2

import "errors"

var (
	ErrAlreadyConsumed  = errors.New("spake2: state already consumed by a prior Finish call")
	ErrInvalidElement   = errors.New("spake2: peer element does not decode to a curve point")
	ErrReflectedElement = errors.New("spake2: peer element equals our own, refusing to derive a key from a reflection")
)

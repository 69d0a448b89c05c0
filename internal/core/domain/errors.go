package domain

import "errors"

var (
	ErrInvalidValue     = errors.New("invalid value")
	ErrNotFound         = errors.New("item not found")
	ErrStoreUnavailable = errors.New("item store unavailable")
	ErrPublishFailure   = errors.New("event publish failed")
)

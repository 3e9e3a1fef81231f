package domain

import "errors"

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrSourceUnavailable  = errors.New("feed source unavailable")
	ErrStorage            = errors.New("storage error")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

package domain

import "errors"

var (
	// ErrCatalogUnavailable is returned when the category manifest cannot be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidProductID   = errors.New("invalid product id")
)

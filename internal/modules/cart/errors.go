package cart

import "errors"

var (
	// ErrInvalidQuantity rejects quantities below 1; removal is explicit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrProductNotFound covers products that do not exist, do not belong
	// to the store, or are archived.
	ErrProductNotFound = errors.New("product not found in this store")

	// ErrItemNotFound covers cart items that are absent or owned by a
	// different customer.
	ErrItemNotFound = errors.New("cart item not found")

	// ErrInvalidID tags request payloads whose product, variant, or item
	// id is not a UUID.
	ErrInvalidID = errors.New("malformed id")
)

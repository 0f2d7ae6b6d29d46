package engine

import "errors"

// All engine failures are recoverable-by-user conditions. They are
// reported before anything is written, so no failure ever requires a
// rollback.
var (
	ErrProductNotFound     = errors.New("product not found")
	ErrLineNotFound        = errors.New("cart line not found")
	ErrOutOfStock          = errors.New("product is out of stock")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrInvalidDiscount     = errors.New("discount must be between 0 and 100")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("amount paid is less than the order total")
)

package order

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidStatus       = errors.New("invalid order status")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrEmptyOrderItems     = errors.New("no items to order")
	ErrMissingAddress      = errors.New("delivery address is incomplete")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrGateway             = errors.New("payment gateway error")
	ErrPaymentNotCompleted = errors.New("payment not completed")
)

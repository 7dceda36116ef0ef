package payment

import "errors"

var (
	// -- Validation & Input --
	ErrEmptyPaymentReference = errors.New("payment reference id is required")
	ErrNoLineItems           = errors.New("checkout requires at least one line item")

	// -- External Systems --
	ErrGateway = errors.New("payment gateway error")
)

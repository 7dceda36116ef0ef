package httpapi

import (
	"errors"
	"net/http"

	"campuseats-be/internal/cart"
	"campuseats-be/internal/catalog"
	"campuseats-be/internal/logger"
	"campuseats-be/internal/order"
	"campuseats-be/internal/payment"
	"campuseats-be/internal/user"
	"campuseats-be/internal/utils"

	"go.uber.org/zap"
)

// writeError maps domain errors to HTTP status codes. Unknown errors
// become 500 without leaking their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, user.ErrUserNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, order.ErrUnauthorized):
		utils.WriteJSONError(w, err.Error(), http.StatusForbidden)

	case errors.Is(err, user.ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)

	case errors.Is(err, order.ErrConflict),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, order.ErrCourierMismatch),
		errors.Is(err, order.ErrTipAlreadySet):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrCancelAfterPickup),
		errors.Is(err, cart.ErrZeroCountItem):
		utils.WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)

	case errors.Is(err, cart.ErrEmptyName),
		errors.Is(err, cart.ErrInvalidPrice),
		errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, payment.ErrEmptyPaymentReference):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)

	default:
		logger.FromCtx(r.Context()).Error("request failed", zap.Error(err))
		utils.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

package http

import (
	"errors"
	"net/http"

	domorder "example.com/threadcart/app/internal/domain/order"
)

type verifyHostedRequest struct {
	OrderID int64 `json:"order_id" validate:"required,gt=0"`
	Success bool  `json:"success"`
}

type verifyTwoPhaseRequest struct {
	IntentID string `json:"intent_id" validate:"required"`
}

// handleVerifyHosted finalizes the hosted-checkout callback. The success
// flag echoes the gateway redirect; a cancelled payment removes the order.
func (a *API) handleVerifyHosted(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req verifyHostedRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.verifySvc.ConfirmHosted(r.Context(), req.OrderID, req.Success, user.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if !result.Confirmed {
		writeJSON(w, http.StatusOK, envelope{Success: false, Message: "payment cancelled, order removed"})
		return
	}
	respondData(w, http.StatusOK, mapOrder(result.Order))
}

func (a *API) handleVerifyTwoPhase(w http.ResponseWriter, r *http.Request) {
	user := getAuthUser(r.Context())
	if user == nil {
		respondError(w, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	var req verifyTwoPhaseRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.verifySvc.ConfirmTwoPhase(r.Context(), req.IntentID, user.UserID)
	if err != nil {
		// An unpaid intent is a normal outcome, not a server fault; the
		// order stays retained and unconfirmed.
		if errors.Is(err, domorder.ErrPaymentNotCompleted) {
			writeJSON(w, http.StatusOK, envelope{Success: false, Message: "payment not completed"})
			return
		}
		handleDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, mapOrder(result.Order))
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"gstledger/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes. The structured ledger errors keep their own messages so the client
// sees which document or amount caused the rejection.
func MapDomainError(err error) (status int, code, msg string) {
	var dup *domain.DuplicateNumberError
	if errors.As(err, &dup) {
		return http.StatusConflict, "DUPLICATE_NUMBER", dup.Error()
	}
	var order *domain.DateOrderError
	if errors.As(err, &order) {
		return http.StatusUnprocessableEntity, "DATE_ORDER", order.Error()
	}
	var excess *domain.ExcessPaymentError
	if errors.As(err, &excess) {
		return http.StatusUnprocessableEntity, "EXCESS_PAYMENT", excess.Error()
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", "invalid input"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrDuplicateNumber):
		return http.StatusConflict, "DUPLICATE_NUMBER", "document number already in use"
	case errors.Is(err, domain.ErrDateOrder):
		return http.StatusUnprocessableEntity, "DATE_ORDER", "bill date breaks serial order"
	case errors.Is(err, domain.ErrMissingParty):
		return http.StatusBadRequest, "MISSING_PARTY", "party is required"
	case errors.Is(err, domain.ErrExcessPayment):
		return http.StatusUnprocessableEntity, "EXCESS_PAYMENT", "payment exceeds bill outstanding"
	case errors.Is(err, domain.ErrBillReferenced):
		return http.StatusConflict, "BILL_REFERENCED", "bill has payments allocated against it"
	case errors.Is(err, domain.ErrPartyReferenced):
		return http.StatusConflict, "PARTY_REFERENCED", "party has bills and cannot be removed"
	case errors.Is(err, domain.ErrAdvanceConsumed):
		return http.StatusConflict, "ADVANCE_CONSUMED", "payment's advance credit was consumed by a later payment"
	case errors.Is(err, domain.ErrStaleSnapshot):
		return http.StatusConflict, "STALE_SNAPSHOT", "concurrent update detected; retry the request"
	case errors.Is(err, domain.ErrDuplicateGSTIN):
		return http.StatusConflict, "DUPLICATE_GSTIN", "gstin already registered for another party"
	case errors.Is(err, domain.ErrInvalidGSTIN):
		return http.StatusBadRequest, "INVALID_GSTIN", "gstin format is invalid"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Error().Str("request_id", c.GetString("request_id")).Err(err).Msg("internal error")
	}
	RespondError(c, status, code, msg)
}

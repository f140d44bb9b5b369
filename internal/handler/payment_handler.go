package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/domain"
	"gstledger/internal/service"
)

// PaymentHandler handles payment recording and outstanding endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create handles POST /api/v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var input service.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, payment)
}

// List handles GET /api/v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	payments, err := h.paymentService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payments)
}

// GetByID handles GET /api/v1/payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payment)
}

// Delete handles DELETE /api/v1/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid payment ID")
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// parsePaymentScope validates the party and kind query params shared by the
// outstanding endpoints.
func parsePaymentScope(c *gin.Context) (uuid.UUID, domain.PaymentKind, bool) {
	partyID, err := uuid.Parse(c.Query("party_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'party_id': must be a valid UUID")
		return uuid.Nil, "", false
	}
	kind := domain.PaymentKind(c.DefaultQuery("kind", string(domain.PaymentKindReceipt)))
	if !kind.Valid() {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'kind': must be receipt or payment")
		return uuid.Nil, "", false
	}
	return partyID, kind, true
}

// OpenBills handles GET /api/v1/payments/open-bills
func (h *PaymentHandler) OpenBills(c *gin.Context) {
	partyID, kind, ok := parsePaymentScope(c)
	if !ok {
		return
	}

	open, err := h.paymentService.OpenBills(c.Request.Context(), partyID, kind)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, open)
}

// AdvanceAvailable handles GET /api/v1/payments/advance
func (h *PaymentHandler) AdvanceAvailable(c *gin.Context) {
	partyID, kind, ok := parsePaymentScope(c)
	if !ok {
		return
	}

	total, err := h.paymentService.AdvanceAvailable(c.Request.Context(), partyID, kind)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"party_id": partyID, "kind": kind, "advance_available": total})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/domain"
	"gstledger/internal/service"
)

// BillHandler handles bill endpoints for all five document types.
type BillHandler struct {
	billService service.BillService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// ProposeNumber handles GET /api/v1/bills/propose-number
func (h *BillHandler) ProposeNumber(c *gin.Context) {
	billType := domain.BillType(c.Query("bill_type"))
	if !billType.Valid() {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "bill_type must be one of the document types")
		return
	}

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		t, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'date': must be YYYY-MM-DD")
			return
		}
		date = t
	}

	number, err := h.billService.ProposeNumber(c.Request.Context(), billType, date)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"number": number})
}

// Create handles POST /api/v1/bills
func (h *BillHandler) Create(c *gin.Context) {
	var input service.BillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, bill)
}

// List handles GET /api/v1/bills
func (h *BillHandler) List(c *gin.Context) {
	var billType *domain.BillType
	if typeStr := c.Query("bill_type"); typeStr != "" {
		t := domain.BillType(typeStr)
		if !t.Valid() {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid 'bill_type'")
			return
		}
		billType = &t
	}

	bills, err := h.billService.List(c.Request.Context(), billType)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, bills)
}

// GetByID handles GET /api/v1/bills/:id
func (h *BillHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, bill)
}

// Update handles PUT /api/v1/bills/:id
func (h *BillHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	var input service.BillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	bill, err := h.billService.Update(c.Request.Context(), id, &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, bill)
}

// Delete handles DELETE /api/v1/bills/:id
func (h *BillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	if err := h.billService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

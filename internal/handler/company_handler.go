package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gstledger/internal/service"
)

// CompanyHandler handles company profile endpoints.
type CompanyHandler struct {
	companyService service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// Get handles GET /api/v1/company
func (h *CompanyHandler) Get(c *gin.Context) {
	profile, err := h.companyService.Get(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, profile)
}

// Update handles PUT /api/v1/company
func (h *CompanyHandler) Update(c *gin.Context) {
	var input service.CompanyProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	profile, err := h.companyService.Update(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, profile)
}

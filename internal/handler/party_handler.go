package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/service"
)

// PartyHandler handles party (customer/supplier) endpoints.
type PartyHandler struct {
	partyService service.PartyService
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(partyService service.PartyService) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// Create handles POST /api/v1/parties
func (h *PartyHandler) Create(c *gin.Context) {
	var input service.PartyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	party, err := h.partyService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, party)
}

// List handles GET /api/v1/parties
func (h *PartyHandler) List(c *gin.Context) {
	parties, err := h.partyService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, parties)
}

// GetByID handles GET /api/v1/parties/:id
func (h *PartyHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid party ID")
		return
	}

	party, err := h.partyService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, party)
}

// Update handles PUT /api/v1/parties/:id
func (h *PartyHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid party ID")
		return
	}

	var input service.PartyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	party, err := h.partyService.Update(c.Request.Context(), id, &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, party)
}

// Delete handles DELETE /api/v1/parties/:id
func (h *PartyHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid party ID")
		return
	}

	if err := h.partyService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/service"
)

// ItemHandler handles item master endpoints.
type ItemHandler struct {
	itemService service.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// Create handles POST /api/v1/items
func (h *ItemHandler) Create(c *gin.Context) {
	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, item)
}

// List handles GET /api/v1/items
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.itemService.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, items)
}

// GetByID handles GET /api/v1/items/:id
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid item ID")
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, item)
}

// Update handles PUT /api/v1/items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid item ID")
		return
	}

	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), id, &input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, item)
}

// Delete handles DELETE /api/v1/items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid item ID")
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

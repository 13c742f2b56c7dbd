package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// ContactHandler handles the contact form and the admin inbox.
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// SubmitMessage handles POST /v1/contact
func (h *ContactHandler) SubmitMessage(c *gin.Context) {
	var req service.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.contactService.SubmitMessage(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, utils.ErrMissingFields) {
			utils.Error(c, 400, "MISSING_FIELDS", "Name, email and message are required")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to store message")
		return
	}

	utils.Success(c, 201, "Message sent! We'll get back to you soon.", result)
}

// ListMessages handles GET /v1/admin/messages
func (h *ContactHandler) ListMessages(c *gin.Context) {
	page, limit := listPagination(c)

	messages, total, err := h.contactService.ListMessages(c.Request.Context(), page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list messages")
		return
	}

	utils.SuccessWithPagination(c, 200, "Messages retrieved", gin.H{
		"messages": messages,
	}, page, limit, total)
}

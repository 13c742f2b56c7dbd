package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Haroldke13/geniusbabycosmetics/internal/service"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

// NewsletterHandler handles newsletter signup and the admin subscriber list.
type NewsletterHandler struct {
	newsletterService *service.NewsletterService
}

// NewNewsletterHandler constructs a NewsletterHandler.
func NewNewsletterHandler(newsletterService *service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// Subscribe handles POST /v1/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.newsletterService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidEmail) {
			utils.Error(c, 400, "INVALID_EMAIL", "Please provide a valid email address")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Subscription failed")
		return
	}

	message := "Subscribed successfully"
	if result.AlreadySubscribed {
		message = "You're already subscribed. Thank you!"
	}
	utils.Success(c, 200, message, result)
}

// Unsubscribe handles GET /v1/unsubscribe?email=&token=
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	err := h.newsletterService.Unsubscribe(c.Request.Context(), c.Query("email"), c.Query("token"))
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidSignature):
			utils.Error(c, 403, "INVALID_TOKEN", "Invalid unsubscribe link")
		case errors.Is(err, utils.ErrSubscriberNotFound):
			utils.Error(c, 404, "SUBSCRIBER_NOT_FOUND", "This address is not subscribed")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Unsubscribe failed")
		}
		return
	}

	utils.Success(c, 200, "Unsubscribed successfully", nil)
}

// ListSubscribers handles GET /v1/admin/subscribers
func (h *NewsletterHandler) ListSubscribers(c *gin.Context) {
	page, limit := listPagination(c)

	subscribers, total, err := h.newsletterService.ListSubscribers(c.Request.Context(), page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list subscribers")
		return
	}

	utils.SuccessWithPagination(c, 200, "Subscribers retrieved", gin.H{
		"subscribers": subscribers,
	}, page, limit, total)
}

// listPagination reads page/limit query values with the admin list defaults.
func listPagination(c *gin.Context) (int, int) {
	page := 1
	limit := 50
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	return page, limit
}

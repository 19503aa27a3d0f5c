package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trip-chat-service/internal/api/middleware"
	"trip-chat-service/internal/notification"
	"trip-chat-service/pkg/response"
)

// NotificationHandler exposes the dispatch contract to the domain services
// and the retrieval surface to clients.
type NotificationHandler struct {
	dispatcher *notification.Dispatcher
}

func NewNotificationHandler(dispatcher *notification.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.dispatcher.List(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		return
	}
	response.OK(c, http.StatusOK, notifications)
}

// MarkSeen handles PUT /notifications/:id/seen
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := h.dispatcher.MarkSeen(c.Request.Context(), c.Param("id"), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		return
	}
	response.OK(c, http.StatusOK, nil)
}

// Dispatch handles POST /notifications. This is the entry point the travel
// domain services call to push an event to a user; the notification is
// durable whether or not the target is connected right now.
func (h *NotificationHandler) Dispatch(c *gin.Context) {
	var req notification.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrCodeParamInvalid, err.Error())
		return
	}

	n, err := h.dispatcher.Dispatch(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		return
	}
	response.OK(c, http.StatusCreated, n)
}

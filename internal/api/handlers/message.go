package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trip-chat-service/internal/api/middleware"
	"trip-chat-service/internal/directmsg"
	"trip-chat-service/internal/groupmsg"
	"trip-chat-service/pkg/response"
)

// MessageHandler serves chat history over REST. Live traffic goes over the
// websocket; this surface exists for scrollback and reconciliation after a
// reconnect.
type MessageHandler struct {
	direct directmsg.Service
	group  groupmsg.Service
}

func NewMessageHandler(direct directmsg.Service, group groupmsg.Service) *MessageHandler {
	return &MessageHandler{direct: direct, group: group}
}

// DirectHistory handles GET /messages/direct/:userId
func (h *MessageHandler) DirectHistory(c *gin.Context) {
	userID := middleware.UserID(c)
	otherUserID := c.Param("userId")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, err := h.direct.History(c.Request.Context(), userID, otherUserID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		return
	}
	response.OK(c, http.StatusOK, msgs)
}

// MarkConversationRead handles POST /messages/direct/:userId/read
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	userID := middleware.UserID(c)
	otherUserID := c.Param("userId")

	if err := h.direct.MarkRead(c.Request.Context(), userID, otherUserID); err != nil {
		if errors.Is(err, directmsg.ErrEmptyReceiver) {
			response.Error(c, http.StatusBadRequest, response.ErrCodeParamInvalid, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		return
	}
	response.OK(c, http.StatusOK, nil)
}

// DeleteConversation handles DELETE /messages/direct/:userId
func (h *MessageHandler) DeleteConversation(c *gin.Context) {
	userID := middleware.UserID(c)
	otherUserID := c.Param("userId")

	if err := h.direct.DeleteConversation(c.Request.Context(), userID, otherUserID); err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		return
	}
	response.OK(c, http.StatusOK, nil)
}

// GroupHistory handles GET /groups/:groupId/messages
func (h *MessageHandler) GroupHistory(c *gin.Context) {
	userID := middleware.UserID(c)
	groupID := c.Param("groupId")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	msgs, err := h.group.History(c.Request.Context(), groupID, userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, groupmsg.ErrGroupNotFound):
			response.Error(c, http.StatusNotFound, response.ErrCodeNotFound, err.Error())
		case errors.Is(err, groupmsg.ErrNotMember):
			response.Error(c, http.StatusForbidden, response.ErrCodeForbidden, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		}
		return
	}
	response.OK(c, http.StatusOK, msgs)
}

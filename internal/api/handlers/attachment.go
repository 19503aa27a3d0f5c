package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trip-chat-service/internal/adapters/objectstore"
	"trip-chat-service/pkg/response"
)

// AttachmentHandler uploads chat attachments to object storage and hands the
// client back a URL it can put in a message.
type AttachmentHandler struct {
	store *objectstore.Client
}

func NewAttachmentHandler(store *objectstore.Client) *AttachmentHandler {
	return &AttachmentHandler{store: store}
}

// Upload handles POST /attachments
func (h *AttachmentHandler) Upload(c *gin.Context) {
	if h.store == nil {
		response.Error(c, http.StatusServiceUnavailable, response.ErrCodeInternal, "attachment storage is disabled")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrCodeParamInvalid, "file is required")
		return
	}

	url, err := h.store.UploadAttachment(c.Request.Context(), file)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrCodeInternal, "")
		return
	}

	response.OK(c, http.StatusCreated, gin.H{"url": url})
}

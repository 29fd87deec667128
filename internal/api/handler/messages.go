package handler

import (
	"alumnihub/backend/internal/messaging"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) MessageHistory(c *gin.Context) {
	msgs, err := h.Messages.History(c.Request.Context(), callerID(c), c.Param("mentorshipId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) SendMessage(c *gin.Context) {
	var in messaging.SendInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	msg, err := h.Messages.Send(c.Request.Context(), callerID(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *Handler) UnreadMessages(c *gin.Context) {
	n, err := h.Messages.UnreadCount(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) MarkMessagesRead(c *gin.Context) {
	n, err := h.Messages.MarkRead(c.Request.Context(), callerID(c), c.Param("mentorshipId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read", "updated": n})
}

func (h *Handler) PresignAttachment(c *gin.Context) {
	var in struct {
		MentorshipID string `json:"mentorshipId"`
		FileName     string `json:"fileName"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	up, err := h.Messages.AttachmentUploadURL(c.Request.Context(), callerID(c), in.MentorshipID, in.FileName)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

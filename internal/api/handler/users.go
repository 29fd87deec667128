package handler

import (
	"alumnihub/backend/internal/users"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Directory(c *gin.Context) {
	list, err := h.Users.Directory(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

func (h *Handler) MyProfile(c *gin.Context) {
	u, err := h.Users.Get(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var in users.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	u, err := h.Users.UpdateProfile(c.Request.Context(), callerID(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) MyPosts(c *gin.Context) {
	list, err := h.Users.MyPosts(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) MyEvents(c *gin.Context) {
	list, err := h.Users.MyEvents(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) UserMentorships(c *gin.Context) {
	list, err := h.Users.MyMentorships(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) MyStats(c *gin.Context) {
	st, err := h.Users.Stats(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

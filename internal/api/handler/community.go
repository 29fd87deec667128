package handler

import (
	"alumnihub/backend/internal/events"
	"alumnihub/backend/internal/posts"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPosts(c *gin.Context) {
	list, err := h.Posts.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetPost(c *gin.Context) {
	p, err := h.Posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var in posts.PostInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	p, err := h.Posts.Create(c.Request.Context(), callerID(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ReplyToPost(c *gin.Context) {
	var in struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	p, err := h.Posts.Reply(c.Request.Context(), callerID(c), c.Param("id"), in.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) LikePost(c *gin.Context) {
	res, err := h.Posts.ToggleLike(c.Request.Context(), callerID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.Posts.Delete(c.Request.Context(), callerID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

func (h *Handler) ListEvents(c *gin.Context) {
	list, err := h.Events.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetEvent(c *gin.Context) {
	e, err := h.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) CreateEvent(c *gin.Context) {
	var in events.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	e, err := h.Events.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) RegisterForEvent(c *gin.Context) {
	var in events.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	e, err := h.Events.Register(c.Request.Context(), callerID(c), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully registered for event", "event": e})
}

func (h *Handler) RegisteredEvents(c *gin.Context) {
	list, err := h.Events.ListForUser(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

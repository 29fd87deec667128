package handler

import (
	"alumnihub/backend/internal/mentorship"
	"alumnihub/backend/internal/storage"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListMentors supports ?expertise=<phrase> and ?available=true|false.
func (h *Handler) ListMentors(c *gin.Context) {
	f := storage.MentorFilter{Expertise: c.Query("expertise")}
	if v := c.Query("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.badRequest(c, "available must be true or false")
			return
		}
		f.Available = &b
	}
	mentors, err := h.Mentorship.ListMentors(c.Request.Context(), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mentors)
}

func (h *Handler) RecommendMentors(c *gin.Context) {
	var in struct {
		Goals string `json:"goals"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	matches, err := h.Mentorship.Recommend(c.Request.Context(), in.Goals)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

func (h *Handler) CreateMentorshipRequest(c *gin.Context) {
	var in mentorship.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	req, err := h.Mentorship.CreateRequest(c.Request.Context(), callerID(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Mentorship request sent successfully",
		"request":    req,
		"matchScore": req.MatchScore,
	})
}

func (h *Handler) UpdateMentorshipStatus(c *gin.Context) {
	var in mentorship.StatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	req, err := h.Mentorship.UpdateStatus(c.Request.Context(), callerID(c), c.Param("id"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Mentorship request %s", req.Status),
		"request": req,
	})
}

// MyMentorships lists requests where the caller is mentor or mentee.
func (h *Handler) MyMentorships(c *gin.Context) {
	list, err := h.Mentorship.ListForUser(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdateAvailability(c *gin.Context) {
	var in mentorship.AvailabilityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	user, err := h.Mentorship.UpdateAvailability(c.Request.Context(), callerID(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

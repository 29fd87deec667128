package handler

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/users"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// profileView is the user payload returned by the auth routes.
type profileView struct {
	models.UserSummary
	Bio       string   `json:"bio,omitempty"`
	Expertise []string `json:"expertise,omitempty"`
}

func newProfileView(u *models.User) profileView {
	return profileView{UserSummary: u.Summary(), Bio: u.Bio, Expertise: u.Expertise}
}

func (h *Handler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	user, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful! Please check your email to verify your account.",
		"email":   user.Email,
	})
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	session, err := h.Auth.VerifyEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully! You can now log in.",
		"token":   session.Token,
		"user":    session.User,
	})
}

func (h *Handler) ResendVerification(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	if err := h.Auth.ResendVerification(c.Request.Context(), in.Email); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent! Please check your inbox."})
}

// Login answers an unverified account with 403 and the flag the frontend
// uses to offer a new verification email.
func (h *Handler) Login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	session, err := h.Auth.Login(c.Request.Context(), in.Email, in.Password)
	if errors.Is(err, auth.ErrEmailNotVerified) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":          apperr.MessageOf(err),
			"emailNotVerified": true,
			"email":            models.NormalizeEmail(in.Email),
		})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.Auth.Me(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newProfileView(user)})
}

func (h *Handler) UpdateAuthProfile(c *gin.Context) {
	var in users.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	user, err := h.Users.UpdateProfile(c.Request.Context(), callerID(c), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": newProfileView(user)})
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var in passwordChange
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "Invalid request body")
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), callerID(c), in.CurrentPassword, in.NewPassword); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Logout is stateless; the client drops its token.
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) TelegramLink(c *gin.Context) {
	code, expires, err := h.Auth.TelegramLinkCode(c.Request.Context(), callerID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "expiresAt": expires})
}

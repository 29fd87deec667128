package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

func (h *Handler) corsSettings() *cors.Cors {
	origins := h.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
}

// Routes builds the gin engine with every API route.
func (h *Handler) Routes() *gin.Engine {
	r := gin.New()
	r.Use(h.recovery(), h.requestLogger())

	api := r.Group("/api")
	api.GET("/health", h.Health)

	authed := h.requireAuth()

	a := api.Group("/auth")
	a.POST("/register", h.Register)
	a.GET("/verify-email/:token", h.VerifyEmail)
	a.POST("/resend-verification", h.ResendVerification)
	a.POST("/login", h.Login)
	a.GET("/me", authed, h.Me)
	a.PUT("/profile", authed, h.UpdateAuthProfile)
	a.PUT("/password", authed, h.ChangePassword)
	a.POST("/logout", authed, h.Logout)
	a.POST("/telegram-link", authed, h.TelegramLink)

	m := api.Group("/mentorship")
	m.GET("", authed, h.MyMentorships)
	m.GET("/mentors", h.ListMentors)
	m.POST("/recommend", h.RecommendMentors)
	m.POST("/request", authed, h.CreateMentorshipRequest)
	m.PUT("/:id/status", authed, h.UpdateMentorshipStatus)
	m.PUT("/availability", authed, h.UpdateAvailability)

	msg := api.Group("/messages", authed)
	msg.GET("/mentorship/:mentorshipId", h.MessageHistory)
	msg.POST("/send", h.SendMessage)
	msg.GET("/unread-count", h.UnreadMessages)
	msg.PUT("/mark-read/:mentorshipId", h.MarkMessagesRead)
	msg.POST("/attachments/presign", h.PresignAttachment)

	n := api.Group("/notifications", authed)
	n.GET("", h.ListNotifications)
	n.GET("/unread-count", h.UnreadNotifications)
	n.PUT("/mark-all-read", h.MarkAllNotificationsRead)
	n.PUT("/:id/read", h.MarkNotificationRead)
	n.DELETE("/:id", h.DeleteNotification)
	n.GET("/ws", h.ServeNotificationsWS)

	p := api.Group("/posts")
	p.GET("", h.ListPosts)
	p.GET("/:id", h.GetPost)
	p.POST("", authed, h.CreatePost)
	p.POST("/:id/reply", authed, h.ReplyToPost)
	p.POST("/:id/like", authed, h.LikePost)
	p.DELETE("/:id", authed, h.DeletePost)

	e := api.Group("/events")
	e.GET("", h.ListEvents)
	e.GET("/user/registered", authed, h.RegisteredEvents)
	e.GET("/:id", h.GetEvent)
	e.POST("", authed, h.CreateEvent)
	e.POST("/:id/register", authed, h.RegisterForEvent)

	u := api.Group("/users", authed)
	u.GET("", h.Directory)
	u.GET("/:id", h.GetUser)
	u.GET("/me/profile", h.MyProfile)
	u.PUT("/me/profile", h.UpdateProfile)
	u.GET("/me/posts", h.MyPosts)
	u.GET("/me/events", h.MyEvents)
	u.GET("/me/mentorships", h.UserMentorships)
	u.GET("/me/stats", h.MyStats)

	return r
}

// NewRouter returns the API wrapped in the CORS policy.
func (h *Handler) NewRouter() http.Handler {
	return h.corsSettings().Handler(h.Routes())
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

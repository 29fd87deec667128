package config

import "time"

const (
	// Match score weights. They add up to 100.
	ExpertiseWeight    = 40
	AvailabilityWeight = 30
	TopicWeight        = 30
	// A mentor who is available but full still earns half the availability weight.
	FullMentorAvailabilityScore = 15

	// Mentor defaults
	DefaultMentorCapacity  = 5
	DefaultSessionDuration = 60

	// Account
	VerificationTokenTTL = 24 * time.Hour
	ResendCooldown       = 60 * time.Second
	MinPasswordLength    = 6
	MaxBioLength         = 500

	// Telegram
	TelegramLinkCodeTTL = 10 * time.Minute

	// Delivery
	NotificationQueueSize = 256
	NotificationTimeout   = 10 * time.Second

	// Attachments
	PresignExpiry            = 15 * time.Minute
	MaxAttachmentsPerMessage = 5
)

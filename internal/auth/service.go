package auth

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/mailer"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmailNotVerified marks a login refused because the address is unconfirmed.
var ErrEmailNotVerified = errors.New("email not verified")

// Store is the persistence auth needs.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByVerificationToken(ctx context.Context, token string) (*models.User, error)
	AcquireCooldown(ctx context.Context, key string, ttl time.Duration) (bool, error)
	SaveLinkCode(ctx context.Context, code, userID string, ttl time.Duration) error
}

type Service struct {
	store     Store
	notifier  notify.Notifier
	templates *mailer.Templates
	secret    []byte
	ttl       time.Duration
	log       *logging.Logger
	now       func() time.Time
}

func NewService(store Store, notifier notify.Notifier, templates *mailer.Templates, jwtCfg config.JWTConfig, log *logging.Logger) *Service {
	return &Service{
		store:     store,
		notifier:  notifier,
		templates: templates,
		secret:    []byte(jwtCfg.Secret),
		ttl:       jwtCfg.TTL,
		log:       log,
		now:       time.Now,
	}
}

// Session is returned after a successful login or verification.
type Session struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Batch    string `json:"batch"`
	Phone    string `json:"phone"`
}

// Register creates an unverified account and mails the verification link.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = models.NormalizeEmail(in.Email)

	switch {
	case in.Name == "":
		return nil, apperr.Validationf("Name is required")
	case !models.ValidEmail(in.Email):
		return nil, apperr.Validationf("Valid email is required")
	case len(in.Password) < config.MinPasswordLength:
		return nil, apperr.Validationf("Password must be at least %d characters", config.MinPasswordLength)
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflictf("User already exists with this email")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Internalf(err, "lookup user")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internalf(err, "hash password")
	}
	token, err := NewVerificationToken()
	if err != nil {
		return nil, apperr.Internalf(err, "verification token")
	}
	expires := s.now().Add(config.VerificationTokenTTL)

	user := &models.User{
		Name:                     in.Name,
		Email:                    in.Email,
		PasswordHash:             hash,
		Batch:                    in.Batch,
		Phone:                    in.Phone,
		Role:                     models.RoleUser,
		MentorCapacity:           config.DefaultMentorCapacity,
		TelegramNotify:           true,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}
	user.MentorshipPreferences.SessionDuration = config.DefaultSessionDuration
	user.Availability.PreferredMeetingType = models.MeetingVideo

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperr.Conflictf("User already exists with this email")
		}
		return nil, apperr.Internalf(err, "create user")
	}

	s.sendVerification(user, token)
	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

func (s *Service) sendVerification(user *models.User, token string) {
	m, err := s.templates.Verification(user.Email, user.Name, token)
	if err != nil {
		s.log.Error("failed to render verification email", "user_id", user.ID, "error", err)
		return
	}
	s.notifier.Notify(notify.Notice{UserID: user.ID, Email: &m})
}

// VerifyEmail confirms the address holding token and logs the user in.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*Session, error) {
	user, err := s.store.GetUserByVerificationToken(ctx, token)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Validationf("Invalid or expired verification link. Please request a new verification email.")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "lookup verification token")
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpires = nil
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, apperr.Internalf(err, "save user")
	}

	return s.session(user)
}

// ResendVerification issues a fresh token. Requests for one address are
// limited to one per cooldown window.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if !models.ValidEmail(email) {
		return apperr.Validationf("Valid email is required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFoundf("No account found with this email address")
	}
	if err != nil {
		return apperr.Internalf(err, "lookup user")
	}
	if user.IsEmailVerified {
		return apperr.Validationf("This email is already verified. You can log in now.")
	}

	ok, err := s.store.AcquireCooldown(ctx, "verify:"+email, config.ResendCooldown)
	if err != nil {
		s.log.WarnContext(ctx, "cooldown check failed, allowing resend", "error", err)
	} else if !ok {
		return apperr.RateLimitedf("Please wait a minute before requesting another verification email")
	}

	token, err := NewVerificationToken()
	if err != nil {
		return apperr.Internalf(err, "verification token")
	}
	expires := s.now().Add(config.VerificationTokenTTL)
	user.EmailVerificationToken = &token
	user.EmailVerificationExpires = &expires
	if err := s.store.SaveUser(ctx, user); err != nil {
		return apperr.Internalf(err, "save user")
	}

	s.sendVerification(user, token)
	return nil
}

// Login checks the credentials and returns a signed session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = models.NormalizeEmail(email)
	if !models.ValidEmail(email) {
		return nil, apperr.Validationf("Valid email is required")
	}
	if password == "" {
		return nil, apperr.Validationf("Password is required")
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Unauthorizedf("Invalid email or password")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "lookup user")
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthorizedf("Invalid email or password")
	}
	if !user.IsEmailVerified {
		return nil, apperr.Wrap(apperr.Forbidden,
			"Please verify your email before logging in. Check your inbox for the verification link.",
			ErrEmailNotVerified)
	}

	return s.session(user)
}

func (s *Service) session(user *models.User) (*Session, error) {
	token, err := GenerateToken(user.ID, s.secret, s.ttl)
	if err != nil {
		return nil, apperr.Internalf(err, "sign token")
	}
	return &Session{Token: token, User: user.Summary()}, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *Service) Authenticate(token string) (string, error) {
	id, err := UserIDFromToken(token, s.secret)
	if err != nil {
		return "", apperr.Wrap(apperr.Unauthorized, "Token is not valid", err)
	}
	return id, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFoundf("User not found")
	}
	if err != nil {
		return nil, apperr.Internalf(err, "lookup user")
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < config.MinPasswordLength {
		return apperr.Validationf("Password must be at least %d characters", config.MinPasswordLength)
	}
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(user.PasswordHash, current) {
		return apperr.Unauthorizedf("Current password is incorrect")
	}
	hash, err := HashPassword(next)
	if err != nil {
		return apperr.Internalf(err, "hash password")
	}
	user.PasswordHash = hash
	if err := s.store.SaveUser(ctx, user); err != nil {
		return apperr.Internalf(err, "save user")
	}
	return nil
}

// TelegramLinkCode issues a short-lived code the user sends to the bot.
func (s *Service) TelegramLinkCode(ctx context.Context, userID string) (string, time.Time, error) {
	if _, err := s.Me(ctx, userID); err != nil {
		return "", time.Time{}, err
	}
	code, err := NewLinkCode()
	if err != nil {
		return "", time.Time{}, apperr.Internalf(err, "link code")
	}
	if err := s.store.SaveLinkCode(ctx, code, userID, config.TelegramLinkCodeTTL); err != nil {
		return "", time.Time{}, apperr.Internalf(err, "save link code")
	}
	return code, s.now().Add(config.TelegramLinkCodeTTL), nil
}

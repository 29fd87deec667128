package main

import (
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/config"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// readPassword reads a line from the terminal without echo.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

type adminStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListMentorships(ctx context.Context) ([]models.MentorshipRequest, error)
	ListPosts(ctx context.Context, category string) ([]models.Post, error)
	CreatePost(ctx context.Context, p *models.Post) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
}

const usage = `Usage: admin <command> [args]

Commands:
  create-mentor <email> <name>               create a mentor or promote an existing user
  reset-password <email>                     set a new password
  set-availability <email> on|off [capacity] open or close a mentor for requests
  check-mentorship                           print requests and mentor load
  seed [all|mentors|posts|events]            load sample data into an empty database`

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	s := storage.NewStorageService(db, nil) // no redis needed here
	ctx := context.Background()

	args := os.Args[2:]
	switch os.Args[1] {
	case "create-mentor":
		if len(args) < 2 {
			fmt.Println("Usage: admin create-mentor <email> <name>")
			os.Exit(1)
		}
		created, err := createMentor(ctx, s, args[0], strings.Join(args[1:], " "), promptPassword)
		if err != nil {
			log.Fatalf("Error creating mentor: %v", err)
		}
		if created {
			fmt.Printf("Mentor %s created.\n", args[0])
		} else {
			fmt.Printf("User %s is now a mentor.\n", args[0])
		}
	case "reset-password":
		if len(args) != 1 {
			fmt.Println("Usage: admin reset-password <email>")
			os.Exit(1)
		}
		if err := resetPassword(ctx, s, args[0], promptPassword); err != nil {
			log.Fatalf("Error resetting password: %v", err)
		}
		fmt.Printf("Password for %s has been reset.\n", args[0])
	case "set-availability":
		if len(args) < 2 {
			fmt.Println("Usage: admin set-availability <email> on|off [capacity]")
			os.Exit(1)
		}
		capacity := -1
		if len(args) > 2 {
			capacity, err = strconv.Atoi(args[2])
			if err != nil || capacity < 0 {
				fmt.Println("Invalid capacity. Please provide a non-negative integer.")
				os.Exit(1)
			}
		}
		if err := setAvailability(ctx, s, args[0], args[1] == "on", capacity); err != nil {
			log.Fatalf("Error updating availability: %v", err)
		}
		fmt.Printf("Availability for %s updated.\n", args[0])
	case "check-mentorship":
		if err := checkMentorship(ctx, s, os.Stdout); err != nil {
			log.Fatalf("Error reading mentorships: %v", err)
		}
	case "seed":
		what := "all"
		if len(args) > 0 {
			what = args[0]
		}
		if err := seed(ctx, s, what, promptPassword, time.Now(), os.Stdout); err != nil {
			log.Fatalf("Error seeding: %v", err)
		}
	default:
		fmt.Println("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

func promptPassword() (string, error) {
	fmt.Print("New password: ")
	first, err := readPassword()
	fmt.Println()
	if err != nil {
		return "", err
	}
	fmt.Print("Repeat password: ")
	second, err := readPassword()
	fmt.Println()
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) < config.MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", config.MinPasswordLength)
	}
	return string(first), nil
}

// createMentor promotes an existing account or creates a verified mentor.
// It reports whether a new account was created.
func createMentor(ctx context.Context, s adminStore, email, name string, password func() (string, error)) (bool, error) {
	email = models.NormalizeEmail(email)
	user, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		user.Role = models.RoleMentor
		user.IsMentorAvailable = true
		return false, s.SaveUser(ctx, user)
	case !errors.Is(err, storage.ErrNotFound):
		return false, err
	}

	pw, err := password()
	if err != nil {
		return false, err
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		return false, err
	}
	mentor := &models.User{
		Name:              name,
		Email:             email,
		PasswordHash:      hash,
		Role:              models.RoleMentor,
		IsEmailVerified:   true,
		IsMentorAvailable: true,
		MentorCapacity:    config.DefaultMentorCapacity,
		Availability:      models.Availability{PreferredMeetingType: models.MeetingVideo},
		MentorshipPreferences: models.MentorshipPreferences{
			SessionDuration: config.DefaultSessionDuration,
		},
	}
	return true, s.CreateUser(ctx, mentor)
}

func resetPassword(ctx context.Context, s adminStore, email string, password func() (string, error)) error {
	user, err := s.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return err
	}
	pw, err := password()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(pw)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.SaveUser(ctx, user)
}

// setAvailability opens or closes a mentor. A negative capacity keeps the current one.
func setAvailability(ctx context.Context, s adminStore, email string, available bool, capacity int) error {
	user, err := s.GetUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if !user.MentorCapable() {
		return fmt.Errorf("%s is not a mentor", user.Email)
	}
	user.IsMentorAvailable = available
	if capacity >= 0 {
		user.MentorCapacity = capacity
	}
	return s.SaveUser(ctx, user)
}

func checkMentorship(ctx context.Context, s adminStore, w io.Writer) error {
	reqs, err := s.ListMentorships(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== MENTORSHIP REQUESTS ===")
	fmt.Fprintln(w, "Total requests:", len(reqs))
	for _, r := range reqs {
		mentor := r.MentorID
		if r.Mentor != nil {
			mentor = r.Mentor.Name
		}
		fmt.Fprintf(w, "%s -> %s: %s (score %d)\n", r.MenteeName, mentor, r.Status, r.MatchScore)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== MENTOR LOAD ===")
	for _, u := range users {
		if !u.MentorCapable() {
			continue
		}
		fmt.Fprintf(w, "%s: Available=%t, Capacity=%d, Active=%d\n", u.Name, u.IsMentorAvailable, u.MentorCapacity, u.ActiveMentees)
	}
	return nil
}

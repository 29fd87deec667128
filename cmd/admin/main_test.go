package main

import (
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	users  map[string]*models.User
	reqs   []models.MentorshipRequest
	posts  []models.Post
	events []models.Event
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "id-" + user.Email
	}
	m.users[user.Email] = user
	return nil
}

func (m *memStore) SaveUser(ctx context.Context, user *models.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memStore) ListMentorships(ctx context.Context) ([]models.MentorshipRequest, error) {
	return m.reqs, nil
}

func (m *memStore) ListPosts(ctx context.Context, category string) ([]models.Post, error) {
	return m.posts, nil
}

func (m *memStore) CreatePost(ctx context.Context, p *models.Post) error {
	m.posts = append(m.posts, *p)
	return nil
}

func (m *memStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	return m.events, nil
}

func (m *memStore) CreateEvent(ctx context.Context, e *models.Event) error {
	m.events = append(m.events, *e)
	return nil
}

func fixedPassword() (string, error) { return "hunter22", nil }

func TestCreateMentor(t *testing.T) {
	s := &memStore{users: map[string]*models.User{
		"ann@example.com": {Name: "Ann", Email: "ann@example.com", Role: models.RoleUser},
	}}

	created, err := createMentor(context.Background(), s, "ANN@example.com", "Ann", fixedPassword)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, models.RoleMentor, s.users["ann@example.com"].Role)

	created, err = createMentor(context.Background(), s, "mia@example.com", "Mia Mentor", fixedPassword)
	require.NoError(t, err)
	assert.True(t, created)
	mia := s.users["mia@example.com"]
	assert.True(t, mia.IsEmailVerified)
	assert.Equal(t, 5, mia.MentorCapacity)
	assert.True(t, auth.CheckPassword(mia.PasswordHash, "hunter22"))
}

func TestSetAvailability(t *testing.T) {
	s := &memStore{users: map[string]*models.User{
		"mia@example.com": {Name: "Mia", Email: "mia@example.com", Role: models.RoleMentor, MentorCapacity: 5, ActiveMentees: 2},
		"ben@example.com": {Name: "Ben", Email: "ben@example.com", Role: models.RoleUser},
	}}

	require.NoError(t, setAvailability(context.Background(), s, "mia@example.com", true, 8))
	assert.True(t, s.users["mia@example.com"].IsMentorAvailable)
	assert.Equal(t, 8, s.users["mia@example.com"].MentorCapacity)
	assert.Equal(t, 2, s.users["mia@example.com"].ActiveMentees)

	require.NoError(t, setAvailability(context.Background(), s, "mia@example.com", false, -1))
	assert.Equal(t, 8, s.users["mia@example.com"].MentorCapacity)

	assert.Error(t, setAvailability(context.Background(), s, "ben@example.com", true, -1))
	assert.ErrorIs(t, setAvailability(context.Background(), s, "nobody@example.com", true, -1), storage.ErrNotFound)
}

func TestCheckMentorship(t *testing.T) {
	s := &memStore{
		users: map[string]*models.User{
			"mia@example.com": {Name: "Mia", Email: "mia@example.com", Role: models.RoleMentor, IsMentorAvailable: true, MentorCapacity: 5, ActiveMentees: 1},
		},
		reqs: []models.MentorshipRequest{
			{MenteeName: "Ben", MentorID: "m1", Mentor: &models.User{Name: "Mia"}, Status: models.StatusAccepted, MatchScore: 70},
		},
	}
	var out bytes.Buffer

	require.NoError(t, checkMentorship(context.Background(), s, &out))

	assert.Contains(t, out.String(), "Total requests: 1")
	assert.Contains(t, out.String(), "Ben -> Mia: accepted (score 70)")
	assert.Contains(t, out.String(), "Mia: Available=true, Capacity=5, Active=1")
}

func TestSeed_All(t *testing.T) {
	s := &memStore{users: map[string]*models.User{}}
	now := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)
	var out bytes.Buffer

	require.NoError(t, seed(context.Background(), s, "all", fixedPassword, now, &out))

	require.Len(t, s.users, len(sampleMentors))
	sarah := s.users["sarah.johnson@example.com"]
	require.NotNil(t, sarah)
	assert.Equal(t, models.RoleMentor, sarah.Role)
	assert.True(t, sarah.IsMentorAvailable)
	assert.True(t, sarah.IsEmailVerified)
	assert.Equal(t, 0, sarah.ActiveMentees)
	assert.Contains(t, sarah.Expertise, "React")
	assert.True(t, auth.CheckPassword(sarah.PasswordHash, "hunter22"))

	require.Len(t, s.posts, len(samplePosts))
	for _, p := range s.posts {
		assert.NotEmpty(t, p.AuthorID)
	}

	require.Len(t, s.events, len(sampleEvents))
	for _, e := range s.events {
		assert.True(t, e.Date.After(now), e.Title)
	}
	assert.Contains(t, out.String(), "mentors created")
}

func TestSeed_RunsTwiceWithoutDuplicates(t *testing.T) {
	s := &memStore{users: map[string]*models.User{}}
	now := time.Now()
	var out bytes.Buffer

	require.NoError(t, seed(context.Background(), s, "all", fixedPassword, now, &out))
	out.Reset()

	asked := false
	again := func() (string, error) {
		asked = true
		return fixedPassword()
	}
	require.NoError(t, seed(context.Background(), s, "all", again, now, &out))

	assert.False(t, asked, "no password needed when every mentor exists")
	assert.Len(t, s.users, len(sampleMentors))
	assert.Len(t, s.posts, len(samplePosts))
	assert.Len(t, s.events, len(sampleEvents))
	assert.Contains(t, out.String(), "posts exist, skipped")
	assert.Contains(t, out.String(), "events exist, skipped")
}

func TestSeed_PostsNeedAuthors(t *testing.T) {
	s := &memStore{users: map[string]*models.User{}}

	err := seed(context.Background(), s, "posts", fixedPassword, time.Now(), &bytes.Buffer{})

	assert.ErrorContains(t, err, "seed mentors first")
	assert.Empty(t, s.posts)
}

func TestSeed_Targets(t *testing.T) {
	s := &memStore{users: map[string]*models.User{}}

	require.NoError(t, seed(context.Background(), s, "events", fixedPassword, time.Now(), &bytes.Buffer{}))
	assert.Len(t, s.events, len(sampleEvents))
	assert.Empty(t, s.users)

	assert.ErrorContains(t, seed(context.Background(), s, "alumni", fixedPassword, time.Now(), &bytes.Buffer{}), "unknown seed target")
}

func TestSeed_PasswordPromptFails(t *testing.T) {
	s := &memStore{users: map[string]*models.User{}}
	fail := func() (string, error) { return "", errors.New("passwords do not match") }

	err := seed(context.Background(), s, "mentors", fail, time.Now(), &bytes.Buffer{})

	assert.ErrorContains(t, err, "passwords do not match")
	assert.Empty(t, s.users)
}

package mentorship

import (
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/notify"
	"alumnihub/backend/internal/storage"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
)

// memStore is an in-memory storage.MentorshipStore. WithMentorLock takes a
// single store-wide mutex and rolls back on error.
type memStore struct {
	mu      sync.Mutex
	lock    sync.Mutex
	users   map[string]models.User
	reqs    map[string]models.MentorshipRequest
	seq     int
	listErr error
}

var _ storage.MentorshipStore = (*memStore)(nil)

func newMemStore(users ...models.User) *memStore {
	s := &memStore{users: map[string]models.User{}, reqs: map[string]models.MentorshipRequest{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *memStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (s *memStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	cp.ActiveMentees = s.users[user.ID].ActiveMentees
	s.users[user.ID] = cp
	return nil
}

func (s *memStore) ListMentors(ctx context.Context, f storage.MentorFilter) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.User
	for _, u := range s.users {
		if !u.MentorCapable() {
			continue
		}
		if f.Available != nil && u.IsMentorAvailable != *f.Available {
			continue
		}
		if f.Expertise != "" && !hasFold(u.Expertise, f.Expertise) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func hasFold(list []string, v string) bool {
	for _, e := range list {
		if strings.EqualFold(e, v) {
			return true
		}
	}
	return false
}

func (s *memStore) CreateMentorship(ctx context.Context, req *models.MentorshipRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if req.ID == "" {
		req.ID = fmt.Sprintf("req-%d", s.seq)
	}
	s.reqs[req.ID] = *req
	return nil
}

func (s *memStore) GetMentorship(ctx context.Context, id string) (*models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reqs[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) FindOpenMentorship(ctx context.Context, mentorID, menteeID string) (*models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reqs {
		if r.MentorID == mentorID && r.MenteeID == menteeID && r.Status.Open() {
			return &r, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) SaveMentorship(ctx context.Context, req *models.MentorshipRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reqs[req.ID]; !ok {
		return storage.ErrNotFound
	}
	s.reqs[req.ID] = *req
	return nil
}

func (s *memStore) ListMentorshipsForUser(ctx context.Context, userID string) ([]models.MentorshipRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MentorshipRequest
	for _, r := range s.reqs {
		if r.HasParty(userID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) ListMentorships(ctx context.Context) ([]models.MentorshipRequest, error) {
	return s.ListMentorshipsForUser(ctx, "")
}

func (s *memStore) AdjustActiveMentees(ctx context.Context, mentorID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[mentorID]
	if !ok {
		return storage.ErrNotFound
	}
	u.ActiveMentees += delta
	s.users[mentorID] = u
	return nil
}

func (s *memStore) WithMentorLock(ctx context.Context, mentorID string, fn func(tx storage.MentorshipStore, mentor *models.User) error) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	mentor, err := s.GetUserByID(ctx, mentorID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	users := make(map[string]models.User, len(s.users))
	for k, v := range s.users {
		users[k] = v
	}
	reqs := make(map[string]models.MentorshipRequest, len(s.reqs))
	for k, v := range s.reqs {
		reqs[k] = v
	}
	s.mu.Unlock()

	if err := fn(s, mentor); err != nil {
		s.mu.Lock()
		s.users, s.reqs = users, reqs
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) user(id string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reqs)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(n notify.Notice) {
	m.Called(n)
}

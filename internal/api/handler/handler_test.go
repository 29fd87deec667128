package handler

import (
	"alumnihub/backend/internal/apperr"
	"alumnihub/backend/internal/auth"
	"alumnihub/backend/internal/logging"
	"alumnihub/backend/internal/mentorship"
	"alumnihub/backend/internal/messaging"
	"alumnihub/backend/internal/models"
	"alumnihub/backend/internal/storage"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const frontend = "http://localhost:5173"

type testEnv struct {
	router     http.Handler
	auth       *MockAuth
	mentorship *MockMentorship
	messages   *MockMessaging
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		auth:       new(MockAuth),
		mentorship: new(MockMentorship),
		messages:   new(MockMessaging),
	}
	env.auth.On("Authenticate", "good-token").Return("user_A", nil).Maybe()
	env.auth.On("Authenticate", "bad-token").
		Return("", apperr.Unauthorizedf("Token is not valid")).Maybe()

	h := NewHandler(Services{
		Auth:       env.auth,
		Mentorship: env.mentorship,
		Messages:   env.messages,
	}, []string{frontend}, logging.Discard())
	env.router = h.NewRouter()
	return env
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/mentorship", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token, authorization denied", decode(t, w)["message"])

	w = env.do(http.MethodGet, "/api/mentorship", "", "bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is not valid", decode(t, w)["message"])

	env.mentorship.On("ListForUser", mock.Anything, "user_A").Return([]models.MentorshipRequest{}, nil)
	w = env.do(http.MethodGet, "/api/mentorship", "", "good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestLogin_UnverifiedEmail(t *testing.T) {
	env := newTestEnv(t)
	env.auth.On("Login", mock.Anything, "Ann@Example.com", "secret1").
		Return(nil, apperr.Wrap(apperr.Forbidden, "Please verify your email", auth.ErrEmailNotVerified))

	w := env.do(http.MethodPost, "/api/auth/login", `{"email":"Ann@Example.com","password":"secret1"}`, "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["emailNotVerified"])
	assert.Equal(t, "ann@example.com", body["email"])
	assert.Equal(t, "Please verify your email", body["message"])
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.auth.On("Login", mock.Anything, "ann@example.com", "secret1").Return(&auth.Session{
		Token: "jwt",
		User:  models.UserSummary{ID: "user_A", Name: "Ann", Email: "ann@example.com", Role: models.RoleUser},
	}, nil)

	w := env.do(http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"secret1"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "jwt", body["token"])
	assert.Equal(t, "user_A", body["user"].(map[string]any)["id"])
}

func TestCreateMentorshipRequest(t *testing.T) {
	env := newTestEnv(t)
	in := mentorship.CreateInput{MentorID: "mentor_1", Goals: "learn go"}
	env.mentorship.On("CreateRequest", mock.Anything, "user_A", in).
		Return(&models.MentorshipRequest{ID: "req_1", MentorID: "mentor_1", MenteeID: "user_A", Status: models.StatusPending, MatchScore: 70}, nil)

	w := env.do(http.MethodPost, "/api/mentorship/request", `{"mentorId":"mentor_1","goals":"learn go"}`, "good-token")

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(70), body["matchScore"])
	assert.Equal(t, "pending", body["request"].(map[string]any)["status"])
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", apperr.Validationf("Goals are required"), http.StatusBadRequest, "Goals are required"},
		{"forbidden", apperr.Forbiddenf("Not authorized"), http.StatusForbidden, "Not authorized"},
		{"not found", apperr.NotFoundf("Mentor not found"), http.StatusNotFound, "Mentor not found"},
		{"conflict", apperr.Conflictf("Mentor has reached maximum capacity"), http.StatusConflict, "Mentor has reached maximum capacity"},
		{"rate limited", apperr.RateLimitedf("Slow down"), http.StatusTooManyRequests, "Slow down"},
		{"internal", apperr.Internalf(errors.New("pq: connection refused"), "save"), http.StatusInternalServerError, "internal server error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.mentorship.On("UpdateStatus", mock.Anything, "user_A", "req_1", mentorship.StatusInput{Status: "accepted"}).
				Return(nil, tt.err)

			w := env.do(http.MethodPut, "/api/mentorship/req_1/status", `{"status":"accepted"}`, "good-token")

			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["message"])
		})
	}
}

func TestListMentors_Filters(t *testing.T) {
	env := newTestEnv(t)
	yes := true
	env.mentorship.On("ListMentors", mock.Anything, storage.MentorFilter{Expertise: "go", Available: &yes}).
		Return([]models.User{{ID: "mentor_1", Name: "Mia"}}, nil)

	w := env.do(http.MethodGet, "/api/mentorship/mentors?expertise=go&available=true", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mentor_1"`)

	w = env.do(http.MethodGet, "/api/mentorship/mentors?available=maybe", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	in := messaging.SendInput{MentorshipID: "req_1", ReceiverID: "mentor_1", Content: "hi"}
	env.messages.On("Send", mock.Anything, "user_A", in).
		Return(&models.Message{ID: "msg_1", MentorshipID: "req_1", SenderID: "user_A", ReceiverID: "mentor_1", Content: "hi"}, nil)

	w := env.do(http.MethodPost, "/api/messages/send", `{"mentorshipId":"req_1","receiverId":"mentor_1","content":"hi"}`, "good-token")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "msg_1", decode(t, w)["id"])

	w = env.do(http.MethodPost, "/api/messages/send", `{not json`, "good-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnreadMessages(t *testing.T) {
	env := newTestEnv(t)
	env.messages.On("UnreadCount", mock.Anything, "user_A").Return(int64(3), nil)

	w := env.do(http.MethodGet, "/api/messages/unread-count", "", "good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":3}`, w.Body.String())
}

func TestNotificationsWS_NoHub(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/notifications/ws", "", "good-token")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/mentorship/request", nil)
	req.Header.Set("Origin", frontend)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	assert.Equal(t, frontend, w.Header().Get("Access-Control-Allow-Origin"))
	env.auth.AssertNotCalled(t, "Authenticate", mock.Anything)
}

package web_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeetingMinder/MeetingMinder/internal/booking"
	"github.com/MeetingMinder/MeetingMinder/internal/config"
	"github.com/MeetingMinder/MeetingMinder/internal/db/dbtest"
	"github.com/MeetingMinder/MeetingMinder/internal/db/store"
	"github.com/MeetingMinder/MeetingMinder/internal/lock"
	"github.com/MeetingMinder/MeetingMinder/internal/web"
	"github.com/MeetingMinder/MeetingMinder/internal/web/handler"
)

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r response) errorBody(t *testing.T) handler.ErrorBody {
	t.Helper()

	var b handler.ErrorBody
	r.decode(t, &b)

	return b
}

type client struct {
	t       *testing.T
	service *web.Service
}

func (c client) do(method, target, body string) response {
	c.t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.service.App.Test(req, -1)
	require.NoError(c.t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	return response{status: resp.StatusCode, header: resp.Header, body: raw}
}

func testConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		Title:   "MeetingMinder",
		Webserver: config.Webserver{
			Port:         8080,
			URL:          "http://localhost:8080",
			WriteTimeout: 5,
		},
	}
}

func newClient(t *testing.T, cfg *config.Config) client {
	t.Helper()

	s, err := store.New(dbtest.Open(t))
	require.NoError(t, err)

	svc, err := web.New(cfg, booking.NewServices(s, lock.NewLocal(), booking.HalfOpen))
	require.NoError(t, err)

	return client{t: t, service: svc}
}

// seed creates a role, a user and a room and returns their ids.
func seed(t *testing.T, c client) (roleID, userID, roomID uint64) {
	t.Helper()

	var v struct {
		ID uint64 `json:"id"`
	}

	r := c.do(http.MethodPost, "/api/roles", `{"name":"Admin"}`)
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	r.decode(t, &v)
	roleID = v.ID

	r = c.do(http.MethodPost, "/api/users", fmt.Sprintf(`{"name":"ada","password":"secret1","role":{"id":%d}}`, roleID))
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	r.decode(t, &v)
	userID = v.ID

	r = c.do(http.MethodPost, "/api/rooms", `{"name":"Orion","capacity":8,"description":"3rd floor"}`)
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	r.decode(t, &v)
	roomID = v.ID

	return roleID, userID, roomID
}

func reservationBody(userID, roomID uint64, from, to string) string {
	return fmt.Sprintf(
		`{"startTime":"2024-08-25T%s:00Z","endTime":"2024-08-25T%s:00Z","user":{"id":%d},"room":{"id":%d}}`,
		from, to, userID, roomID,
	)
}

func TestReservationLifecycle(t *testing.T) {
	c := newClient(t, testConfig())
	_, userID, roomID := seed(t, c)

	r := c.do(http.MethodPost, "/api/reservations", reservationBody(userID, roomID, "10:00", "12:00"))
	require.Equal(t, http.StatusCreated, r.status, string(r.body))

	var created struct {
		ID        uint64 `json:"id"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		User      struct {
			Name     string `json:"name"`
			Password string `json:"password"`
			Role     struct {
				Name string `json:"name"`
			} `json:"role"`
		} `json:"user"`
		Room struct {
			Name string `json:"name"`
		} `json:"room"`
	}
	r.decode(t, &created)

	assert.Equal(t, "2024-08-25T10:00:00Z", created.StartTime)
	assert.Equal(t, "ada", created.User.Name)
	assert.Empty(t, created.User.Password)
	assert.Equal(t, "Admin", created.User.Role.Name)
	assert.Equal(t, "Orion", created.Room.Name)

	path := fmt.Sprintf("/api/reservations/%d", created.ID)

	testCases := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantKind   string
		wantField  string
	}{
		{"overlapping create", http.MethodPost, "/api/reservations", reservationBody(userID, roomID, "11:00", "13:00"), http.StatusConflict, handler.KindRoomReserved, ""},
		{"touching create", http.MethodPost, "/api/reservations", reservationBody(userID, roomID, "12:00", "13:00"), http.StatusCreated, "", ""},
		{"end before start", http.MethodPost, "/api/reservations", reservationBody(userID, roomID, "15:00", "14:00"), http.StatusBadRequest, handler.KindValidation, "endTime"},
		{"unknown room", http.MethodPost, "/api/reservations", reservationBody(userID, 999, "15:00", "16:00"), http.StatusBadRequest, handler.KindReferenceNotFound, "room"},
		{"wrong type", http.MethodPost, "/api/reservations", `{"startTime":10}`, http.StatusBadRequest, handler.KindValidation, "startTime"},
		{"not json", http.MethodPost, "/api/reservations", `{`, http.StatusBadRequest, handler.KindValidation, ""},
		{"patch into the next", http.MethodPatch, path, `{"endTime":"2024-08-25T12:30:00Z"}`, http.StatusConflict, handler.KindRoomReserved, ""},
		{"patch description", http.MethodPatch, path, `{"description":"Sprint review"}`, http.StatusOK, "", ""},
		{"patch string id", http.MethodPatch, path, `{"room":{"id":"1"}}`, http.StatusBadRequest, handler.KindInvalidReferenceID, "room"},
		{"patch bad time", http.MethodPatch, path, `{"startTime":"soon"}`, http.StatusBadRequest, handler.KindInvalidFieldValue, "startTime"},
		{"patch fractional time", http.MethodPatch, path, `{"endTime":"2024-08-25T12:00:00.250Z"}`, http.StatusBadRequest, handler.KindInvalidFieldValue, "endTime"},
		{"patch missing", http.MethodPatch, "/api/reservations/999", `{"description":"x"}`, http.StatusNotFound, handler.KindNotFound, ""},
		{"patch not an object", http.MethodPatch, path, `[1]`, http.StatusBadRequest, handler.KindValidation, ""},
		{"replace shrinking", http.MethodPut, path, reservationBody(userID, roomID, "10:00", "11:00"), http.StatusOK, "", ""},
		{"bad id", http.MethodGet, "/api/reservations/abc", "", http.StatusBadRequest, handler.KindValidation, "id"},
		{"bad sort", http.MethodGet, "/api/reservations?sort=colour", "", http.StatusBadRequest, handler.KindInvalidFieldValue, "sort"},
		{"bad filter", http.MethodGet, "/api/reservations?from=noon", "", http.StatusBadRequest, handler.KindInvalidFieldValue, "from"},
		{"room in use", http.MethodDelete, fmt.Sprintf("/api/rooms/%d", roomID), "", http.StatusConflict, handler.KindInUse, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := c.do(tc.method, tc.target, tc.body)
			require.Equal(t, tc.wantStatus, r.status, string(r.body))

			if tc.wantKind == "" {
				return
			}

			body := r.errorBody(t)
			assert.Equal(t, tc.wantKind, body.Error)
			assert.Equal(t, tc.wantField, body.Field)
			assert.NotEmpty(t, body.Message)
		})
	}

	r = c.do(http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, r.status)

	var got struct {
		Description string `json:"description"`
		EndTime     string `json:"endTime"`
	}
	r.decode(t, &got)
	assert.Equal(t, "Sprint review", got.Description)
	assert.Equal(t, "2024-08-25T11:00:00Z", got.EndTime)

	var page store.Page[json.RawMessage]

	r = c.do(http.MethodGet, fmt.Sprintf("/api/reservations?roomId=%d&sort=startTime,desc&size=1", roomID), "")
	require.Equal(t, http.StatusOK, r.status)
	r.decode(t, &page)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Content, 1)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, path, "").status)
	require.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, path, "").status)
	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/reservations", "").status)
	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, fmt.Sprintf("/api/rooms/%d", roomID), "").status)
}

func TestRoomsRolesUsers(t *testing.T) {
	c := newClient(t, testConfig())
	roleID, userID, roomID := seed(t, c)

	testCases := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantKind   string
	}{
		{"duplicate room", http.MethodPost, "/api/rooms", `{"name":"Orion","capacity":2}`, http.StatusConflict, handler.KindDuplicateName},
		{"room without capacity", http.MethodPost, "/api/rooms", `{"name":"Vega"}`, http.StatusBadRequest, handler.KindValidation},
		{"blank room name", http.MethodPost, "/api/rooms", `{"name":"  ","capacity":2}`, http.StatusBadRequest, handler.KindValidation},
		{"room patch capacity", http.MethodPatch, fmt.Sprintf("/api/rooms/%d", roomID), `{"capacity":12}`, http.StatusOK, ""},
		{"room patch bad capacity", http.MethodPatch, fmt.Sprintf("/api/rooms/%d", roomID), `{"capacity":"big"}`, http.StatusBadRequest, handler.KindInvalidFieldValue},
		{"room replace", http.MethodPut, fmt.Sprintf("/api/rooms/%d", roomID), `{"name":"Orion","capacity":10}`, http.StatusOK, ""},
		{"room missing", http.MethodGet, "/api/rooms/999", "", http.StatusNotFound, handler.KindNotFound},
		{"duplicate role", http.MethodPost, "/api/roles", `{"name":"Admin"}`, http.StatusConflict, handler.KindDuplicateName},
		{"role in use", http.MethodDelete, fmt.Sprintf("/api/roles/%d", roleID), "", http.StatusConflict, handler.KindInUse},
		{"user short password", http.MethodPost, "/api/users", fmt.Sprintf(`{"name":"bob","password":"123","role":{"id":%d}}`, roleID), http.StatusBadRequest, handler.KindValidation},
		{"user unknown role", http.MethodPost, "/api/users", `{"name":"bob","password":"secret1","role":{"id":999}}`, http.StatusBadRequest, handler.KindReferenceNotFound},
		{"user patch role null", http.MethodPatch, fmt.Sprintf("/api/users/%d", userID), `{"role":null}`, http.StatusBadRequest, handler.KindInvalidFieldValue},
		{"user patch name", http.MethodPatch, fmt.Sprintf("/api/users/%d", userID), `{"name":"ada.l"}`, http.StatusOK, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := c.do(tc.method, tc.target, tc.body)
			require.Equal(t, tc.wantStatus, r.status, string(r.body))

			if tc.wantKind != "" {
				assert.Equal(t, tc.wantKind, r.errorBody(t).Error)
			}
		})
	}

	var page store.Page[map[string]any]

	r := c.do(http.MethodGet, "/api/users?role=Admin&name=ADA", "")
	require.Equal(t, http.StatusOK, r.status)
	r.decode(t, &page)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "ada.l", page.Content[0]["name"])
	assert.NotContains(t, page.Content[0], "password")

	r = c.do(http.MethodGet, "/api/rooms?name=ori", "")
	require.Equal(t, http.StatusOK, r.status)
	r.decode(t, &page)
	require.Len(t, page.Content, 1)
	assert.InDelta(t, 10, page.Content[0]["capacity"], 0)

	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/users", "").status)
	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, fmt.Sprintf("/api/roles/%d", roleID), "").status)
	require.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/api/rooms", "").status)

	r = c.do(http.MethodGet, "/api/rooms", "")
	r.decode(t, &page)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalElements)
}

func TestInfrastructureRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.Webserver.ShutDownTime = 0

	c := newClient(t, cfg)

	r := c.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, r.status)
	assert.Equal(t, "/api/rooms", r.header.Get("Location"))

	r = c.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, r.status)
	assert.Contains(t, string(r.body), "go_goroutines")

	r = c.do(http.MethodGet, "/api/rooms", "")
	assert.Equal(t, http.StatusOK, r.status)
	assert.NotEmpty(t, r.header.Get("X-Request-Id"))

	r = c.do(http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, r.status)
	assert.Equal(t, handler.KindNotFound, r.errorBody(t).Error)

	r = c.do(http.MethodGet, web.CheckAlivePath, "")
	assert.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "OK", string(r.body))
}

func TestRateLimitAndCache(t *testing.T) {
	cfg := testConfig()
	cfg.Webserver.RateLimitPerSec = 0.001
	cfg.Webserver.RateLimitBurst = 3
	cfg.Webserver.CacheTTL = 60

	c := newClient(t, cfg)

	first := c.do(http.MethodGet, "/api/rooms", "")
	second := c.do(http.MethodGet, "/api/rooms", "")
	assert.Equal(t, "MISS", first.header.Get("X-Cache"))
	assert.Equal(t, "HIT", second.header.Get("X-Cache"))

	r := c.do(http.MethodPost, "/api/rooms", `{"name":"Vega","capacity":2}`)
	assert.Equal(t, http.StatusCreated, r.status)

	r = c.do(http.MethodGet, "/api/rooms", "")
	assert.Equal(t, http.StatusTooManyRequests, r.status)
	assert.Equal(t, "TooManyRequests", r.errorBody(t).Error)

	// infrastructure routes are not limited
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, web.CheckAlivePath, "").status)
}

func TestNew(t *testing.T) {
	_, err := web.New(nil, &booking.Services{})
	require.Error(t, err)

	_, err = web.New(testConfig(), nil)
	require.Error(t, err)
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ambulance-request-backend/internal/events"
	"ambulance-request-backend/internal/repository"
	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/internal/testutil"
	"ambulance-request-backend/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := utils.RegisterValidators(); err != nil {
		panic(err)
	}
	utils.InitJWT("test-secret", time.Minute, time.Hour)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// newTestRouter wires every layer onto a sqlmock database.
func newTestRouter(t *testing.T, bus events.Bus) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := testutil.NewMockDB(t)

	userRepo := repository.NewUserRepo(db)
	hospitalRepo := repository.NewHospitalRepo(db)
	ambulanceRepo := repository.NewAmbulanceRepo(db)
	requestRepo := repository.NewRequestRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	if bus == nil {
		bus = events.NewMemoryBus()
	}
	requestService := service.NewRequestService(requestRepo, userRepo, hospitalRepo, auditRepo, bus)

	r := gin.New()
	RegisterRoutes(r, Handlers{
		Auth:      NewAuthHandler(service.NewAuthService(hospitalRepo, ambulanceRepo, sessionRepo, auditRepo), false),
		User:      NewUserHandler(service.NewUserService(userRepo), requestService),
		Hospital:  NewHospitalHandler(service.NewHospitalService(hospitalRepo, auditRepo)),
		Ambulance: NewAmbulanceHandler(service.NewAmbulanceService(ambulanceRepo, requestRepo, auditRepo, bus)),
		Request:   NewRequestHandler(requestService),
		Events:    NewEventsHandler(bus),
	})
	return r, mock
}

func do(t *testing.T, r http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func token(t *testing.T, hospitalID, ambulanceID uint, role string) string {
	t.Helper()
	tok, err := utils.GenerateAccessToken(hospitalID, ambulanceID, role)
	require.NoError(t, err)
	return tok
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w, env := do(t, r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestRegisterUser(t *testing.T) {
	r, mock := newTestRouter(t, nil)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(12, 1))

	w, env := do(t, r, http.MethodPost, "/api/v1/users",
		`{"name":"Ada","email":"Ada@Example.com","phone":"+254 712 345 678"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var user struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, uint(12), user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestRegisterUser_BindingErrors(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	bodies := map[string]string{
		"missing name": `{"email":"a@example.com","phone":"0712345678"}`,
		"bad email":    `{"name":"A","email":"not-an-email","phone":"0712345678"}`,
		"bad phone":    `{"name":"A","email":"a@example.com","phone":"12"}`,
		"not json":     `name=A`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/v1/users", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestGetHospital(t *testing.T) {
	r, mock := newTestRouter(t, nil)

	w, _ := do(t, r, http.MethodGet, "/api/v1/hospitals/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	mock.ExpectQuery("SELECT \\* FROM `hospitals` WHERE `hospitals`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	w, env := do(t, r, http.MethodGet, "/api/v1/hospitals/7", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "hospital not found", env.Error)
}

func TestGetAllHospitals_InternalErrorIsHidden(t *testing.T) {
	r, mock := newTestRouter(t, nil)

	mock.ExpectQuery("SELECT \\* FROM `hospitals` ORDER BY name ASC").
		WillReturnError(errors.New("connection reset"))

	w, env := do(t, r, http.MethodGet, "/api/v1/hospitals", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", env.Error)
}

func TestRegisterHospital_BindingErrors(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	bodies := map[string]string{
		"missing coordinates": `{"name":"H","password":"secret1"}`,
		"bad latitude":        `{"name":"H","password":"secret1","location_lat":95,"location_lng":0}`,
		"oversized fleet":     `{"name":"H","password":"secret1","location_lat":0,"location_lng":0,"total_ambulances":501}`,
		"short password":      `{"name":"H","password":"abc","location_lat":0,"location_lng":0}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			w, _ := do(t, r, http.MethodPost, "/api/v1/hospitals", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestDispatch_NoFleet(t *testing.T) {
	r, mock := newTestRouter(t, nil)

	mock.ExpectQuery("SELECT \\* FROM `hospitals` ORDER BY hospitals.id ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w, env := do(t, r, http.MethodPost, "/api/v1/requests/dispatch", `{"user_id":1,"user_lat":0,"user_lng":0}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no free ambulance available", env.Error)
}

func TestCreateRequest_BindingErrors(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w, _ := do(t, r, http.MethodPost, "/api/v1/requests", `{"user_id":1,"hospital_id":1,"user_lat":0,"user_lng":0}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/requests", `{"user_id":1,"hospital_id":1,"ambulance_id":1,"user_lat":0,"user_lng":200}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRequestStatus_RequiresSession(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w, _ := do(t, r, http.MethodPatch, "/api/v1/requests/1/status", `{"status":"Accepted"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := do(t, r, http.MethodPatch, "/api/v1/requests/1/status", `{"status":"Done"}`, token(t, 1, 0, utils.RoleHospital))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "invalid request status")
}

func TestHospitalScopedRoutes(t *testing.T) {
	r, mock := newTestRouter(t, nil)
	admin := token(t, 4, 0, utils.RoleHospital)
	driver := token(t, 4, 9, utils.RoleDriver)

	w, _ := do(t, r, http.MethodGet, "/api/v1/hospitals/5/ambulances", "", admin)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, r, http.MethodPost, "/api/v1/hospitals/4/ambulances", `{}`, driver)
	assert.Equal(t, http.StatusForbidden, w.Code)

	mock.ExpectQuery("SELECT \\* FROM `ambulances` WHERE hospital_id = \\? AND status = \\?").
		WithArgs(4, "Free").
		WillReturnRows(sqlmock.NewRows([]string{"id", "hospital_id", "status"}).
			AddRow(1, 4, "Free").
			AddRow(2, 4, "Free"))

	w, env := do(t, r, http.MethodGet, "/api/v1/hospitals/4/ambulances?status=available", "", driver)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 2, data.Count)
}

func TestUpdateAmbulanceStatus_DriverForbidden(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w, _ := do(t, r, http.MethodPatch, "/api/v1/ambulances/9/status", `{"status":"Free"}`, token(t, 4, 9, utils.RoleDriver))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLoginHospital_UnknownName(t *testing.T) {
	r, mock := newTestRouter(t, nil)

	mock.ExpectQuery("SELECT \\* FROM `hospitals` WHERE name = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w, env := do(t, r, http.MethodPost, "/auth/hospital/login", `{"name":"Ghost","password":"secret1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", env.Error)
}

func TestRefresh_MissingCookie(t *testing.T) {
	r, _ := newTestRouter(t, nil)

	w, _ := do(t, r, http.MethodPost, "/auth/refresh", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := do(t, r, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", env.Message)
}

// replayBus hands every subscriber a fixed, already closed stream.
type replayBus struct {
	channel string
	events  []*events.RequestEvent
}

func (b *replayBus) Publish(context.Context, *events.RequestEvent) error { return nil }

func (b *replayBus) Subscribe(_ context.Context, channel string) (<-chan *events.RequestEvent, error) {
	b.channel = channel
	ch := make(chan *events.RequestEvent, len(b.events))
	for _, e := range b.events {
		ch <- e
	}
	close(ch)
	return ch, nil
}

func (b *replayBus) Close() error { return nil }

func TestUserEvents_StreamsSSE(t *testing.T) {
	bus := &replayBus{events: []*events.RequestEvent{
		{ID: "e1", Type: events.TypeRequestStatus, RequestID: 3, UserID: 8, Status: "Accepted"},
	}}
	r, _ := newTestRouter(t, bus)

	w, _ := do(t, r, http.MethodGet, "/api/v1/users/8/requests/events", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "requests:user:8", bus.channel)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"), w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event:"+events.TypeRequestStatus)
	assert.Contains(t, body, `"request_id":3`)
}

func TestHospitalEvents_RequiresOwnHospital(t *testing.T) {
	bus := &replayBus{}
	r, _ := newTestRouter(t, bus)

	w, _ := do(t, r, http.MethodGet, "/api/v1/hospitals/2/requests/events", "", token(t, 1, 0, utils.RoleHospital))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, bus.channel)

	w, _ = do(t, r, http.MethodGet, "/api/v1/hospitals/1/requests/events", "", token(t, 1, 0, utils.RoleHospital))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"), "stream type must be set before any event")
	assert.Equal(t, "requests:hospital:1", bus.channel)
}

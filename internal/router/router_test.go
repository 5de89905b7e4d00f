package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/handler"
	"github.com/oeh-wirtschaft/oeh-backend/internal/mailer"
	"github.com/oeh-wirtschaft/oeh-backend/internal/metrics"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository/memory"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	masterUser = "masteradmin"
	masterPass = "master-pass"
	student    = "k12345678@students.jku.at"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []*mailer.Message
}

func (m *recordingMailer) Enabled() bool { return true }

func (m *recordingMailer) Send(_ context.Context, msg *mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

type envelope struct {
	Data       json.RawMessage      `json:"data"`
	Pagination *response.Pagination `json:"pagination"`
	Error      *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type server struct {
	engine    *gin.Engine
	db        *memory.DB
	mail      *recordingMailer
	operators *service.OperatorService
	auth      *service.AuthService
}

func newServer(t *testing.T) *server {
	t.Helper()
	validator.Setup()

	cfg := &config.Config{
		GinMode:    gin.TestMode,
		JWTSecret:  "router-test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
		Master: config.MasterConfig{
			Username:    masterUser,
			Email:       "master@oeh.jku.at",
			Password:    masterPass,
			DisplayName: "Master Administrator",
		},
		Codes: config.CodeConfig{
			AllowedEmailDomains: []string{"@students.jku.at"},
			TTL:                 30 * time.Minute,
			RequestLimit:        5,
			RequestWindow:       15 * time.Minute,
			IssuedDefaultDays:   30,
		},
	}

	log := zerolog.Nop()
	db := memory.NewDB()
	cache := memory.NewStore()
	mail := &recordingMailer{}
	m := metrics.New()

	operatorRepo := memory.NewOperatorRepository(db)
	courseRepo := memory.NewCourseRepository(db)
	codeRepo := memory.NewVerificationCodeRepository(db)

	activity := service.NewActivityService(memory.NewActivityRepository(db), cache, log)
	auth := service.NewAuthService(cfg, operatorRepo, cache, activity, log)
	operators := service.NewOperatorService(cfg.Master, operatorRepo, auth, activity, log)
	settings := service.NewSettingService(memory.NewSettingRepository(db), activity, log)

	_, err := operators.EnsureMaster(context.Background())
	require.NoError(t, err)

	handlers := &Handlers{
		Auth:         handler.NewAuthHandler(auth),
		Operator:     handler.NewOperatorHandler(operators),
		Course:       handler.NewCourseHandler(service.NewCourseService(courseRepo, nil, activity, log)),
		Verification: handler.NewVerificationHandler(service.NewVerificationService(cfg.Codes, courseRepo, codeRepo, cache, mail, m, log)),
		Code:         handler.NewCodeHandler(service.NewCodeService(cfg.Codes, codeRepo, activity, m, log)),
		News:         handler.NewNewsHandler(service.NewNewsService(memory.NewNewsRepository(db), activity, log)),
		Event:        handler.NewEventHandler(service.NewEventService(memory.NewEventRepository(db), activity, log)),
		Study:        handler.NewStudyHandler(service.NewStudyService(memory.NewStudyRepository(db), activity, log)),
		Setting:      handler.NewSettingHandler(settings),
		Contact:      handler.NewContactHandler(service.NewContactService(settings, mail, m, log)),
		Dashboard: handler.NewDashboardHandler(
			service.NewDashboardService(memory.NewDashboardRepository(db), operatorRepo, activity), activity),
		WS:     handler.NewWSHandler(nil, activity, log, nil),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{}, log),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	engine := SetupRouter(ctx, Deps{Config: cfg, Auth: auth, Metrics: m, Log: log}, handlers)
	return &server{engine: engine, db: db, mail: mail, operators: operators, auth: auth}
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func (s *server) login(t *testing.T, username, password string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res model.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.AccessToken
}

// createOperator creates an operator through the API as master and logs them in.
func (s *server) createOperator(t *testing.T, master, username string, role model.Role) (int, string) {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/admin/operators", master, gin.H{
		"username":     username,
		"email":        username + "@oeh.jku.at",
		"password":     "password123",
		"display_name": username,
		"role":         role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var op model.Operator
	require.NoError(t, json.Unmarshal(env.Data, &op))
	return op.ID, s.login(t, username, "password123")
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	s := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestLoginAndLogout(t *testing.T) {
	s := newServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": masterUser, "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	assert.Equal(t, "Ungültige Anmeldedaten", env.Error.Message)

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Fields, "username")

	token := s.login(t, masterUser, masterPass)

	rec, env = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[struct {
		Operator    model.Operator `json:"operator"`
		Permissions []string       `json:"permissions"`
	}](t, env)
	assert.Equal(t, model.RoleMaster, me.Operator.Role)
	assert.True(t, me.Operator.IsMaster)
	assert.Contains(t, me.Permissions, string(model.PermissionSettingsWrite))

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", env.Error.Code)
}

func TestAuthenticationFailures(t *testing.T) {
	s := newServer(t)

	rec, env := s.do(t, http.MethodGet, "/api/v1/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REQUIRED", env.Error.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/admin/stats", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_INVALID", env.Error.Code)
}

func TestRoleGates(t *testing.T) {
	s := newServer(t)
	master := s.login(t, masterUser, masterPass)
	editorID, editor := s.createOperator(t, master, "editor1", model.RoleEditor)
	_, admin := s.createOperator(t, master, "admin1", model.RoleAdmin)

	rec, env := s.do(t, http.MethodGet, "/api/v1/admin/stats", editor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "PERMISSION_DENIED", env.Error.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/admin/stats", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/admin/operators", admin, gin.H{
		"username": "sneaky", "email": "sneaky@oeh.jku.at", "password": "password123", "display_name": "x",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/news", editor, gin.H{"title": "Hallo", "content": "Welt", "is_published": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	news := decode[model.News](t, env)

	rec, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/news/%d", news.ID), admin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "only the author or a master may delete")

	rec, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/settings/%s", model.SettingContactEmails), admin, gin.H{"value": "x@oeh.jku.at"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Deactivation takes effect on the editor's existing token.
	rec, _ = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/operators/%d", editorID), master, gin.H{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/news/all", editor, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin account is deactivated", env.Error.Message)
}

func TestMasterProtections(t *testing.T) {
	s := newServer(t)
	master := s.login(t, masterUser, masterPass)

	_, env := s.do(t, http.MethodGet, "/api/v1/auth/me", master, nil)
	me := decode[struct {
		Operator model.Operator `json:"operator"`
	}](t, env)

	rec, env := s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/operators/%d", me.Operator.ID), master, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "MASTER_RECORD_IMMUTABLE", env.Error.Code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/auth/change-password", master, gin.H{
		"current_password": masterPass, "new_password": "another-pass",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Der Master admin ist nicht befugt sein Passwort zu ändern. Verwaltung liegt bei Astra Capital e.U.", env.Error.Message)

	rec, env = s.do(t, http.MethodDelete, "/api/v1/admin/operators/9999", master, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestRatingWorkflow(t *testing.T) {
	s := newServer(t)
	master := s.login(t, masterUser, masterPass)

	rec, env := s.do(t, http.MethodPost, "/api/v1/admin/courses", master, gin.H{"name": "Buchhaltung"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode[model.Course](t, env)
	coursePath := fmt.Sprintf("/api/v1/courses/%d", course.ID)

	rec, env = s.do(t, http.MethodPost, coursePath+"/request-code", "", gin.H{"email": "someone@gmail.com"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "EMAIL_DOMAIN_NOT_ALLOWED", env.Error.Code)
	assert.Contains(t, env.Error.Message, "@students.jku.at")

	rec, env = s.do(t, http.MethodPost, "/api/v1/courses/9999/request-code", "", gin.H{"email": student})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "LVA nicht gefunden", env.Error.Message)

	rec, env = s.do(t, http.MethodPost, coursePath+"/request-code", "", gin.H{"email": student, "course_id": course.ID + 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error.Fields, "course_id")
	assert.Empty(t, s.db.Codes())

	rec, env = s.do(t, http.MethodPost, coursePath+"/request-code", "", gin.H{"email": student, "course_id": course.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	requested := decode[model.RequestCodeResult](t, env)
	assert.Equal(t, 30, requested.ExpiresInMinutes)
	require.Len(t, s.mail.sent, 1)

	codes := s.db.Codes()
	require.Len(t, codes, 1)
	code := codes[0].Code
	assert.Contains(t, s.mail.sent[0].Text, code)

	rec, env = s.do(t, http.MethodPost, "/api/v1/courses/verify-code", "", gin.H{"email": student, "code": code, "course_id": course.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	verified := decode[model.VerifyCodeResult](t, env)
	assert.True(t, verified.Valid)
	assert.False(t, verified.IsAdminCode)

	rating := gin.H{"email": student, "code": code, "course_id": course.ID, "effort": 6, "difficulty": 3}
	rec, env = s.do(t, http.MethodPost, "/api/v1/courses/submit-rating", "", rating)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Bewertungen müssen zwischen 1 und 5 liegen", env.Error.Message)

	rating["effort"] = 2
	rec, _ = s.do(t, http.MethodPost, "/api/v1/courses/submit-rating", "", rating)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = s.do(t, http.MethodPost, "/api/v1/courses/submit-rating", "", rating)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Ungültiger oder bereits verwendeter Code", env.Error.Message)

	rec, env = s.do(t, http.MethodGet, coursePath, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rated := decode[model.CourseWithRating](t, env)
	assert.Equal(t, 1, rated.RatingCount)
	require.NotNil(t, rated.AvgTotal)
	assert.InDelta(t, 2.5, *rated.AvgTotal, 0.001)

	rec, env = s.do(t, http.MethodGet, "/api/v1/courses/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)
}

func TestIssuedCodeAcrossCourses(t *testing.T) {
	s := newServer(t)
	master := s.login(t, masterUser, masterPass)

	var courseIDs []int
	for _, name := range []string{"Mikro", "Makro"} {
		rec, env := s.do(t, http.MethodPost, "/api/v1/admin/courses", master, gin.H{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
		courseIDs = append(courseIDs, decode[model.Course](t, env).ID)
	}

	rec, env := s.do(t, http.MethodPost, "/api/v1/admin/codes", master, gin.H{"name": "Tutorium", "max_uses": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	issued := decode[model.IssuedCodeView](t, env)
	assert.True(t, issued.IsActive)

	rec, env = s.do(t, http.MethodPost, "/api/v1/courses/verify-code", "", gin.H{"code": issued.Code, "course_id": courseIDs[1]})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.VerifyCodeResult](t, env).IsAdminCode)

	rating := gin.H{"code": issued.Code, "course_id": courseIDs[0], "effort": 3, "difficulty": 3}
	rec, _ = s.do(t, http.MethodPost, "/api/v1/courses/submit-rating", "", rating)
	require.Equal(t, http.StatusCreated, rec.Code)

	rating["course_id"] = courseIDs[1]
	rec, env = s.do(t, http.MethodPost, "/api/v1/courses/submit-rating", "", rating)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CODE_EXHAUSTED", env.Error.Code)

	rec, env = s.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/codes/%d", issued.ID), master, gin.H{"max_uses": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.IssuedCodeView](t, env).IsActive)
}

func TestAdminCoursePagination(t *testing.T) {
	s := newServer(t)
	master := s.login(t, masterUser, masterPass)

	for _, name := range []string{"Buchhaltung", "Kostenrechnung", "Statistik"} {
		rec, _ := s.do(t, http.MethodPost, "/api/v1/admin/courses", master, gin.H{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := s.do(t, http.MethodGet, "/api/v1/admin/courses", master, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.CourseWithRating](t, env), 3)
	assert.Nil(t, env.Pagination)

	rec, env = s.do(t, http.MethodGet, "/api/v1/admin/courses?page=2&per_page=2", master, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.CourseWithRating](t, env), 1)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, response.Pagination{Page: 2, PerPage: 2, TotalItems: 3, TotalPages: 2}, *env.Pagination)

	rec, env = s.do(t, http.MethodGet, "/api/v1/admin/courses?page=9&per_page=2", master, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.CourseWithRating](t, env))

	rec, env = s.do(t, http.MethodGet, "/api/v1/admin/courses?page=x", master, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error.Fields, "page")
}

func TestContactRateLimit(t *testing.T) {
	s := newServer(t)
	form := gin.H{"name": "Anna", "email": "anna@example.org", "message": "Hallo"}

	for i := 0; i < 5; i++ {
		rec, env := s.do(t, http.MethodPost, "/api/v1/contact", "", form)
		require.Equal(t, http.StatusOK, rec.Code)
		res := decode[model.ContactResult](t, env)
		assert.Zero(t, res.RecipientsCount, "no recipients configured")
	}

	rec, env := s.do(t, http.MethodPost, "/api/v1/contact", "", form)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Error.Code)
}

func TestPublicContentVisibility(t *testing.T) {
	s := newServer(t)
	master := s.login(t, masterUser, masterPass)

	rec, env := s.do(t, http.MethodPost, "/api/v1/news", master, gin.H{"title": "Entwurf", "content": "geheim"})
	require.Equal(t, http.StatusCreated, rec.Code)
	draft := decode[model.News](t, env)

	rec, _ = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/news/%d", draft.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/news", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.News](t, env))

	start := time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC)
	rec, _ = s.do(t, http.MethodPost, "/api/v1/admin/events", master, gin.H{
		"title": "Punsch", "start_date": start, "tags": "Party,Social",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/api/v1/events/tags", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Party", "Social"}, decode[[]string](t, env))
	assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))

	rec, _ = s.do(t, http.MethodGet, "/api/v1/events?month=13", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

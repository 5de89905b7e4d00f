package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/config"
	"github.com/oeh-wirtschaft/oeh-backend/internal/mailer"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

type fakeMailer struct {
	mu      sync.Mutex
	enabled bool
	err     error
	failFor map[string]bool
	sent    []*mailer.Message
}

func (m *fakeMailer) Enabled() bool { return m.enabled }

func (m *fakeMailer) Send(_ context.Context, msg *mailer.Message) error {
	if !m.enabled {
		return mailer.ErrDisabled
	}
	if m.err != nil {
		return m.err
	}
	if len(msg.To) > 0 && m.failFor[msg.To[0]] {
		return errSendFailed
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

var errSendFailed = errors.New("smtp: connection refused")

// env wires every service to one in-memory store with a fixed clock.
type env struct {
	cfg   *config.Config
	db    *memory.DB
	cache *memory.Store
	mail  *fakeMailer
	clock time.Time

	operators repository.OperatorRepository
	courses   repository.CourseRepository
	codes     repository.VerificationCodeRepository

	activity     *ActivityService
	auth         *AuthService
	operatorSvc  *OperatorService
	verification *VerificationService
	codeSvc      *CodeService
	courseSvc    *CourseService
	newsSvc      *NewsService
	eventSvc     *EventService
	studySvc     *StudyService
	settingSvc   *SettingService
	contactSvc   *ContactService
	dashboard    *DashboardService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  8 * time.Hour,
		BcryptCost: bcrypt.MinCost,
		Master: config.MasterConfig{
			Username:    "masteradmin",
			Email:       "Master@oeh.jku.at",
			Password:    "master-pass",
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

	e := &env{
		cfg:   cfg,
		db:    memory.NewDB(),
		cache: memory.NewStore(),
		mail:  &fakeMailer{},
		clock: testNow,
	}
	e.db.SetClock(e.now)

	log := zerolog.Nop()
	e.operators = memory.NewOperatorRepository(e.db)
	e.courses = memory.NewCourseRepository(e.db)
	e.codes = memory.NewVerificationCodeRepository(e.db)

	e.activity = NewActivityService(memory.NewActivityRepository(e.db), e.cache, log)
	e.auth = NewAuthService(cfg, e.operators, e.cache, e.activity, log)
	e.auth.now = e.now
	e.operatorSvc = NewOperatorService(cfg.Master, e.operators, e.auth, e.activity, log)
	e.verification = NewVerificationService(cfg.Codes, e.courses, e.codes, e.cache, e.mail, nil, log)
	e.verification.now = e.now
	e.codeSvc = NewCodeService(cfg.Codes, e.codes, e.activity, nil, log)
	e.codeSvc.now = e.now
	e.courseSvc = NewCourseService(e.courses, nil, e.activity, log)
	e.newsSvc = NewNewsService(memory.NewNewsRepository(e.db), e.activity, log)
	e.newsSvc.now = e.now
	e.eventSvc = NewEventService(memory.NewEventRepository(e.db), e.activity, log)
	e.studySvc = NewStudyService(memory.NewStudyRepository(e.db), e.activity, log)
	e.settingSvc = NewSettingService(memory.NewSettingRepository(e.db), e.activity, log)
	e.contactSvc = NewContactService(e.settingSvc, e.mail, nil, log)
	e.dashboard = NewDashboardService(memory.NewDashboardRepository(e.db), e.operators, e.activity)
	return e
}

func (e *env) now() time.Time { return e.clock }

func (e *env) advance(d time.Duration) { e.clock = e.clock.Add(d) }

// master reconciles and returns the master operator.
func (e *env) master(t *testing.T) *model.Operator {
	t.Helper()
	op, err := e.operatorSvc.EnsureMaster(context.Background())
	require.NoError(t, err)
	return op
}

// operator creates an operator with the given role and password "password1".
func (e *env) operator(t *testing.T, username string, role model.Role) *model.Operator {
	t.Helper()
	hash, err := e.auth.HashPassword("password1")
	require.NoError(t, err)
	op := &model.Operator{
		Username:     username,
		Email:        username + "@oeh.jku.at",
		PasswordHash: hash,
		DisplayName:  username,
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, e.operators.Create(context.Background(), op))
	return op
}

func (e *env) course(t *testing.T, name string, active bool) *model.Course {
	t.Helper()
	c := &model.Course{Name: name, IsActive: active}
	require.NoError(t, e.courses.Create(context.Background(), c))
	return c
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }

package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const student = "k12345678@students.jku.at"

// liveCode returns the unused personal code for (email, courseID).
func (e *env) liveCode(t *testing.T, email string, courseID int) string {
	t.Helper()
	for _, vc := range e.db.Codes() {
		if p := vc.Personal; p != nil && !p.Used && p.Email == email && p.CourseID == courseID {
			return vc.Code
		}
	}
	t.Fatalf("no live code for %s/%d", email, courseID)
	return ""
}

func (e *env) requestCode(t *testing.T, email string, courseID int) string {
	t.Helper()
	_, err := e.verification.RequestCode(context.Background(), email, courseID)
	require.NoError(t, err)
	return e.liveCode(t, strings.ToLower(email), courseID)
}

func submit(email *string, code string, courseID, effort, difficulty int) *model.SubmitRatingRequest {
	return &model.SubmitRatingRequest{Email: email, Code: code, CourseID: courseID, Effort: effort, Difficulty: difficulty}
}

func TestRequestCode(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)

	res, err := e.verification.RequestCode(context.Background(), "K12345678@Students.JKU.at", c.ID)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Code wurde gesendet! Überprüfe dein E-Mail-Postfach.", res.Message)
	assert.Equal(t, 30, res.ExpiresInMinutes)

	codes := e.db.Codes()
	require.Len(t, codes, 1)
	vc := codes[0]
	assert.Equal(t, model.CodeKindPersonal, vc.Kind())
	assert.Equal(t, student, vc.Personal.Email)
	assert.Len(t, vc.Code, codeLength)
	assert.Equal(t, testNow.Add(30*time.Minute), vc.ExpiresAt)
}

func TestRequestCodeRejectsForeignDomain(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)

	_, err := e.verification.RequestCode(context.Background(), "someone@gmail.com", c.ID)

	var domainErr *EmailDomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Error(), "@students.jku.at")
	assert.Empty(t, e.db.Codes())
}

func TestRequestCodeUnknownOrInactiveCourse(t *testing.T) {
	e := newEnv(t)
	inactive := e.course(t, "Alte LVA", false)

	_, err := e.verification.RequestCode(context.Background(), student, 999)
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = e.verification.RequestCode(context.Background(), student, inactive.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.Empty(t, e.db.Codes())
}

func TestRequestCodeThrottled(t *testing.T) {
	e := newEnv(t)
	e.verification.cfg.RequestLimit = 2
	c := e.course(t, "KS Buchhaltung", true)

	for i := 0; i < 2; i++ {
		_, err := e.verification.RequestCode(context.Background(), student, c.ID)
		require.NoError(t, err)
	}
	_, err := e.verification.RequestCode(context.Background(), student, c.ID)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRequestCodeDelivery(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)

	e.mail.enabled = true
	_, err := e.verification.RequestCode(context.Background(), student, c.ID)
	require.NoError(t, err)
	require.Len(t, e.mail.sent, 1)
	assert.Contains(t, e.mail.sent[0].Text, e.liveCode(t, student, c.ID))
	assert.Contains(t, e.mail.sent[0].Text, "KS Buchhaltung")

	e.mail.err = errSendFailed
	_, err = e.verification.RequestCode(context.Background(), student, c.ID)
	assert.ErrorIs(t, err, ErrDelivery)
}

func TestRequestCodeSupersedesPreviousCode(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)
	ctx := context.Background()

	first := e.requestCode(t, student, c.ID)
	second := e.requestCode(t, student, c.ID)
	if first == second {
		t.Skip("generator produced the same code twice")
	}

	_, err := e.verification.VerifyCode(ctx, &model.VerifyCodeRequest{Email: strPtr(student), Code: first, CourseID: c.ID})
	assert.ErrorIs(t, err, ErrCodeInvalid)

	res, err := e.verification.VerifyCode(ctx, &model.VerifyCodeRequest{Email: strPtr(student), Code: second, CourseID: c.ID})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.False(t, res.IsAdminCode)
}

func TestVerifyCodeIsReadOnlyAndCaseInsensitive(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)
	code := e.requestCode(t, student, c.ID)

	for i := 0; i < 2; i++ {
		res, err := e.verification.VerifyCode(context.Background(), &model.VerifyCodeRequest{
			Email: strPtr(student), Code: strings.ToLower(code), CourseID: c.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "Code ist gültig", res.Message)
	}
	assert.Empty(t, e.db.Ratings())
}

func TestVerifyCodeWrongCourse(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)
	other := e.course(t, "VL Marketing", true)
	code := e.requestCode(t, student, c.ID)

	_, err := e.verification.VerifyCode(context.Background(), &model.VerifyCodeRequest{
		Email: strPtr(student), Code: code, CourseID: other.ID,
	})
	assert.ErrorIs(t, err, ErrCodeInvalid)
}

func TestVerifyCodeExpired(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)
	code := e.requestCode(t, student, c.ID)

	e.advance(31 * time.Minute)

	_, err := e.verification.VerifyCode(context.Background(), &model.VerifyCodeRequest{
		Email: strPtr(student), Code: code, CourseID: c.ID,
	})
	assert.ErrorIs(t, err, ErrCodeExpired)

	_, err = e.verification.SubmitRating(context.Background(), submit(strPtr(student), code, c.ID, 3, 3))
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.Empty(t, e.db.Ratings())
}

func TestSubmitRatingRangeCheckedFirst(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)
	code := e.requestCode(t, student, c.ID)

	tests := []struct {
		name               string
		effort, difficulty int
	}{
		{"effort too high", 6, 3},
		{"effort zero", 0, 3},
		{"difficulty too high", 3, 6},
		{"difficulty negative", 3, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.verification.SubmitRating(context.Background(), submit(strPtr(student), code, c.ID, tt.effort, tt.difficulty))
			assert.ErrorIs(t, err, ErrRatingOutOfRange)
		})
	}

	// Range errors win even with a bogus code.
	_, err := e.verification.SubmitRating(context.Background(), submit(nil, "XXXXX", c.ID, 9, 9))
	assert.ErrorIs(t, err, ErrRatingOutOfRange)
	assert.Empty(t, e.db.Ratings())
}

func TestSubmitRatingPersonalCodeSingleUse(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)
	code := e.requestCode(t, student, c.ID)
	ctx := context.Background()

	res, err := e.verification.SubmitRating(ctx, submit(strPtr(student), code, c.ID, 2, 4))
	require.NoError(t, err)
	assert.Equal(t, "Bewertung erfolgreich abgegeben! Vielen Dank für dein Feedback.", res.Message)

	_, err = e.verification.SubmitRating(ctx, submit(strPtr(student), code, c.ID, 2, 4))
	assert.ErrorIs(t, err, ErrCodeConsumed)

	ratings := e.db.Ratings()
	require.Len(t, ratings, 1)
	assert.Equal(t, model.Rating{ID: ratings[0].ID, CourseID: c.ID, Effort: 2, Difficulty: 4, CreatedAt: testNow}, ratings[0])
}

func TestSubmitRatingUnknownCode(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "KS Buchhaltung", true)

	_, err := e.verification.SubmitRating(context.Background(), submit(strPtr(student), "ZZZZZ", c.ID, 3, 3))
	assert.ErrorIs(t, err, ErrCodeConsumed)
}

func TestIssuedCodeUsableExactlyMaxUsesTimes(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)
	ctx := context.Background()

	courses := []*model.Course{
		e.course(t, "KS Buchhaltung", true),
		e.course(t, "VL Marketing", true),
		e.course(t, "UE Statistik", true),
	}
	issued, err := e.codeSvc.Create(ctx, master, &model.CreateIssuedCodeRequest{Name: strPtr("Tutorium"), MaxUses: 3})
	require.NoError(t, err)

	for i, c := range courses {
		// Issued codes match regardless of email and course.
		res, err := e.verification.VerifyCode(ctx, &model.VerifyCodeRequest{Email: strPtr(student), Code: issued.Code, CourseID: c.ID})
		require.NoError(t, err, "verify %d", i)
		assert.True(t, res.IsAdminCode)

		_, err = e.verification.SubmitRating(ctx, submit(nil, strings.ToLower(issued.Code), c.ID, 3, 2))
		require.NoError(t, err, "submit %d", i)
	}

	_, err = e.verification.SubmitRating(ctx, submit(nil, issued.Code, courses[0].ID, 3, 2))
	assert.ErrorIs(t, err, ErrCodeExhausted)

	_, err = e.verification.VerifyCode(ctx, &model.VerifyCodeRequest{Code: issued.Code, CourseID: courses[0].ID})
	assert.ErrorIs(t, err, ErrCodeExhausted)

	assert.Len(t, e.db.Ratings(), 3)
}

func TestConcurrentSubmissionsNeverOverGrant(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)
	c := e.course(t, "KS Buchhaltung", true)
	ctx := context.Background()

	personal := e.requestCode(t, student, c.ID)
	issued, err := e.codeSvc.Create(ctx, master, &model.CreateIssuedCodeRequest{Name: strPtr("Tutorium"), MaxUses: 5})
	require.NoError(t, err)

	const workers = 50
	var (
		wg                   sync.WaitGroup
		mu                   sync.Mutex
		personalOK, issuedOK int
		unexpected           []error
	)
	tally := func(err error, ok *int, loser error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			*ok++
		case !errors.Is(err, loser):
			unexpected = append(unexpected, err)
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.verification.SubmitRating(ctx, submit(strPtr(student), personal, c.ID, 3, 3))
			tally(err, &personalOK, ErrCodeConsumed)
		}()
		go func() {
			defer wg.Done()
			_, err := e.verification.SubmitRating(ctx, submit(nil, issued.Code, c.ID, 4, 2))
			tally(err, &issuedOK, ErrCodeExhausted)
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpected)
	assert.Equal(t, 1, personalOK)
	assert.Equal(t, 5, issuedOK)
	assert.Len(t, e.db.Ratings(), 6)

	for _, vc := range e.db.Codes() {
		if vc.Issued != nil {
			assert.Equal(t, 5, vc.Issued.UseCount)
			assert.True(t, vc.Issued.Used)
		}
	}
}

func TestSubmitRatingIssuedCodeUnknownCourse(t *testing.T) {
	e := newEnv(t)
	master := e.master(t)
	ctx := context.Background()

	issued, err := e.codeSvc.Create(ctx, master, &model.CreateIssuedCodeRequest{MaxUses: 1})
	require.NoError(t, err)

	_, err = e.verification.SubmitRating(ctx, submit(nil, issued.Code, 4242, 3, 3))
	assert.ErrorIs(t, err, ErrCourseNotFound)

	views, err := e.codeSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Zero(t, views[0].UseCount)
}

func TestGenerateCodeAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, codeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
		}
	}
}

package model

import (
	"errors"
	"time"
)

// CodeKind discriminates the two verification code shapes.
type CodeKind string

const (
	CodeKindPersonal CodeKind = "personal"
	CodeKindIssued   CodeKind = "issued"
)

// VerificationCode is a time-limited code in exactly one of two shapes:
// a personal code bound to (email, course), or an operator-issued code with a use cap.
type VerificationCode struct {
	ID        int           `json:"id"`
	Code      string        `json:"code"`
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
	Personal  *PersonalCode `json:"personal,omitempty"`
	Issued    *IssuedCode   `json:"issued,omitempty"`
}

// PersonalCode holds the fields of a single-use code requested by a student.
type PersonalCode struct {
	Email    string `json:"email"`
	CourseID int    `json:"course_id"`
	Used     bool   `json:"used"`
}

// IssuedCode holds the fields of a multi-use code handed out by staff.
type IssuedCode struct {
	Label     *string `json:"label"`
	MaxUses   int     `json:"max_uses"`
	UseCount  int     `json:"use_count"`
	Used      bool    `json:"used"`
	CreatedBy *int    `json:"created_by"`
}

var errCodeShape = errors.New("verification code must have exactly one shape")

// NewPersonalCode builds a personal verification code.
func NewPersonalCode(code, email string, courseID int, expiresAt time.Time) *VerificationCode {
	return &VerificationCode{
		Code:      code,
		ExpiresAt: expiresAt,
		Personal:  &PersonalCode{Email: email, CourseID: courseID},
	}
}

// NewIssuedCode builds an operator-issued verification code.
func NewIssuedCode(code string, label *string, maxUses int, expiresAt time.Time, createdBy int) *VerificationCode {
	return &VerificationCode{
		Code:      code,
		ExpiresAt: expiresAt,
		Issued:    &IssuedCode{Label: label, MaxUses: maxUses, CreatedBy: &createdBy},
	}
}

// Kind returns the code's discriminator.
func (c *VerificationCode) Kind() CodeKind {
	if c.Issued != nil {
		return CodeKindIssued
	}
	return CodeKindPersonal
}

// Validate checks that exactly one shape is populated.
func (c *VerificationCode) Validate() error {
	if (c.Personal == nil) == (c.Issued == nil) {
		return errCodeShape
	}
	return nil
}

// Expired reports whether the code has expired at now.
func (c *VerificationCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Exhausted reports whether an issued code has no uses left.
// Personal codes report whether they were consumed or superseded.
func (c *VerificationCode) Exhausted() bool {
	if c.Issued != nil {
		return c.Issued.UseCount >= c.Issued.MaxUses
	}
	return c.Personal.Used
}

// Consumable reports whether the code may be consumed at now.
func (c *VerificationCode) Consumable(now time.Time) bool {
	return !c.Expired(now) && !c.Exhausted()
}

// IssuedCodeView is the admin listing shape of an issued code.
type IssuedCodeView struct {
	ID        int       `json:"id"`
	Code      string    `json:"code"`
	Name      *string   `json:"name"`
	MaxUses   int       `json:"max_uses"`
	UseCount  int       `json:"use_count"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RequestCodeRequest is the payload for requesting a personal code.
type RequestCodeRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	CourseID int    `json:"course_id" binding:"omitempty,min=1"`
}

// VerifyCodeRequest is the payload for a read-only code check.
type VerifyCodeRequest struct {
	Email    *string `json:"email" binding:"omitempty,max=200"`
	Code     string  `json:"code" binding:"required,max=10"`
	CourseID int     `json:"course_id" binding:"required,min=1"`
}

// SubmitRatingRequest is the payload for rating a course with a code.
// Range checks on the scores are done by the service so that they surface
// with the dedicated rating message.
type SubmitRatingRequest struct {
	Email      *string `json:"email" binding:"omitempty,max=200"`
	Code       string  `json:"code" binding:"required,max=10"`
	CourseID   int     `json:"course_id" binding:"required,min=1"`
	Effort     int     `json:"effort"`
	Difficulty int     `json:"difficulty"`
}

// CreateIssuedCodeRequest is the payload for issuing a multi-use code.
type CreateIssuedCodeRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	MaxUses       int     `json:"max_uses"`
	ExpiresInDays *int    `json:"expires_in_days"`
}

// UpdateIssuedCodeRequest carries optional changes to an issued code.
type UpdateIssuedCodeRequest struct {
	Name          *string `json:"name" binding:"omitempty,max=100"`
	MaxUses       *int    `json:"max_uses" binding:"omitempty,min=1"`
	ExpiresInDays *int    `json:"expires_in_days" binding:"omitempty,min=1"`
}

// RequestCodeResult is returned after a personal code was issued.
type RequestCodeResult struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

// VerifyCodeResult is the outcome of a successful read-only code check.
type VerifyCodeResult struct {
	Valid       bool   `json:"valid"`
	IsAdminCode bool   `json:"is_admin_code"`
	Message     string `json:"message"`
}

// SubmitRatingResult is returned after a rating was stored.
type SubmitRatingResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

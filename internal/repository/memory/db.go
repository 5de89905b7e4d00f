// Package memory provides in-memory repository implementations for tests
// and for running the service without PostgreSQL.
package memory

import (
	"sync"
	"time"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
)

// DB is the shared in-memory table set.
type DB struct {
	mu  sync.RWMutex
	seq int

	operators map[int]*model.Operator
	courses   map[int]*model.Course
	ratings   []model.Rating
	codes     map[int]*model.VerificationCode
	activity  []model.ActivityEntry
	news      map[int]*model.News
	events    map[int]*model.CalendarEvent
	settings  map[string]model.AppSetting

	categories map[int]*model.StudyCategory
	programs   map[int]*model.StudyProgram
	updates    map[int]*model.StudyUpdate

	now func() time.Time
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		operators: make(map[int]*model.Operator),
		courses:   make(map[int]*model.Course),
		codes:     make(map[int]*model.VerificationCode),
		news:      make(map[int]*model.News),
		events:    make(map[int]*model.CalendarEvent),
		settings:  make(map[string]model.AppSetting),

		categories: make(map[int]*model.StudyCategory),
		programs:   make(map[int]*model.StudyProgram),
		updates:    make(map[int]*model.StudyUpdate),
		now:        time.Now,
	}
}

// SetClock replaces the clock used for created/updated timestamps.
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// operator resolves a nullable operator reference; callers hold mu.
func (db *DB) operator(id *int) *model.Operator {
	if id == nil {
		return nil
	}
	return db.operators[*id]
}

// detachOperator clears references to a deleted operator, like the
// ON DELETE SET NULL foreign keys do. Callers hold mu.
func (db *DB) detachOperator(id int) {
	refersTo := func(p *int) bool { return p != nil && *p == id }
	for i := range db.activity {
		if refersTo(db.activity[i].OperatorID) {
			db.activity[i].OperatorID = nil
		}
	}
	for _, n := range db.news {
		if refersTo(n.AuthorID) {
			n.AuthorID = nil
		}
	}
	for _, e := range db.events {
		if refersTo(e.CreatedBy) {
			e.CreatedBy = nil
		}
	}
	for _, u := range db.updates {
		if refersTo(u.CreatedBy) {
			u.CreatedBy = nil
		}
	}
	for _, c := range db.codes {
		if c.Issued != nil && refersTo(c.Issued.CreatedBy) {
			c.Issued.CreatedBy = nil
		}
	}
}

func (db *DB) nextID() int {
	db.seq++
	return db.seq
}

// Ratings returns a copy of every stored rating.
func (db *DB) Ratings() []model.Rating {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]model.Rating(nil), db.ratings...)
}

// Activity returns a copy of the activity log in insertion order.
func (db *DB) Activity() []model.ActivityEntry {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]model.ActivityEntry(nil), db.activity...)
}

// Codes returns copies of every stored verification code.
func (db *DB) Codes() []*model.VerificationCode {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*model.VerificationCode, 0, len(db.codes))
	for _, c := range db.codes {
		out = append(out, cloneCode(c))
	}
	return out
}

func cloneCode(c *model.VerificationCode) *model.VerificationCode {
	cp := *c
	if c.Personal != nil {
		p := *c.Personal
		cp.Personal = &p
	}
	if c.Issued != nil {
		i := *c.Issued
		cp.Issued = &i
	}
	return &cp
}

// Package dbtest wires the real repositories over in-memory sqlite for usecase tests.
package dbtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"microlend-engine/internal/adapter/repository/mysql"
	"microlend-engine/internal/domain/event"
	"microlend-engine/internal/infrastructure/lock"
	"microlend-engine/internal/infrastructure/logging"
	"microlend-engine/internal/infrastructure/metrics"
	"microlend-engine/internal/usecase"
)

const (
	Borrower = "b0000000000000000000000000000001"
	Lender   = "c0000000000000000000000000000002"
	Stranger = "d0000000000000000000000000000003"
)

// Open returns a migrated in-memory database on a single connection.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := mysql.AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// Clock is a settable time source.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{t: t.UTC()} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t.UTC()
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) { c.Set(c.Now().Add(d)) }

// Recorder keeps every published event.
type Recorder struct {
	mu     sync.Mutex
	Events []event.Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, evs ...event.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, evs...)
	return nil
}

func (r *Recorder) Names() []event.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Name, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Name)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.Events = nil
	r.mu.Unlock()
}

// Env is a fully wired set of usecase dependencies.
type Env struct {
	DB     *gorm.DB
	Clock  *Clock
	Events *Recorder
	Deps   *usecase.Deps
}

func New(t *testing.T, now time.Time) *Env {
	t.Helper()
	db := Open(t)
	clock := NewClock(now)
	rec := &Recorder{}
	return &Env{
		DB:     db,
		Clock:  clock,
		Events: rec,
		Deps: &usecase.Deps{
			UoW:          mysql.NewGormUoW(db),
			Locker:       lock.NewLocalLocker(),
			Publisher:    rec,
			Metrics:      metrics.New(),
			Log:          logging.Discard(),
			Now:          clock.Now,
			LockTTL:      5 * time.Second,
			RetryMax:     2,
			MinPrincipal: 10_000,
		},
	}
}

package services

// Shared test doubles: a manual clock, an in-memory state repository, and a
// scriptable identity gateway.

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fgodoybr/frotacontrol/internal/client/config"
	"github.com/fgodoybr/frotacontrol/internal/common"
	"github.com/fgodoybr/frotacontrol/internal/clockx"
	"github.com/fgodoybr/frotacontrol/internal/cryptox"
	"github.com/fgodoybr/frotacontrol/internal/identity"
	"github.com/fgodoybr/frotacontrol/internal/logging"
)

// ---- fake clock ----

type fakeTimer struct {
	deadline time.Time
	f        func()
	stopped  bool
	fired    bool
}

func (t *fakeTimer) Stop() bool {
	stoppedInTime := !t.fired && !t.stopped
	t.stopped = true
	return stoppedInTime
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) clockx.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{deadline: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and fires due timers in deadline order,
// like the runtime would.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	due := make([]*fakeTimer, 0)
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !c.now.Before(t.deadline) {
			t.fired = true
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) SleepCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleeps)
}

func (c *fakeClock) LastSleep() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sleeps) == 0 {
		return 0
	}
	return c.sleeps[len(c.sleeps)-1]
}

// ---- in-memory state repository ----

type memState struct {
	mu     sync.Mutex
	m      map[string][]byte
	GetErr error
	SetErr error
}

func newMemState() *memState {
	return &memState{m: make(map[string][]byte)}
}

func (s *memState) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	v, ok := s.m[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *memState) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.m[key] = append([]byte(nil), value...)
	return nil
}

func (s *memState) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memState) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[key]
	return ok
}

// ---- scriptable gateway ----

type fakeGateway struct {
	mu sync.Mutex

	admins  map[string]*identity.Record // keyed by normalized name
	drivers map[string]*identity.Record

	FindErr   error
	UpdateErr error

	findCalls   int
	lastUpdated *identity.Record
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		admins:  make(map[string]*identity.Record),
		drivers: make(map[string]*identity.Record),
	}
}

func (g *fakeGateway) table(c identity.Collection) map[string]*identity.Record {
	if c == identity.CollectionAdmins {
		return g.admins
	}
	return g.drivers
}

func (g *fakeGateway) FindByNormalizedName(ctx context.Context, c identity.Collection, name string) (*identity.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.findCalls++
	if g.FindErr != nil {
		return nil, g.FindErr
	}
	rec, ok := g.table(c)[name]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (g *fakeGateway) GetByID(ctx context.Context, c identity.Collection, id string) (*identity.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.findCalls++
	if g.FindErr != nil {
		return nil, g.FindErr
	}
	for _, rec := range g.table(c) {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (g *fakeGateway) UpdateCredentials(ctx context.Context, c identity.Collection, id, salt, hash string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.UpdateErr != nil {
		return g.UpdateErr
	}
	for _, rec := range g.table(c) {
		if rec.ID == id {
			rec.Salt = salt
			rec.PasswordHash = hash
			g.lastUpdated = rec
			return nil
		}
	}
	return common.ErrNotFound
}

func (g *fakeGateway) Create(ctx context.Context, c identity.Collection, rec *identity.Record) (*identity.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.table(c)[rec.Name] = rec
	return rec, nil
}

func (g *fakeGateway) FindCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.findCalls
}

// addIdentity stores a record with credentials derived from password.
func (g *fakeGateway) addIdentity(t *testing.T, c identity.Collection, id, name, password string) *identity.Record {
	t.Helper()
	salt, err := cryptox.GenerateSalt()
	require.NoError(t, err)
	hash, err := cryptox.Hash(password, salt)
	require.NoError(t, err)

	rec := &identity.Record{ID: id, Name: name, Role: c.Role(), Salt: salt, PasswordHash: hash}
	g.mu.Lock()
	g.table(c)[name] = rec
	g.mu.Unlock()
	return rec
}

// ---- wiring helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return cfg
}

type fixture struct {
	gw      *fakeGateway
	state   *memState
	clock   *fakeClock
	tracker *AttemptTracker
	svc     *SessionService
	cfg     *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		gw:    newFakeGateway(),
		state: newMemState(),
		clock: newFakeClock(),
		cfg:   testConfig(),
	}
	logger := testLogger()
	f.tracker = NewAttemptTracker(f.state, f.clock, logger, f.cfg)
	f.svc = NewSessionService(context.Background(), f.gw, f.state, f.tracker, f.clock, logger, f.cfg)
	return f
}

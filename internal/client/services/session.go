package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fgodoybr/frotacontrol/internal/clockx"
	"github.com/fgodoybr/frotacontrol/internal/client/config"
	"github.com/fgodoybr/frotacontrol/internal/client/models"
	"github.com/fgodoybr/frotacontrol/internal/client/repositories/state"
	"github.com/fgodoybr/frotacontrol/internal/common"
	"github.com/fgodoybr/frotacontrol/internal/cryptox"
	"github.com/fgodoybr/frotacontrol/internal/identity"
	"github.com/fgodoybr/frotacontrol/internal/logging"
)

// SessionService owns the process-wide session state machine
// (Unauthenticated ⇄ Authenticated) and orchestrates login, logout, and
// password changes.
//
// Login failures are uniform on purpose: wrong name, wrong password, active
// lockout, and store errors all produce the same false return after a
// deliberate delay, so callers (and observers) cannot distinguish them.
// Password-change failures serve an already-authenticated actor and return a
// specific human-readable reason instead.
//
// Concurrent Login calls from the same process are not coordinated against
// each other beyond the tracker's own mutex; this is a single-user client,
// not a server.
type SessionService struct {
	gw      identity.Gateway
	state   state.Repository
	tracker *AttemptTracker
	clock   clockx.Clock
	logger  logging.Logger
	cfg     *config.Config

	mu      sync.Mutex
	session models.Session
	timer   clockx.Timer
}

// NewSessionService builds the service and restores a persisted session if
// one exists and is still valid; otherwise it starts unauthenticated.
func NewSessionService(ctx context.Context, gw identity.Gateway, st state.Repository,
	tracker *AttemptTracker, clock clockx.Clock, logger logging.Logger, cfg *config.Config) *SessionService {

	s := &SessionService{
		gw:      gw,
		state:   st,
		tracker: tracker,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
	}
	s.restore(ctx)
	return s
}

// sessionClaims is the persisted form of a session: a signed token whose exp
// claim carries the expiry, so a stale or tampered stored session simply
// fails to parse.
type sessionClaims struct {
	jwt.RegisteredClaims
	Name     string        `json:"name"`
	Role     identity.Role `json:"role"`
	DriverID string        `json:"driverId,omitempty"`
	UserID   string        `json:"userId"`
}

func (s *SessionService) signSession(sess models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Name:     sess.User.Name,
		Role:     sess.User.Role,
		DriverID: sess.User.DriverID,
		UserID:   sess.User.UserID,
	})
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

func (s *SessionService) parseSession(tokenString string) (models.Session, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(s.cfg.SessionSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return models.Session{}, err
	}
	if !token.Valid || claims.ExpiresAt == nil {
		return models.Session{}, common.ErrInvalidCredentials
	}

	return models.Session{
		User: &models.User{
			Name:     claims.Name,
			Role:     claims.Role,
			DriverID: claims.DriverID,
			UserID:   claims.UserID,
		},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// restore loads the persisted session on process start. Anything that does
// not parse as a currently-valid token (expired, tampered, corrupt) is
// removed and the service starts unauthenticated.
func (s *SessionService) restore(ctx context.Context) {
	raw, err := s.state.Get(ctx, common.SessionStateKey)
	if err != nil {
		s.logger.Error(ctx, "failed to read persisted session", "error", err)
		return
	}
	if raw == nil {
		return
	}

	sess, err := s.parseSession(string(raw))
	if err != nil {
		s.logger.Warn(ctx, "discarding persisted session", "error", err)
		if err := s.state.Delete(ctx, common.SessionStateKey); err != nil {
			s.logger.Error(ctx, "failed to remove persisted session", "error", err)
		}
		return
	}

	s.mu.Lock()
	s.session = sess
	s.armTimerLocked()
	s.mu.Unlock()

	s.logger.Info(ctx, "session restored", "user", sess.User.Name, "role", sess.User.Role,
		"expiresAt", sess.ExpiresAt)
}

// Login verifies the given credentials and mints a session on success.
// The name is trimmed and upper-cased for lookup and for the attempt
// tracker; the admin collection is consulted before the driver collection.
// Returns true iff a session was established.
func (s *SessionService) Login(ctx context.Context, username, password string) bool {
	uname := strings.ToUpper(strings.TrimSpace(username))
	pwd := strings.TrimSpace(password)

	if uname == "" || pwd == "" {
		s.clock.Sleep(s.cfg.LoginBaseDelay)
		return false
	}

	// During a lockout the store is never contacted; the fixed delay keeps
	// "locked" indistinguishable from a slow lookup.
	if s.tracker.CheckLocked(ctx, uname) {
		s.clock.Sleep(s.cfg.LockedDelay)
		return false
	}

	// Throttle scaled by prior failures this window, independent of the
	// hard lockout.
	extra := time.Duration(s.tracker.FailureCount(ctx, uname)) * s.cfg.LoginStepDelay
	if extra > s.cfg.LoginMaxExtraDelay {
		extra = s.cfg.LoginMaxExtraDelay
	}
	s.clock.Sleep(s.cfg.LoginBaseDelay + extra)

	for _, collection := range []identity.Collection{identity.CollectionAdmins, identity.CollectionDrivers} {
		rec, err := s.gw.FindByNormalizedName(ctx, collection, uname)
		if err != nil {
			// A store error must look exactly like a wrong password
			// from the outside; detail goes to the log only.
			s.logger.Error(ctx, "credential store error during login", "error", err)
			s.tracker.RecordFailure(ctx, uname)
			return false
		}
		if !rec.HasCredentials() {
			continue
		}

		ok, err := cryptox.Verify(pwd, rec.Salt, rec.PasswordHash)
		if err != nil {
			s.logger.Error(ctx, "password verification unavailable", "error", err)
			s.tracker.RecordFailure(ctx, uname)
			return false
		}
		if !ok {
			// A name may exist in both collections; a mismatch here
			// still gets its chance against the other one.
			continue
		}

		s.establish(ctx, rec, uname)
		return true
	}

	s.tracker.RecordFailure(ctx, uname)
	return false
}

// establish mints the session for a verified identity, persists it, re-arms
// the expiry timer, and clears the attempt record.
func (s *SessionService) establish(ctx context.Context, rec *identity.Record, uname string) {
	user := &models.User{
		Name:   rec.Name,
		Role:   rec.Role,
		UserID: rec.ID,
	}
	if rec.Role == identity.RoleAdmin {
		user.Name = rec.Name + " (Admin)"
	} else {
		user.DriverID = rec.ID
	}

	sess := models.Session{User: user, ExpiresAt: s.clock.Now().Add(s.cfg.SessionTTL)}

	s.mu.Lock()
	s.session = sess
	s.armTimerLocked()
	s.mu.Unlock()

	s.persist(ctx, sess)
	s.tracker.RecordSuccess(ctx, uname)

	s.logger.Info(ctx, "login successful", "user", user.Name, "role", user.Role,
		"expiresAt", sess.ExpiresAt)
}

func (s *SessionService) persist(ctx context.Context, sess models.Session) {
	token, err := s.signSession(sess)
	if err != nil {
		s.logger.Error(ctx, "failed to sign session", "error", err)
		return
	}
	if err := s.state.Set(ctx, common.SessionStateKey, []byte(token)); err != nil {
		s.logger.Error(ctx, "failed to persist session", "error", err)
	}
}

// armTimerLocked replaces the expiry timer to match the current session.
// At most one timer is live; it is cancelled and re-armed on every session
// change so expiry fires exactly once. Caller holds s.mu.
func (s *SessionService) armTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.session.User == nil {
		return
	}
	s.timer = s.clock.AfterFunc(s.session.ExpiresAt.Sub(s.clock.Now()), s.expire)
}

// expire is the timer callback: it clears the session iff the deadline has
// actually passed (a re-armed timer may race a fresh login).
func (s *SessionService) expire() {
	ctx := context.Background()

	s.mu.Lock()
	if s.session.User == nil || s.clock.Now().Before(s.session.ExpiresAt) {
		s.mu.Unlock()
		return
	}
	name := s.session.User.Name
	s.session = models.Session{}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if err := s.state.Delete(ctx, common.SessionStateKey); err != nil {
		s.logger.Error(ctx, "failed to remove persisted session", "error", err)
	}
	s.logger.Info(ctx, "session expired", "user", name)
}

// Logout clears the session immediately. Idempotent.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.Lock()
	hadUser := s.session.User != nil
	s.session = models.Session{}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if err := s.state.Delete(ctx, common.SessionStateKey); err != nil {
		s.logger.Error(ctx, "failed to remove persisted session", "error", err)
	}
	if hadUser {
		s.logger.Info(ctx, "logged out")
	}
}

// Session returns the current session, reporting empty once the expiry has
// passed even if the timer has not fired yet.
func (s *SessionService) Session() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Authenticated(s.clock.Now()) {
		return models.Session{}
	}
	return s.session
}

// Role returns the current session's role, or "" when unauthenticated.
func (s *SessionService) Role() identity.Role {
	sess := s.Session()
	if sess.User == nil {
		return ""
	}
	return sess.User.Role
}

// DriverID returns the driver id the session is scoped to, or "" for admin
// or unauthenticated sessions.
func (s *SessionService) DriverID() string {
	sess := s.Session()
	if sess.User == nil {
		return ""
	}
	return sess.User.DriverID
}

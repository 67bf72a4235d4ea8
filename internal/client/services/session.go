package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

// ErrSuperseded is returned by a login or signup whose response arrived
// after a newer session change had already been committed. Nothing is
// persisted for such an attempt.
var ErrSuperseded = errors.New("superseded by a newer session change")

// Default destinations of post-auth navigation.
const (
	PathLanding   = "/"
	PathDashboard = "/dashboard"
)

// Navigator moves the user to another view.
type Navigator interface {
	Navigate(path string)
}

// Notifier shows a transient message. Delivery is best effort.
type Notifier interface {
	Publish(n models.Notification)
}

type subscriber struct {
	id int
	fn func(models.SessionState)
}

// SessionManager owns the process-wide SessionState. Every other component
// reads it through State or Subscribe.
//
// Each login/signup takes a generation number when it starts; its result is
// committed only if no newer change (attempt or logout) has been committed
// in the meantime.
type SessionManager struct {
	creds    *CredentialStore
	verifier Verifier
	auth     client.AuthAPI
	nav      Navigator
	notifier Notifier
	log      logging.Logger

	state atomic.Pointer[models.SessionState]

	mu        sync.Mutex
	subs      []subscriber
	nextSub   int
	gen       uint64
	committed uint64

	initOnce   sync.Once
	initResult models.Verification
}

func NewSessionManager(creds *CredentialStore, verifier Verifier, auth client.AuthAPI, nav Navigator, notifier Notifier, log logging.Logger) *SessionManager {
	if log == nil {
		log = logging.Nop()
	}
	m := &SessionManager{
		creds:    creds,
		verifier: verifier,
		auth:     auth,
		nav:      nav,
		notifier: notifier,
		log:      log,
	}
	initial := models.InitialSessionState()
	m.state.Store(&initial)
	return m
}

// State returns the current snapshot without locking.
func (m *SessionManager) State() models.SessionState {
	return *m.state.Load()
}

// Subscribe registers fn, calls it with the current state and then with
// every change, in order. fn runs with the manager's lock held and must not
// call Login, Signup, Logout or Subscribe.
func (m *SessionManager) Subscribe(fn func(models.SessionState)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	fn(m.State())

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Initialize runs the verifier exactly once and performs the single
// loading -> done transition. Later calls return the first outcome.
func (m *SessionManager) Initialize(ctx context.Context) models.Verification {
	m.initOnce.Do(func() {
		res := m.verifier.Verify(ctx)
		m.initResult = res

		m.mu.Lock()
		defer m.mu.Unlock()

		cur := m.State()
		next := models.SessionState{User: cur.User}
		if m.committed == 0 {
			// no login, signup or logout so far: the outcome decides
			next.User = nil
			if res.Outcome == models.OutcomeValid {
				next.User = res.Profile
			}
		}
		m.setState(next)

		m.log.Info(ctx, "session initialised", "outcome", res.Outcome.String(), "status", next.Status().String())
	})
	return m.initResult
}

// Login authenticates against the auth service. On failure the state is
// left untouched.
func (m *SessionManager) Login(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return client.NewValidationError("email", "is required")
	}
	if password == "" {
		return client.NewValidationError("password", "is required")
	}

	gen := m.begin()
	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return m.fail(ctx, gen, "Login failed", "Please check your credentials", fmt.Errorf("login: %w", err))
	}

	if err := m.commit(ctx, gen, resp); err != nil {
		if errors.Is(err, ErrSuperseded) {
			return err
		}
		return m.fail(ctx, gen, "Login failed", "Please try again", err)
	}

	m.log.Info(ctx, "logged in", "user_id", resp.User.ID)
	m.publish(models.NotificationSuccess, "Welcome back!", fmt.Sprintf("Logged in as %s", resp.User.DisplayName))
	m.navigate(PathDashboard)
	return nil
}

// Signup creates an account; success has the same effect as Login.
func (m *SessionManager) Signup(ctx context.Context, name, email, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" {
		return client.NewValidationError("name", "is required")
	}
	if email == "" {
		return client.NewValidationError("email", "is required")
	}
	if password == "" {
		return client.NewValidationError("password", "is required")
	}

	gen := m.begin()
	resp, err := m.auth.Signup(ctx, name, email, password)
	if err != nil {
		return m.fail(ctx, gen, "Signup failed", "Please try again", fmt.Errorf("signup: %w", err))
	}

	if err := m.commit(ctx, gen, resp); err != nil {
		if errors.Is(err, ErrSuperseded) {
			return err
		}
		return m.fail(ctx, gen, "Signup failed", "Please try again", err)
	}

	m.log.Info(ctx, "account created", "user_id", resp.User.ID)
	m.publish(models.NotificationSuccess, "Account created!", "Welcome to VisionAQ")
	m.navigate(PathDashboard)
	return nil
}

// Logout drops the session unconditionally and cancels the effect of any
// login or signup still in flight.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.gen++
	m.committed = m.gen

	if err := m.creds.Clear(ctx); err != nil {
		m.log.Error(ctx, "clear credentials failed", "error", err)
	}
	m.setState(models.SessionState{Loading: m.State().Loading})
	m.mu.Unlock()

	m.log.Info(ctx, "logged out")
	m.publish(models.NotificationInfo, "Logged out", "See you soon!")
	m.navigate(PathLanding)
}

// Token returns the stored bearer token, if any.
func (m *SessionManager) Token(ctx context.Context) (string, bool, error) {
	cred, ok, err := m.creds.Load(ctx)
	if err != nil || !ok {
		return "", false, err
	}
	return cred.Token, true, nil
}

func (m *SessionManager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	return m.gen
}

func (m *SessionManager) superseded(gen uint64) bool {
	return m.committed > gen
}

func (m *SessionManager) commit(ctx context.Context, gen uint64, resp client.AuthResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.superseded(gen) {
		m.log.Info(ctx, "discarding stale auth response", "generation", gen, "committed", m.committed)
		return ErrSuperseded
	}

	if err := m.creds.Save(ctx, resp.Token, resp.User); err != nil {
		return err
	}

	m.committed = gen
	user := resp.User
	m.setState(models.SessionState{User: &user, Loading: m.State().Loading})
	return nil
}

// fail reports a failed attempt unless a newer change already made it
// irrelevant.
func (m *SessionManager) fail(ctx context.Context, gen uint64, title, fallback string, err error) error {
	m.mu.Lock()
	stale := m.superseded(gen)
	m.mu.Unlock()
	if stale {
		return ErrSuperseded
	}

	m.log.Warn(ctx, "authentication failed", "error", err)
	m.publish(models.NotificationError, title, client.Message(err, fallback))
	return err
}

// setState must be called with m.mu held.
func (m *SessionManager) setState(next models.SessionState) {
	prev := m.State()
	m.state.Store(&next)
	if prev.Equal(next) {
		return
	}
	for _, s := range m.subs {
		s.fn(next)
	}
}

func (m *SessionManager) publish(kind models.NotificationKind, title, body string) {
	if m.notifier == nil {
		return
	}
	m.notifier.Publish(models.Notification{Title: title, Body: body, Kind: kind})
}

func (m *SessionManager) navigate(path string) {
	if m.nav == nil {
		return
	}
	m.nav.Navigate(path)
}

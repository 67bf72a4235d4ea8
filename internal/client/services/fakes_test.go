package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/client/repositories/kvstore"
)

// ---- fake auth API ----

type fakeAuth struct {
	mu sync.Mutex

	LoginFn  func(ctx context.Context, email, password string) (client.AuthResponse, error)
	SignupFn func(ctx context.Context, name, email, password string) (client.AuthResponse, error)
	VerifyFn func(ctx context.Context, token string) (models.UserProfile, error)

	LoginCalls  int
	SignupCalls int
	VerifyCalls int
	LastToken   string
	LastEmail   string
	LastName    string
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (client.AuthResponse, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.LastEmail = email
	fn := f.LoginFn
	f.mu.Unlock()
	return fn(ctx, email, password)
}

func (f *fakeAuth) Signup(ctx context.Context, name, email, password string) (client.AuthResponse, error) {
	f.mu.Lock()
	f.SignupCalls++
	f.LastName = name
	f.LastEmail = email
	fn := f.SignupFn
	f.mu.Unlock()
	return fn(ctx, name, email, password)
}

func (f *fakeAuth) Verify(ctx context.Context, token string) (models.UserProfile, error) {
	f.mu.Lock()
	f.VerifyCalls++
	f.LastToken = token
	fn := f.VerifyFn
	f.mu.Unlock()
	return fn(ctx, token)
}

func authOK(token string, u models.UserProfile) func(context.Context, string, string) (client.AuthResponse, error) {
	return func(context.Context, string, string) (client.AuthResponse, error) {
		return client.AuthResponse{Token: token, User: u}, nil
	}
}

// ---- fake navigator / notifier ----

type fakeNav struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeNav) Navigate(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
}

func (f *fakeNav) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (f *fakeNotifier) Publish(n models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
}

func (f *fakeNotifier) Sent() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notification(nil), f.sent...)
}

// ---- fake analysis API ----

type fakeAnalysis struct {
	Resp     client.AnalysisResponse
	Err      error
	Calls    int
	LastName string
	LastData []byte
}

func (f *fakeAnalysis) Analyze(ctx context.Context, filename string, image []byte) (client.AnalysisResponse, error) {
	f.Calls++
	f.LastName = filename
	f.LastData = append([]byte(nil), image...)
	return f.Resp, f.Err
}

func (f *fakeAnalysis) Ping(ctx context.Context) (client.HealthStatus, error) {
	return client.HealthStatus{Status: "healthy"}, nil
}

// ---- fake image store ----

type fakeImages struct {
	Ref string
	Err error
}

func (f *fakeImages) Put(ctx context.Context, name string, data []byte) (string, error) {
	return f.Ref, f.Err
}

// ---- failing kv store ----

type failingStore struct {
	kvstore.Store
	SetManyErr error
}

func (f *failingStore) SetMany(ctx context.Context, values map[string][]byte) error {
	if f.SetManyErr != nil {
		return f.SetManyErr
	}
	return f.Store.SetMany(ctx, values)
}

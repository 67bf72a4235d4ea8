package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/config"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/visionaq/internal/client/router"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

var alice = models.UserProfile{ID: "u1", Email: "alice@example.com", DisplayName: "Alice"}

var errInvalidToken = &client.APIError{Kind: client.ErrUnauthorized, Status: 401, Message: "Invalid token"}

type fakeAuth struct {
	mu        sync.Mutex
	token     string
	loginErr  error
	verifyErr error
	onVerify  func(ctx context.Context)
	passwords []string
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (client.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords = append(f.passwords, password)
	if f.loginErr != nil {
		return client.AuthResponse{}, f.loginErr
	}
	return client.AuthResponse{Token: f.token, User: alice}, nil
}

func (f *fakeAuth) Signup(ctx context.Context, name, email, password string) (client.AuthResponse, error) {
	u := alice
	u.DisplayName = name
	return client.AuthResponse{Token: f.token, User: u}, nil
}

func (f *fakeAuth) Verify(ctx context.Context, token string) (models.UserProfile, error) {
	if f.onVerify != nil {
		f.onVerify(ctx)
	}
	if f.verifyErr != nil {
		return models.UserProfile{}, f.verifyErr
	}
	return alice, nil
}

type fakeAPI struct {
	aqi     int
	pingErr error
	pings   int
	mu      sync.Mutex
}

func (f *fakeAPI) Analyze(ctx context.Context, filename string, image []byte) (client.AnalysisResponse, error) {
	return client.AnalysisResponse{AQI: f.aqi, Category: "Moderate"}, nil
}

func (f *fakeAPI) Ping(ctx context.Context) (client.HealthStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	if f.pingErr != nil {
		return client.HealthStatus{}, f.pingErr
	}
	return client.HealthStatus{Status: "ok", Service: "analysis"}, nil
}

type fakeImages struct{}

func (fakeImages) Put(ctx context.Context, name string, data []byte) (string, error) {
	return "archive/" + name, nil
}

type testApp struct {
	*App
	out   *bytes.Buffer
	auth  *fakeAuth
	api   *fakeAPI
	store kvstore.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DataDir = t.TempDir()
	cfg.OnlineCheckInterval = 10 * time.Millisecond

	ta := &testApp{
		out:   &bytes.Buffer{},
		auth:  &fakeAuth{token: "opaque-token"},
		api:   &fakeAPI{aqi: 75},
		store: kvstore.NewMemoryStore(),
	}
	ta.App = newApp(cfg, logging.Nop(), deps{
		store:  ta.store,
		auth:   ta.auth,
		api:    ta.api,
		images: fakeImages{},
	}, bytes.NewReader(nil), ta.out)
	return ta
}

func stubPrompts(t *testing.T, answers []string, pw []byte) {
	t.Helper()
	origText, origPw := getSimpleText, getPassword
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		i++
		return answers[i-1], nil
	}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) { return pw, nil }
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })
}

func (ta *testApp) login(t *testing.T) {
	t.Helper()
	stubPrompts(t, []string{alice.Email}, []byte("pw"))
	require.NoError(t, ta.Login(context.Background()))
}

func TestStatus(t *testing.T) {
	ta := newTestApp(t)
	require.Equal(t, "(loading )", ta.status())

	ta.session.Initialize(context.Background())
	require.Equal(t, "", ta.status())

	ta.setMode(ModeOnline)
	require.Equal(t, "(online)", ta.status())

	ta.login(t)
	require.Equal(t, "(Alice online)", ta.status())
}

func TestLogin_WipesPasswordAndNavigates(t *testing.T) {
	ta := newTestApp(t)
	ta.session.Initialize(context.Background())
	stop := ta.router.Start()
	defer stop()

	pw := []byte("hunter2")
	stubPrompts(t, []string{alice.Email}, pw)

	require.NoError(t, ta.Login(context.Background()))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0}, pw)
	assert.Equal(t, []string{"hunter2"}, ta.auth.passwords)
	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, router.PathDashboard, ta.router.Current().Path)
}

func TestLogin_ValidationIsPrinted(t *testing.T) {
	ta := newTestApp(t)
	stubPrompts(t, []string{"  "}, []byte("pw"))

	err := ta.Login(context.Background())
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Contains(t, ta.out.String(), "email: is required")
	assert.Empty(t, ta.auth.passwords)
}

func TestLogin_RejectionProducesToast(t *testing.T) {
	ta := newTestApp(t)
	ta.auth.loginErr = &client.APIError{Kind: client.ErrUnauthorized, Status: 401, Message: "Invalid credentials"}
	toasts, cancel := ta.bus.Subscribe(4)
	defer cancel()
	stubPrompts(t, []string{alice.Email}, []byte("pw"))

	require.ErrorIs(t, ta.Login(context.Background()), client.ErrUnauthorized)

	n := <-toasts
	assert.Equal(t, "Login failed", n.Title)
	assert.Equal(t, "Invalid credentials", n.Body)
	assert.NotContains(t, ta.out.String(), "Invalid credentials")
}

func TestSignup_UsesName(t *testing.T) {
	ta := newTestApp(t)
	stubPrompts(t, []string{"Bob", "bob@example.com"}, []byte("pw"))

	require.NoError(t, ta.Signup(context.Background()))
	assert.Equal(t, "Bob", ta.session.State().User.DisplayName)
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)

	require.NoError(t, ta.Logout(context.Background()))
	assert.False(t, ta.isLoggedIn())

	cred, ok, err := ta.creds.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, cred.Token)
}

func TestAnalyze_RequiresSession(t *testing.T) {
	ta := newTestApp(t)
	ta.session.Initialize(context.Background())

	require.ErrorIs(t, ta.Analyze(context.Background(), "sky.jpg"), ErrNotLoggedIn)
	assert.Contains(t, ta.out.String(), "Please log in first.")
}

func TestAnalyze_RendersResultsCard(t *testing.T) {
	ta := newTestApp(t)
	ta.session.Initialize(context.Background())
	ta.login(t)
	cancel := ta.router.OnChange(ta.render)
	defer cancel()

	img := filepath.Join(t.TempDir(), "sky.jpg")
	require.NoError(t, os.WriteFile(img, []byte("\xff\xd8\xff fake jpeg"), 0o600))

	require.NoError(t, ta.Analyze(context.Background(), img))

	out := ta.out.String()
	assert.Equal(t, router.PathResults, ta.router.Current().Path)
	assert.Contains(t, out, "AQI 75")
	assert.Contains(t, out, "Moderate")
	assert.Contains(t, out, "archive/sky.jpg")
}

func TestAnalyze_MissingFileIsPrinted(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)

	err := ta.Analyze(context.Background(), filepath.Join(t.TempDir(), "nope.jpg"))
	require.ErrorIs(t, err, client.ErrValidation)
	assert.Contains(t, ta.out.String(), "image")
}

func TestResultsView_EmptySlotRedirectsToAnalyze(t *testing.T) {
	ta := newTestApp(t)
	ta.session.Initialize(context.Background())
	ta.login(t)
	cancel := ta.router.OnChange(ta.render)
	defer cancel()

	require.NoError(t, ta.Goto(context.Background(), "results"))

	assert.Equal(t, router.PathAnalyze, ta.router.Current().Path)
	assert.Contains(t, ta.out.String(), "Run 'analyze <image>'")
}

func TestProtectedViewRedirectsToAuth(t *testing.T) {
	ta := newTestApp(t)
	ta.session.Initialize(context.Background())
	cancel := ta.router.OnChange(ta.render)
	defer cancel()

	require.NoError(t, ta.Goto(context.Background(), "/dashboard"))

	assert.Equal(t, router.PathAuth, ta.router.Current().Path)
	assert.Contains(t, ta.out.String(), "Use 'login'")
}

func TestHistory(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)

	require.NoError(t, ta.History(context.Background()))
	assert.Contains(t, ta.out.String(), "No analyses yet")

	_, err := ta.history.Record(context.Background(), models.AnalysisResult{
		ID: "r1", AQI: 42, Category: "Good", HazeLevel: models.HazeLow, CreatedAt: time.Now(),
	}, "")
	require.NoError(t, err)

	ta.out.Reset()
	require.NoError(t, ta.History(context.Background()))
	assert.Contains(t, ta.out.String(), "History (1)")
	assert.Contains(t, ta.out.String(), "r1")
}

func TestWhoami(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.Whoami(context.Background()))
	assert.Contains(t, ta.out.String(), "Not logged in.")

	exp := time.Now().Add(2 * time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).
		SignedString([]byte("k"))
	require.NoError(t, err)
	ta.auth.token = tok
	ta.login(t)

	ta.out.Reset()
	require.NoError(t, ta.Whoami(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "Alice <a***@example.com>")
	assert.Contains(t, out, "Session expires")
	assert.NotContains(t, out, tok)
}

func TestHealth_ReportsModeAndOpensGuide(t *testing.T) {
	ta := newTestApp(t)
	ta.session.Initialize(context.Background())
	ta.login(t)
	cancel := ta.router.OnChange(ta.render)
	defer cancel()

	ta.api.pingErr = errors.New("down")
	require.NoError(t, ta.Health(context.Background()))

	out := ta.out.String()
	assert.Contains(t, out, "Analysis service: offline")
	assert.Contains(t, out, "Health & Safety")
	assert.Contains(t, out, "Very Unhealthy")
}

func TestOnlineStatusWatcher(t *testing.T) {
	ta := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ta.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return ta.currentMode() == ModeOnline }, time.Second, time.Millisecond)

	ta.api.mu.Lock()
	ta.api.pingErr = errors.New("down")
	ta.api.mu.Unlock()
	require.Eventually(t, func() bool { return ta.currentMode() == ModeOffline }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestExportHistory_FileGetsExtension(t *testing.T) {
	ta := newTestApp(t)
	ta.login(t)
	_, err := ta.history.Record(context.Background(), models.AnalysisResult{
		ID: "r1", AQI: 120, Category: "Unhealthy for Sensitive Groups", HazeLevel: models.HazeMedium, CreatedAt: time.Now(),
	}, "")
	require.NoError(t, err)

	target := filepath.Join(t.TempDir(), "history")
	var msg bytes.Buffer
	require.NoError(t, ta.ExportHistory(context.Background(), "yaml", target, &msg))

	data, err := os.ReadFile(target + ".yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "owner: alice@example.com")
	assert.Contains(t, string(data), "id: r1")
	assert.Contains(t, msg.String(), "Exported 1 result(s)")
}

func TestExportHistory_UnknownFormat(t *testing.T) {
	ta := newTestApp(t)
	err := ta.ExportHistory(context.Background(), "csv", "", io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestRun_WaitsForSessionCheckBeforeClosing(t *testing.T) {
	capturePrints(t)
	ta := newTestApp(t)
	require.NoError(t, ta.creds.Save(context.Background(), "opaque-token", alice))

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	ta.auth.onVerify = func(ctx context.Context) {
		<-ctx.Done()
		time.Sleep(20 * time.Millisecond)
		record("verified")
	}
	ta.closers = append(ta.closers, func() error {
		record("closed")
		return nil
	})

	// the empty reader ends the REPL straight away
	require.NoError(t, ta.Run(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"verified", "closed"}, order)
}

func TestRenderToast(t *testing.T) {
	s := renderToast(models.Notification{Title: "Logged out", Body: "See you soon!", Kind: models.NotificationInfo})
	assert.Contains(t, s, "Logged out")
	assert.Contains(t, s, "See you soon!")
}

func TestDashboardView(t *testing.T) {
	ta := newTestApp(t)
	ta.session.Initialize(context.Background())
	ta.login(t)
	cancel := ta.router.OnChange(ta.render)
	defer cancel()

	require.NoError(t, ta.Goto(context.Background(), "dashboard"))
	assert.Contains(t, ta.out.String(), "Hello, Alice.")
	assert.Contains(t, ta.out.String(), "No analyses yet")

	for i, aqi := range []int{40, 160} {
		_, err := ta.history.Record(context.Background(), models.AnalysisResult{
			ID: fmt.Sprintf("r%d", i), AQI: aqi, Category: "x", HazeLevel: models.HazeLevelFor(aqi), CreatedAt: time.Now(),
		}, "")
		require.NoError(t, err)
	}

	ta.out.Reset()
	require.NoError(t, ta.Goto(context.Background(), "dashboard"))
	out := ta.out.String()
	assert.Contains(t, out, "Latest reading (2 total)")
	assert.Contains(t, out, "AQI 160")
	assert.Contains(t, out, "History (2)")
}

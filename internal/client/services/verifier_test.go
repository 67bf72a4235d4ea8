package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/visionaq/internal/common"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func newVerifier(t *testing.T, auth *fakeAuth) (*SessionVerifier, *CredentialStore, kvstore.Store) {
	t.Helper()
	store := kvstore.NewMemoryStore()
	creds := NewCredentialStore(store, nil)
	return NewSessionVerifier(creds, auth, nil), creds, store
}

func requireNoCredentials(t *testing.T, store kvstore.Store) {
	t.Helper()
	for _, k := range []string{common.KeySessionToken, common.KeySessionProfile} {
		v, err := store.Get(context.Background(), k)
		require.NoError(t, err)
		require.Nil(t, v, "key %s must be cleared", k)
	}
}

func TestVerify_NoTokenSkipsNetwork(t *testing.T) {
	auth := &fakeAuth{}
	v, _, _ := newVerifier(t, auth)

	res := v.Verify(context.Background())
	require.Equal(t, models.OutcomeNoToken, res.Outcome)
	require.Zero(t, auth.VerifyCalls)
}

func TestVerify_ValidToken(t *testing.T) {
	auth := &fakeAuth{VerifyFn: func(ctx context.Context, token string) (models.UserProfile, error) {
		return ann, nil
	}}
	v, creds, _ := newVerifier(t, auth)
	require.NoError(t, creds.Save(context.Background(), "T1", ann))

	res := v.Verify(context.Background())
	require.Equal(t, models.OutcomeValid, res.Outcome)
	require.Equal(t, &ann, res.Profile)
	require.Equal(t, "T1", auth.LastToken)
}

func TestVerify_InvalidClearsCredentials(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rejected", &client.APIError{Kind: client.ErrUnauthorized, Status: http.StatusUnauthorized, Message: "Invalid token"}},
		{"transport", &client.APIError{Kind: client.ErrUnavailable, Message: "connection refused"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{VerifyFn: func(ctx context.Context, token string) (models.UserProfile, error) {
				return models.UserProfile{}, tt.err
			}}
			v, creds, store := newVerifier(t, auth)
			require.NoError(t, creds.Save(context.Background(), "T1", ann))

			res := v.Verify(context.Background())
			require.Equal(t, models.OutcomeInvalid, res.Outcome)
			require.ErrorIs(t, res.Err, tt.err)
			requireNoCredentials(t, store)
		})
	}
}

func TestVerify_TokenWithoutProfileStillVerified(t *testing.T) {
	auth := &fakeAuth{VerifyFn: func(ctx context.Context, token string) (models.UserProfile, error) {
		return ann, nil
	}}
	v, _, store := newVerifier(t, auth)
	require.NoError(t, store.Set(context.Background(), common.KeySessionToken, []byte("T1")))

	res := v.Verify(context.Background())
	require.Equal(t, models.OutcomeValid, res.Outcome)
	require.Equal(t, 1, auth.VerifyCalls)
}

func TestVerify_ExpiredJWTSkipsNetwork(t *testing.T) {
	auth := &fakeAuth{}
	v, creds, store := newVerifier(t, auth)
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, creds.Save(context.Background(), token, ann))

	res := v.Verify(context.Background())
	require.Equal(t, models.OutcomeInvalid, res.Outcome)
	require.ErrorIs(t, res.Err, ErrTokenExpired)
	require.Zero(t, auth.VerifyCalls)
	requireNoCredentials(t, store)
}

func TestVerify_UnexpiredJWTGoesToServer(t *testing.T) {
	auth := &fakeAuth{VerifyFn: func(ctx context.Context, token string) (models.UserProfile, error) {
		return ann, nil
	}}
	v, creds, _ := newVerifier(t, auth)
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, creds.Save(context.Background(), token, ann))

	res := v.Verify(context.Background())
	require.Equal(t, models.OutcomeValid, res.Outcome)
	require.Equal(t, 1, auth.VerifyCalls)
}

func TestVerify_LateRejectionKeepsNewerCredentials(t *testing.T) {
	var creds *CredentialStore
	auth := &fakeAuth{VerifyFn: func(ctx context.Context, token string) (models.UserProfile, error) {
		// a login lands while the old token is being checked
		require.NoError(t, creds.Save(ctx, "NEW", ann))
		return models.UserProfile{}, errors.New("expired")
	}}
	v, c, _ := newVerifier(t, auth)
	creds = c
	require.NoError(t, creds.Save(context.Background(), "OLD", ann))

	res := v.Verify(context.Background())
	require.Equal(t, models.OutcomeInvalid, res.Outcome)

	cred, ok, err := creds.Load(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "NEW", cred.Token)
}

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	c, ok := InspectToken(signedToken(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}))
	require.True(t, ok)
	require.Equal(t, "u1", c.Subject)
	require.True(t, exp.Equal(c.ExpiresAt))

	_, ok = InspectToken("opaque-session-token")
	require.False(t, ok)
	require.False(t, tokenExpired("opaque-session-token", time.Now()))
}

package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

// Verifier checks the stored session once at startup.
type Verifier interface {
	Verify(ctx context.Context) models.Verification
}

// SessionVerifier asks the auth service whether the stored token is still
// good. Any failure, rejection or transport error alike, invalidates it.
type SessionVerifier struct {
	creds *CredentialStore
	auth  client.AuthAPI
	log   logging.Logger
	now   func() time.Time
}

func NewSessionVerifier(creds *CredentialStore, auth client.AuthAPI, log logging.Logger) *SessionVerifier {
	if log == nil {
		log = logging.Nop()
	}
	return &SessionVerifier{creds: creds, auth: auth, log: log, now: time.Now}
}

func (v *SessionVerifier) Verify(ctx context.Context) models.Verification {
	cred, ok, err := v.creds.Load(ctx)
	if err != nil {
		v.log.Error(ctx, "load credentials failed", "error", err)
		if cerr := v.creds.Clear(ctx); cerr != nil {
			v.log.Error(ctx, "clear credentials failed", "error", cerr)
		}
		return models.Verification{Outcome: models.OutcomeInvalid, Err: err}
	}
	if !ok {
		v.log.Debug(ctx, "no stored session")
		return models.Verification{Outcome: models.OutcomeNoToken}
	}

	if tokenExpired(cred.Token, v.now()) {
		v.log.Info(ctx, "stored token expired")
		return v.invalidate(ctx, cred.Token, ErrTokenExpired)
	}

	profile, err := v.auth.Verify(ctx, cred.Token)
	if err != nil {
		v.log.Info(ctx, "stored token rejected", "error", err)
		return v.invalidate(ctx, cred.Token, err)
	}

	v.log.Info(ctx, "session restored", "user_id", profile.ID)
	return models.Verification{Outcome: models.OutcomeValid, Profile: &profile}
}

func (v *SessionVerifier) invalidate(ctx context.Context, token string, cause error) models.Verification {
	if _, err := v.creds.Invalidate(ctx, token); err != nil {
		v.log.Error(ctx, "clear credentials failed", "error", err)
	}
	return models.Verification{Outcome: models.OutcomeInvalid, Err: cause}
}

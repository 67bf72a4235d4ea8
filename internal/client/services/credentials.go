package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/visionaq/internal/common"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

// CredentialStore persists the bearer token and the profile it was issued
// with. The token is opaque and never logged.
type CredentialStore struct {
	mu    sync.Mutex
	store kvstore.Store
	log   logging.Logger
}

func NewCredentialStore(store kvstore.Store, log logging.Logger) *CredentialStore {
	if log == nil {
		log = logging.Nop()
	}
	return &CredentialStore{store: store, log: log}
}

// Save writes token and profile together.
func (c *CredentialStore) Save(ctx context.Context, token string, profile models.UserProfile) error {
	if token == "" {
		return fmt.Errorf("save credentials: empty token")
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SetMany(ctx, map[string][]byte{
		common.KeySessionToken:   []byte(token),
		common.KeySessionProfile: raw,
	}); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Load returns the stored credential. ok is false when there is no token.
// A token whose profile is missing or unreadable comes back with a nil
// Profile.
func (c *CredentialStore) Load(ctx context.Context) (cred models.Credential, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *CredentialStore) load(ctx context.Context) (models.Credential, bool, error) {
	token, err := c.store.Get(ctx, common.KeySessionToken)
	if err != nil {
		return models.Credential{}, false, fmt.Errorf("load token: %w", err)
	}
	if len(token) == 0 {
		return models.Credential{}, false, nil
	}

	cred := models.Credential{Token: string(token)}

	raw, err := c.store.Get(ctx, common.KeySessionProfile)
	if err != nil {
		c.log.Warn(ctx, "cached profile not readable", "error", err)
		return cred, true, nil
	}
	if raw != nil {
		var p models.UserProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			c.log.Warn(ctx, "cached profile is corrupt", "error", err)
		} else {
			cred.Profile = &p
		}
	}
	return cred, true, nil
}

// Clear removes the token and the profile.
func (c *CredentialStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clear(ctx)
}

func (c *CredentialStore) clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, common.KeySessionToken, common.KeySessionProfile); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// Invalidate clears the credentials only if the stored token is still
// token. It reports whether anything was removed.
func (c *CredentialStore) Invalidate(ctx context.Context, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	if !ok || cur.Token != token {
		return false, nil
	}
	if err := c.clear(ctx); err != nil {
		return false, err
	}
	return true, nil
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/dmitrijs2005/visionaq/internal/client/client"
	"github.com/dmitrijs2005/visionaq/internal/client/config"
	"github.com/dmitrijs2005/visionaq/internal/client/imagestore"
	"github.com/dmitrijs2005/visionaq/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/visionaq/internal/filex"
	"github.com/dmitrijs2005/visionaq/internal/logging"
)

// Seams for tests.
var (
	newValkeyClient = valkey.NewClient
	newS3Store      = imagestore.NewS3Store
)

func noopClose() error { return nil }

// openStore returns the key-value store selected by c.StorageDriver. An
// unreachable Valkey falls back to the local SQLite database.
func openStore(ctx context.Context, c *config.Config, log logging.Logger) (kvstore.Store, func() error, error) {
	switch c.StorageDriver {
	case config.StorageMemory:
		return kvstore.NewMemoryStore(), noopClose, nil

	case config.StorageValkey:
		store, closeFn, err := openValkey(ctx, c)
		if err == nil {
			return store, closeFn, nil
		}
		log.Error(ctx, "valkey unavailable, falling back to sqlite", "addr", c.ValkeyAddr, "error", err)
	}

	return openSQLite(ctx, c)
}

func openSQLite(ctx context.Context, c *config.Config) (kvstore.Store, func() error, error) {
	if _, err := filex.EnsureDir(c.DataDir); err != nil {
		return nil, nil, fmt.Errorf("prepare data dir: %w", err)
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	return kvstore.NewSQLiteRepository(db), db.Close, nil
}

func openValkey(ctx context.Context, c *config.Config) (kvstore.Store, func() error, error) {
	opt, err := kvstore.ValkeyOptions(c.ValkeyAddr)
	if err != nil {
		return nil, nil, err
	}

	vc, err := newValkeyClient(opt)
	if err != nil {
		return nil, nil, fmt.Errorf("connect valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := vc.Do(pingCtx, vc.B().Ping().Build()).Error(); err != nil {
		vc.Close()
		return nil, nil, fmt.Errorf("ping valkey: %w", err)
	}

	return kvstore.NewValkeyStore(vc, c.ValkeyPrefix), func() error { vc.Close(); return nil }, nil
}

// openImages returns the image archive selected by c.ImageStore.
func openImages(ctx context.Context, c *config.Config) (imagestore.Store, error) {
	if c.ImageStore == config.ImageStoreS3 {
		s, err := newS3Store(ctx, imagestore.S3Options{
			Endpoint:  c.S3.Endpoint,
			Region:    c.S3.Region,
			Bucket:    c.S3.Bucket,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			URLTTL:    c.S3.URLTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 image store: %w", err)
		}
		return s, nil
	}
	return imagestore.NewLocalStore(c.ImagesDir()), nil
}

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/password"
	repomem "github.com/tendant/simple-blog/pkg/simpleblog/repo/memory"
	repopg "github.com/tendant/simple-blog/pkg/simpleblog/repo/postgres"
	fsstorage "github.com/tendant/simple-blog/pkg/simpleblog/storage/fs"
	memorystorage "github.com/tendant/simple-blog/pkg/simpleblog/storage/memory"
	s3storage "github.com/tendant/simple-blog/pkg/simpleblog/storage/s3"
)

// ServerConfig represents server configuration for the simple-blog service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"3000"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	// Database configuration
	DatabaseType string `env:"DATABASE_TYPE" env-default:"memory"` // "memory", "postgres"
	DatabaseURL  string `env:"DATABASE_URL" env-default:""`

	// Storage configuration
	StorageType string `env:"STORAGE_TYPE" env-default:"fs"` // "memory", "fs", "s3"
	MediaDir    string `env:"MEDIA_DIR" env-default:"./data/media"`

	// Credential hashing
	BcryptCost int `env:"BCRYPT_COST" env-default:"10"`

	S3 S3Config
}

// S3Config holds settings for the S3 storage backend
type S3Config struct {
	Region                 string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	Bucket                 string `env:"AWS_S3_BUCKET" env-default:""`
	AccessKeyID            string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey        string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Endpoint               string `env:"AWS_S3_ENDPOINT" env-default:""`
	UsePathStyle           bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	CreateBucketIfNotExist bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads the server configuration from the process environment
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.MediaDir == "" {
			return errors.New("media_dir is required when using fs storage")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required when using s3 storage")
		}
	default:
		return errors.New("storage_type must be 'memory', 'fs' or 's3'")
	}

	return nil
}

// BuildService creates a Service instance from the server configuration. The
// returned cleanup releases the database pool and must be called at shutdown.
func (c *ServerConfig) BuildService(ctx context.Context) (simpleblog.Service, func(), error) {
	cleanup := func() {}

	repo, repoCleanup, err := c.buildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}
	if repoCleanup != nil {
		cleanup = repoCleanup
	}

	store, err := c.buildStorageBackend()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to build storage backend: %w", err)
	}

	svc, err := simpleblog.New(
		simpleblog.WithRepository(repo),
		simpleblog.WithBlobStore(store),
		simpleblog.WithHasher(password.NewBcryptHasher(c.BcryptCost)),
		simpleblog.WithEventSink(simpleblog.NewSlogEventSink(slog.Default())),
	)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return svc, cleanup, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (simpleblog.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return repomem.New(), nil, nil
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		return repopg.NewWithPool(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildStorageBackend creates a BlobStore based on the configuration
func (c *ServerConfig) buildStorageBackend() (simpleblog.BlobStore, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.MediaDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend type: %s", c.StorageType)
	}
}

// Package config loads server configuration from the environment and
// assembles the asset service from it.
package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetkit/assetkit/pkg/assetkit"
	memoryrepo "github.com/assetkit/assetkit/pkg/assetkit/repo/memory"
	postgresrepo "github.com/assetkit/assetkit/pkg/assetkit/repo/postgres"
	fsstorage "github.com/assetkit/assetkit/pkg/assetkit/storage/fs"
	memorystorage "github.com/assetkit/assetkit/pkg/assetkit/storage/memory"
	s3storage "github.com/assetkit/assetkit/pkg/assetkit/storage/s3"
)

// ServerConfig represents server configuration for the asset service
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	// Shared secret gating mutating operations
	APIToken string `env:"API_TOKEN" env-required:"true"`

	DB      DBConfig
	Storage StorageConfig
}

// DBConfig selects the metadata repository backend. With no host
// configured the in-memory repository is used.
type DBConfig struct {
	Host     string `env:"ASSET_PG_HOST" env-default:""`
	Port     uint16 `env:"ASSET_PG_PORT" env-default:"5432"`
	Name     string `env:"ASSET_PG_NAME" env-default:"assets"`
	User     string `env:"ASSET_PG_USER" env-default:"assets"`
	Password string `env:"ASSET_PG_PASSWORD" env-default:""`
}

// StorageConfig selects the blob store backend: "memory", "fs" or "s3".
type StorageConfig struct {
	Backend string `env:"STORAGE_BACKEND" env-default:"memory"`

	// fs backend
	BaseDir string `env:"STORAGE_FS_BASE_DIR" env-default:"./data/blobs"`

	// s3 backend
	Endpoint        string `env:"AWS_S3_ENDPOINT" env-default:""`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	Bucket          string `env:"AWS_S3_BUCKET" env-default:"asset-bucket"`
	Region          string `env:"AWS_S3_REGION" env-default:"us-east-1"`
	UsePathStyle    bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"true"`
	CreateBucket    bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// Load reads configuration from the environment
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	return &cfg, nil
}

func (c DBConfig) databaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

// BuildRepository constructs the configured metadata repository
func (c *ServerConfig) BuildRepository(ctx context.Context) (assetkit.Repository, error) {
	if c.DB.Host == "" {
		return memoryrepo.New(), nil
	}

	pool, err := pgxpool.New(ctx, c.DB.databaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return postgresrepo.NewWithPool(pool), nil
}

// BuildBlobStore constructs the configured blob store backend
func (c *ServerConfig) BuildBlobStore() (assetkit.BlobStore, error) {
	switch c.Storage.Backend {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.Storage.BaseDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.Storage.Region,
			Bucket:                 c.Storage.Bucket,
			AccessKeyID:            c.Storage.AccessKeyID,
			SecretAccessKey:        c.Storage.SecretAccessKey,
			Endpoint:               c.Storage.Endpoint,
			UsePathStyle:           c.Storage.UsePathStyle,
			CreateBucketIfNotExist: c.Storage.CreateBucket,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
}

// BuildService assembles the asset lifecycle service from configuration
func (c *ServerConfig) BuildService(ctx context.Context, logger *slog.Logger) (assetkit.Service, error) {
	repo, err := c.BuildRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	store, err := c.BuildBlobStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build blob store: %w", err)
	}

	return assetkit.New(
		assetkit.WithRepository(repo),
		assetkit.WithBlobStore(store),
		assetkit.WithLogger(logger),
	)
}

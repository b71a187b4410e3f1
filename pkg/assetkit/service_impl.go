package assetkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/assetkit/assetkit/pkg/assetkit/storagekey"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	keys       storagekey.Generator
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the metadata repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the blob storage backend for the service
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithKeyGenerator sets the storage key generation strategy
func WithKeyGenerator(gen storagekey.Generator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithLogger sets the structured logger used for lifecycle events
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.keys == nil {
		s.keys = storagekey.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

func (s *service) Upload(ctx context.Context, req UploadRequest) (*Asset, error) {
	key := s.keys.Generate(req.FileName)

	if err := s.blobStore.Upload(ctx, key, req.Reader); err != nil {
		return nil, fmt.Errorf("upload blob %s: %w", key, err)
	}

	now := time.Now().UTC()
	asset := &Asset{
		ID:          uuid.New(),
		Name:        req.FileName,
		Path:        key,
		MimeType:    req.MimeType,
		Size:        req.Size,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repository.Create(ctx, asset); err != nil {
		// The blob is already durable; remove it best-effort so a failed
		// record write does not leave an orphan with no record to find it.
		if cleanupErr := s.blobStore.Delete(ctx, key); cleanupErr != nil {
			s.logger.Error("orphan blob cleanup failed after record create failure",
				"key", key, "error", cleanupErr)
		}
		return nil, &AssetError{AssetID: asset.ID, Op: "create", Err: err}
	}

	s.logger.Info("asset uploaded", "asset_id", asset.ID, "path", asset.Path, "size", asset.Size)
	return asset, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Asset, error) {
	asset, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.blobStore.Exists(ctx, asset.Path)
	if err != nil {
		return nil, &AssetError{AssetID: id, Op: "get", Err: err}
	}
	if !exists {
		return nil, &AssetError{AssetID: id, Op: "get", Err: ErrBlobMissing}
	}

	return asset, nil
}

func (s *service) List(ctx context.Context, query ListQuery) ([]*Asset, int, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repository.List(ctx, query)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	asset, err := s.repository.Get(ctx, id)
	if err != nil {
		return err
	}

	exists, err := s.blobStore.Exists(ctx, asset.Path)
	if err != nil {
		return &AssetError{AssetID: id, Op: "delete", Err: err}
	}
	if !exists {
		// Metadata says the blob should exist and storage disagrees. Keep
		// the record so the inconsistency stays visible to operators.
		return &AssetError{AssetID: id, Op: "delete", Err: ErrBlobMissing}
	}

	// Blob goes first: a crash after this point leaves an orphaned record,
	// which a retry detects via the exists check above. The reverse order
	// would leave an unfindable orphaned blob.
	if err := s.blobStore.Delete(ctx, asset.Path); err != nil {
		return &AssetError{AssetID: id, Op: "delete", Err: err}
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		s.logger.Error("record delete failed after blob removal",
			"asset_id", id, "path", asset.Path, "error", err)
		return &AssetError{AssetID: id, Op: "delete", Err: err}
	}

	s.logger.Info("asset deleted", "asset_id", id, "path", asset.Path)
	return nil
}

func (s *service) Download(ctx context.Context, id uuid.UUID) (*Asset, io.ReadCloser, error) {
	asset, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.blobStore.Download(ctx, asset.Path)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, nil, &AssetError{AssetID: id, Op: "download", Err: ErrBlobMissing}
		}
		return nil, nil, &AssetError{AssetID: id, Op: "download", Err: err}
	}

	return asset, reader, nil
}

func (s *service) Random(ctx context.Context) (*Asset, error) {
	asset, err := s.repository.Random(ctx)
	if err != nil {
		return nil, err
	}

	exists, err := s.blobStore.Exists(ctx, asset.Path)
	if err != nil {
		return nil, &AssetError{AssetID: asset.ID, Op: "random", Err: err}
	}
	if !exists {
		return nil, &AssetError{AssetID: asset.ID, Op: "random", Err: ErrBlobMissing}
	}

	return asset, nil
}

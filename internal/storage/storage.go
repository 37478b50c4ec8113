package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage is the blob-storage collaborator. Keys are namespaced as
// {resourceType}/user-{userID}/{generatedName}; Put returns the public
// URL stored on the owning record. KeyFromURL inverts Put's URL so the
// object can be deleted when its owning record goes away; it returns an
// empty string for URLs that cannot be mapped back to a key.
type Storage interface {
	Put(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) string
}

// Config holds storage configuration.
type Config struct {
	Type      string // local, s3
	BasePath  string // for local storage
	BaseURL   string // public URL base
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string // custom S3 endpoint, optional
}

// NewStorage builds the configured Storage implementation.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "s3":
		return NewS3Storage(cfg)
	case "local", "":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported backend name.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo}

// Store is the interface for graph document storage backends.
type Store interface {
	// Get retrieves a document by name.
	// Returns a NOT_FOUND error if the name is not stored.
	Get(ctx context.Context, name string) (*graph.Document, error)

	// Put stores a document, replacing any previous one with the same name.
	Put(ctx context.Context, name string, doc graph.Document) error

	// Delete removes a document. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns every stored name in lexical order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// File backend
	Dir string

	// Redis backend
	RedisAddr   string
	RedisDB     int
	RedisPrefix string

	// Mongo backend
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open creates the backend named by cfg.Backend. An empty backend means
// BackendFile.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{Addr: cfg.RedisAddr, DB: cfg.RedisDB, Prefix: cfg.RedisPrefix})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{URI: cfg.MongoURI, Database: cfg.MongoDatabase, Collection: cfg.MongoCollection})
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig,
			"unknown store backend %q (want one of %s)", cfg.Backend, strings.Join(Backends, ", "))
	}
	if err != nil {
		return nil, err
	}
	return WithHooks(s, backend), nil
}

// NewName returns a fresh document name for unnamed saves.
func NewName() string {
	return "graph-" + uuid.NewString()
}

// notFound builds the error returned for a missing document.
func notFound(name string) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "graph %q not found", name)
}

// storageErr wraps a backend failure.
func storageErr(err error, op, name string) error {
	return apperrors.Wrap(apperrors.ErrCodeStorage, err, "%s %q", op, name)
}

// =============================================================================
// Instrumentation
// =============================================================================

type hooked struct {
	Store
	backend string
}

// WithHooks wraps s so that every operation reports to
// observability.Store().
func WithHooks(s Store, backend string) Store {
	if h, ok := s.(*hooked); ok {
		s = h.Store
	}
	return &hooked{Store: s, backend: backend}
}

// Unwrap returns the backend behind a hooked store.
func Unwrap(s Store) Store {
	if h, ok := s.(*hooked); ok {
		return h.Store
	}
	return s
}

func (h *hooked) Get(ctx context.Context, name string) (*graph.Document, error) {
	start := time.Now()
	doc, err := h.Store.Get(ctx, name)
	observability.Store().OnStoreOp(ctx, h.backend, "get", name, time.Since(start), err)
	return doc, err
}

func (h *hooked) Put(ctx context.Context, name string, doc graph.Document) error {
	start := time.Now()
	err := h.Store.Put(ctx, name, doc)
	observability.Store().OnStoreOp(ctx, h.backend, "put", name, time.Since(start), err)
	return err
}

func (h *hooked) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := h.Store.Delete(ctx, name)
	observability.Store().OnStoreOp(ctx, h.backend, "delete", name, time.Since(start), err)
	return err
}

func (h *hooked) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := h.Store.List(ctx)
	observability.Store().OnStoreOp(ctx, h.backend, "list", "", time.Since(start), err)
	return names, err
}

// String describes the store for log output.
func (h *hooked) String() string {
	return fmt.Sprintf("%s store", h.backend)
}

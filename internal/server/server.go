package server

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/matzehuels/routeboard/pkg/buildinfo"
	"github.com/matzehuels/routeboard/pkg/cache"
	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/pipeline"
	"github.com/matzehuels/routeboard/pkg/planar"
	"github.com/matzehuels/routeboard/pkg/planar/spatial"
	"github.com/matzehuels/routeboard/pkg/store"
)

// DefaultShutdownTimeout bounds graceful shutdown in [Server.Run].
const DefaultShutdownTimeout = 10 * time.Second

// Options configures a [Server]. Every field is optional.
type Options struct {
	// Logger receives request and error logs. Nil discards them.
	Logger *log.Logger

	// Store backs save and load. Nil means an in-memory store.
	Store store.Store

	// Cache memoizes routes and renders. Nil disables caching.
	Cache cache.Cache

	// CacheTTL overrides the lifetime of cached results when positive.
	CacheTTL time.Duration

	// Pick holds the picking radii for /pick.
	Pick spatial.Options

	// ShutdownTimeout bounds graceful shutdown. Zero means DefaultShutdownTimeout.
	ShutdownTimeout time.Duration

	// AllowedOrigins enables CORS for browser clients. Empty disables it;
	// "*" allows any origin.
	AllowedOrigins []string
}

// Server holds the live boards and serves them over HTTP.
type Server struct {
	logger   *log.Logger
	store    store.Store
	runner   *pipeline.Runner
	pick     spatial.Options
	shutdown time.Duration
	origins  []string

	mu     sync.RWMutex
	boards map[string]*board
}

// board is one live graph. mu is held for the whole of every request that
// touches g.
type board struct {
	mu sync.Mutex
	g  *planar.Graph
}

// New creates a server with no boards.
func New(opts Options) *Server {
	s := &Server{
		logger:   opts.Logger,
		store:    opts.Store,
		pick:     opts.Pick,
		shutdown: opts.ShutdownTimeout,
		origins:  opts.AllowedOrigins,
		boards:   make(map[string]*board),
	}
	if s.logger == nil {
		s.logger = nopLogger()
	}
	if s.store == nil {
		s.store = store.WithHooks(store.NewMemoryStore(), store.BackendMemory)
	}
	s.runner = pipeline.NewRunner(opts.Cache, cache.NewScopedKeyer(nil, buildinfo.CacheScope()), s.logger)
	if opts.CacheTTL > 0 {
		s.runner.RouteTTL = opts.CacheTTL
		s.runner.RenderTTL = opts.CacheTTL
	}
	if s.shutdown <= 0 {
		s.shutdown = DefaultShutdownTimeout
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))
	if len(s.origins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"X-Cache", "X-Request-Id"},
			MaxAge:         300,
		}).Handler)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.handleListBoards)
		r.Post("/", s.handleCreateBoard)
		r.Post("/load/{name}", s.handleLoad)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetBoard)
			r.Delete("/", s.handleDeleteBoard)

			r.Post("/nodes", s.handleAddNode)
			r.Put("/nodes/{node}", s.handleMoveNode)
			r.Delete("/nodes/{node}", s.handleRemoveNode)
			r.Post("/edges", s.handleAddEdge)
			r.Delete("/edges", s.handleRemoveEdgeBetween)
			r.Delete("/edges/{edge}", s.handleRemoveEdge)

			r.Get("/route", s.handleRoute)
			r.Get("/pick", s.handlePick)
			r.Get("/nearest/{node}", s.handleNearest)
			r.Get("/within/{node}", s.handleWithin)
			r.Get("/render", s.handleRender)

			r.Post("/save/{name}", s.handleSave)
		})
	})

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.handleListDocuments)
		r.Delete("/{name}", s.handleDeleteDocument)
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.shutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the store and cache.
func (s *Server) Close() error {
	return errors.Join(s.store.Close(), s.runner.Close())
}

// =============================================================================
// Board registry
// =============================================================================

// addBoard registers g under a fresh id.
func (s *Server) addBoard(g *planar.Graph) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.boards[id] = &board{g: g}
	s.mu.Unlock()
	return id
}

func (s *Server) board(id string) (*board, error) {
	s.mu.RLock()
	b, ok := s.boards[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "board %q not found", id)
	}
	return b, nil
}

func (s *Server) removeBoard(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[id]; !ok {
		return apperrors.New(apperrors.ErrCodeNotFound, "board %q not found", id)
	}
	delete(s.boards, id)
	return nil
}

func (s *Server) boardIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.boards))
	for id := range s.boards {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// withBoard runs fn with the board's lock held.
func (s *Server) withBoard(id string, fn func(g *planar.Graph) error) error {
	b, err := s.board(id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return fn(b.g)
}

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/mindwell/mindgrid/pkg/layout"
	"github.com/mindwell/mindgrid/pkg/mapdoc"
	"github.com/mindwell/mindgrid/pkg/observability"
	"github.com/mindwell/mindgrid/pkg/store"
	"github.com/mindwell/mindgrid/pkg/tree"
)

// serveCommand creates the serve command exposing layout and mutations
// over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		redisAddr  string
		redisDB    int
		mongoURI   string
		mongoDB    string
		ttl        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and mutation engine over HTTP",
		Long: `Serve the layout and mutation engine over HTTP.

Documents are stored under names and can be laid out, reparented,
reordered, and offset through the REST API. Without a backend flag the
server keeps documents in memory; --redis or --mongo select a persistent
backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadLayoutConfig(configPath)
			if err != nil {
				return err
			}

			docs, err := newDocumentStore(cmd.Context(), redisAddr, redisDB, mongoURI, mongoDB, ttl)
			if err != nil {
				return err
			}
			defer docs.Close(context.Background())

			observability.SetMutationHooks(&logMutationHooks{logger: c.Logger})

			srv := &server{store: docs, cfg: cfg, logger: c.Logger}
			return srv.listen(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "layout config file (TOML)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (e.g. localhost:6379)")
	cmd.Flags().IntVar(&redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "mongodb connection URI")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "mindgrid", "mongodb database name")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "document expiration for the redis backend (0 = keep forever)")

	return cmd
}

func newDocumentStore(ctx context.Context, redisAddr string, redisDB int, mongoURI, mongoDB string, ttl time.Duration) (store.DocumentStore, error) {
	switch {
	case redisAddr != "" && mongoURI != "":
		return nil, errors.New("choose one of --redis or --mongo")
	case redisAddr != "":
		return store.NewRedisStore(redisAddr, "", redisDB, store.WithTTL(ttl)), nil
	case mongoURI != "":
		return store.NewMongoStore(ctx, mongoURI, mongoDB)
	default:
		return store.NewMemoryStore(), nil
	}
}

// logMutationHooks logs applied and rejected mutations.
type logMutationHooks struct {
	logger *log.Logger
}

func (h *logMutationHooks) OnMutation(ctx context.Context, kind, nodeID string) {
	h.logger.Debug("mutation applied", "kind", kind, "node", nodeID)
}

func (h *logMutationHooks) OnMutationRejected(ctx context.Context, kind, nodeID string) {
	h.logger.Debug("mutation rejected", "kind", kind, "node", nodeID)
}

// server handles the REST API.
type server struct {
	store  store.DocumentStore
	cfg    layout.Config
	logger *log.Logger
}

func (s *server) listen(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/layout", s.handleLayout)

	r.Route("/maps", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleSave)
			r.Delete("/", s.handleDelete)
			r.Post("/layout", s.handleMapLayout)
			r.Post("/reparent", s.handleReparent)
			r.Post("/reorder", s.handleReorder)
			r.Post("/move", s.handleMove)
		})
	})

	return r
}

// handleLayout lays out a document posted in the request body without
// storing it.
func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var doc mapdoc.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := mapdoc.ToTree(doc)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeLayout(w, r.Context(), t)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"maps": names})
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDoc(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	var doc mapdoc.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	t, err := mapdoc.ToTree(doc)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.store.Save(r.Context(), name, mapdoc.FromTree(t)); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"name": name, "nodes": t.Len()})
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleMapLayout(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTree(w, r)
	if !ok {
		return
	}
	s.writeLayout(w, r.Context(), t)
}

func (s *server) handleReparent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Node      string `json:"node"`
		NewParent string `json:"new_parent"`
	}
	s.mutate(w, r, "reparent", &req, func(t *tree.Tree) (*tree.Tree, bool, string) {
		next, ok := t.Reparent(req.Node, req.NewParent)
		return next, ok, req.Node
	})
}

func (s *server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Node   string `json:"node"`
		Target string `json:"target"`
		Before bool   `json:"before"`
	}
	s.mutate(w, r, "reorder", &req, func(t *tree.Tree) (*tree.Tree, bool, string) {
		next, ok := t.ReorderSibling(req.Node, req.Target, req.Before)
		return next, ok, req.Node
	})
}

func (s *server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
		DX  float64  `json:"dx"`
		DY  float64  `json:"dy"`
	}
	s.mutate(w, r, "move", &req, func(t *tree.Tree) (*tree.Tree, bool, string) {
		next, ok := t.MoveBy(req.IDs, req.DX, req.DY)
		var first string
		if len(req.IDs) > 0 {
			first = req.IDs[0]
		}
		return next, ok, first
	})
}

// mutate runs one structural mutation against a stored document: load,
// apply, save the result, and return the updated document. A rejected
// mutation returns 409 and leaves the stored document unchanged.
func (s *server) mutate(w http.ResponseWriter, r *http.Request, kind string, req any, apply func(*tree.Tree) (*tree.Tree, bool, string)) {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	t, ok := s.loadTree(w, r)
	if !ok {
		return
	}

	next, applied, nodeID := apply(t)
	if !applied {
		observability.Mutation().OnMutationRejected(r.Context(), kind, nodeID)
		s.writeError(w, http.StatusConflict, fmt.Errorf("%s: mutation not applicable", kind))
		return
	}
	observability.Mutation().OnMutation(r.Context(), kind, nodeID)

	name := chi.URLParam(r, "name")
	doc := mapdoc.FromTree(next)
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *server) loadDoc(w http.ResponseWriter, r *http.Request) (mapdoc.Document, bool) {
	name := chi.URLParam(r, "name")
	doc, err := s.store.Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, err)
		} else {
			s.writeError(w, http.StatusInternalServerError, err)
		}
		return mapdoc.Document{}, false
	}
	return doc, true
}

func (s *server) loadTree(w http.ResponseWriter, r *http.Request) (*tree.Tree, bool) {
	doc, ok := s.loadDoc(w, r)
	if !ok {
		return nil, false
	}
	t, err := mapdoc.ToTree(doc)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return nil, false
	}
	return t, true
}

func (s *server) writeLayout(w http.ResponseWriter, ctx context.Context, t *tree.Tree) {
	observability.Layout().OnLayoutStart(ctx, t.Len())
	start := time.Now()
	nodes := layout.Layout(t, s.cfg)
	observability.Layout().OnLayoutComplete(ctx, len(nodes), time.Since(start))

	out := make([]positionedJSON, len(nodes))
	for i, p := range nodes {
		out[i] = positionedJSON{
			ID:            p.ID,
			X:             p.X,
			Y:             p.Y,
			OwnHeight:     p.OwnHeight,
			SubtreeHeight: p.SubtreeHeight,
			Direction:     p.Direction,
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"nodes": out})
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"embedding-conn/internal/app"
	"embedding-conn/internal/connection"
	"embedding-conn/internal/embeddings"
	"embedding-conn/internal/httputil"
	"embedding-conn/internal/similarity"
)

const shutdownTimeout = 10 * time.Second

type embedRequest struct {
	Text       *string        `json:"text" validate:"omitempty,min=1"`
	Texts      []string       `json:"texts" validate:"omitempty,max=2048,dive,min=1"`
	Tokens     []int          `json:"tokens" validate:"omitempty,dive,min=0"`
	TokenBatch [][]int        `json:"token_batch" validate:"omitempty,max=2048,dive,min=1,dive,min=0"`
	TTLSeconds *int           `json:"ttl_seconds" validate:"omitempty,min=0"`
	Params     map[string]any `json:"params"`
}

type similarityRequest struct {
	Texts      []string `json:"texts" validate:"omitempty,min=2,max=2048,dive,min=1"`
	Text       string   `json:"text"`
	Tokenize   bool     `json:"tokenize"`
	TTLSeconds *int     `json:"ttl_seconds" validate:"omitempty,min=0"`
}

type tokenizeRequest struct {
	Text string `json:"text" validate:"required"`
}

func main() {
	deps, err := app.Build(app.Options{})
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	defer deps.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("embedding service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		deps.Log.Error("server error", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("embedding service stopped")
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log)
	r.Post("/api/embeddings", embedHandler(deps))
	r.Post("/api/similarity", similarityHandler(deps))
	r.Post("/api/tokenize", tokenizeHandler(deps))
	r.Delete("/api/cache", purgeHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	return r
}

func embedHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		q, err := req.query()
		if err != nil {
			httputil.Fail(deps.Log, w, err.Error(), err, http.StatusBadRequest)
			return
		}

		opts := ttlOption(req.TTLSeconds)
		if len(req.Params) > 0 {
			opts = append(opts, embeddings.WithParams(req.Params))
		}
		table, err := deps.Embedder.Query(r.Context(), q, opts...)
		if err != nil {
			failQuery(deps.Log, w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"labels":     responseLabels(q, table.NumColumns()),
			"columns":    table.Columns,
			"dimensions": table.NumRows(),
		})
	}
}

// query picks the one input variant the request carries.
func (req embedRequest) query() (embeddings.Query, error) {
	var qs []embeddings.Query
	if req.Text != nil {
		qs = append(qs, embeddings.Text(*req.Text))
	}
	if len(req.Texts) > 0 {
		qs = append(qs, embeddings.Texts(req.Texts...))
	}
	if len(req.Tokens) > 0 {
		qs = append(qs, embeddings.Tokens(req.Tokens))
	}
	if len(req.TokenBatch) > 0 {
		qs = append(qs, embeddings.TokenBatch(req.TokenBatch))
	}
	if len(qs) != 1 {
		return embeddings.Query{}, errors.New("exactly one of text, texts, tokens or token_batch is required")
	}
	return qs[0], nil
}

// responseLabels names the n result columns. A params.input override can
// change the item count, and then the columns are named by position.
func responseLabels(q embeddings.Query, n int) []string {
	if labels := q.Labels(); len(labels) == n {
		return labels
	}
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("input[%d]", i)
	}
	return labels
}

func similarityHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req similarityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		texts := req.Texts
		if len(texts) == 0 {
			texts = embeddings.TextsFromLines(req.Text).Labels()
		}
		if len(texts) < 2 {
			httputil.Fail(deps.Log, w, "at least two texts are required", similarity.ErrTooFewInputs, http.StatusBadRequest)
			return
		}

		q := embeddings.Texts(texts...)
		if req.Tokenize {
			batch, err := deps.Encoder.EncodeAll(texts)
			if err != nil {
				httputil.Fail(deps.Log, w, "tokenization failed", err, http.StatusInternalServerError)
				return
			}
			q = embeddings.TokenBatch(batch)
		}

		table, err := deps.Embedder.Query(r.Context(), q, ttlOption(req.TTLSeconds)...)
		if err != nil {
			failQuery(deps.Log, w, err)
			return
		}
		hm, err := similarity.NewHeatmap(texts, table.Columns)
		if err != nil {
			httputil.Fail(deps.Log, w, "similarity failed", err, http.StatusBadGateway)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"heatmap": hm,
			"columns": table.Columns,
		})
	}
}

func tokenizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		batch, err := deps.Encoder.EncodeAll([]string{req.Text})
		if err != nil {
			httputil.Fail(deps.Log, w, "tokenization failed", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"tokens": batch[0],
			"count":  len(batch[0]),
		})
	}
}

func purgeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Embedder.Purge(r.Context()); err != nil {
			httputil.Fail(deps.Log, w, "failed to purge cache", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"purged": true})
	}
}

func ttlOption(seconds *int) []embeddings.QueryOption {
	if seconds == nil {
		return nil
	}
	return []embeddings.QueryOption{embeddings.WithTTL(time.Duration(*seconds) * time.Second)}
}

// failQuery maps executor errors onto HTTP statuses. Anything the upstream
// did wrong is a 502; the request itself was fine.
func failQuery(log *slog.Logger, w http.ResponseWriter, err error) {
	var statusErr *connection.StatusError
	switch {
	case errors.Is(err, embeddings.ErrEmptyQuery):
		httputil.Fail(log, w, "query has no input items", err, http.StatusBadRequest)
	case errors.Is(err, embeddings.ErrParse):
		httputil.Fail(log, w, "unexpected embeddings response", err, http.StatusBadGateway)
	case errors.As(err, &statusErr):
		httputil.Fail(log, w, fmt.Sprintf("embeddings API returned %d", statusErr.Code), err, http.StatusBadGateway)
	case errors.Is(err, context.DeadlineExceeded):
		httputil.Fail(log, w, "embeddings request timed out", err, http.StatusGatewayTimeout)
	default:
		httputil.Fail(log, w, "embeddings request failed", err, http.StatusBadGateway)
	}
}

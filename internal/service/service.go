package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"vetgate/internal/analyzers"
	"vetgate/internal/logging"
	"vetgate/internal/report"
)

// ReviewFunc runs one review over a resolved change-set.
type ReviewFunc func(ctx context.Context, in analyzers.Input) (*report.Report, error)

// DiffFetcher resolves a pull-request reference into its unified diff.
type DiffFetcher interface {
	PRDiff(ctx context.Context, owner, repo string, number int) (string, error)
}

// Server wraps the pipeline behind an HTTP handler.
type Server struct {
	review ReviewFunc
	fetch  DiffFetcher
	log    *slog.Logger
}

// New builds a Server. fetch may be nil; requests referencing a PR are then
// rejected.
func New(review ReviewFunc, fetch DiffFetcher) *Server {
	return &Server{
		review: review,
		fetch:  fetch,
		log:    logging.New("service"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /review", s.handleReview)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

type reviewRequest struct {
	Diff  string `json:"diff"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	PR    int    `json:"pr"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	diff := req.Diff
	if diff == "" && req.Repo != "" && req.PR > 0 {
		if s.fetch == nil {
			httpError(w, http.StatusBadRequest, "PR review is not configured on this server")
			return
		}
		var err error
		diff, err = s.fetch.PRDiff(r.Context(), req.Owner, req.Repo, req.PR)
		if err != nil {
			httpError(w, http.StatusBadGateway, "fetching PR diff: %v", err)
			return
		}
	}
	if diff == "" {
		httpError(w, http.StatusBadRequest, "request must carry a diff or a PR reference")
		return
	}

	rep, err := s.review(r.Context(), analyzers.Input{Diff: diff, Mode: "diff"})
	if err != nil {
		s.log.Error("review failed", "error", err)
		httpError(w, http.StatusInternalServerError, "review failed: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		s.log.Error("encoding response failed", "error", err)
	}
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf(format, args...),
	})
}

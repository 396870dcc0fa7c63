// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/poiesic/libris/core"
	"github.com/poiesic/libris/recommend"
	"github.com/poiesic/libris/storage"
)

const (
	// DefaultFeedbackLimit is the number of feedback records listed by default.
	DefaultFeedbackLimit = 20

	// MaxFeedbackLimit caps the limit query parameter.
	MaxFeedbackLimit = 100

	maxBodyBytes = 1 << 20
)

// Recommender produces recommendations for a request.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*core.Result, error)
}

// Server serves the HTTP API.
type Server struct {
	recommender Recommender
	profiles    storage.ProfileRepository
	logger      *slog.Logger
}

// NewServer creates a server. A nil logger uses slog.Default().
func NewServer(recommender Recommender, profiles storage.ProfileRepository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		recommender: recommender,
		profiles:    profiles,
		logger:      logger.With("component", "api"),
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(2 * time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Post("/recommendations", s.handleRecommend)
		r.Post("/recommendation-feedback", s.handleAddFeedback)
		r.Get("/recommendation-feedback", s.handleListFeedback)
	})
	return r
}

type recommendRequest struct {
	Query    string                `json:"query"`
	UserID   string                `json:"userId"`
	Feedback *core.SessionFeedback `json:"feedback"`
}

type recommendResponse struct {
	Recommendations []core.Recommendation `json:"recommendations"`
	Total           int                   `json:"total"`
	Strategy        string                `json:"strategy,omitempty"`
	Fallback        bool                  `json:"fallback,omitempty"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.recommender.Recommend(r.Context(), recommend.Request{
		UserID:   req.UserID,
		Query:    req.Query,
		Feedback: req.Feedback,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, recommendResponse{
		Recommendations: result.Recommendations,
		Total:           result.Total,
		Strategy:        result.Strategy,
		Fallback:        result.Fallback,
	})
}

type feedbackRequest struct {
	UserID           string         `json:"userId"`
	Query            string         `json:"query"`
	Sentiment        core.Sentiment `json:"feedback"`
	Reasons          []string       `json:"reasons"`
	CustomFeedback   string         `json:"customFeedback"`
	RecommendedBooks []string       `json:"recommendedBooks"`
}

func (s *Server) handleAddFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decode(w, r, &req) {
		return
	}

	record := &core.FeedbackRecord{
		Query:            req.Query,
		Sentiment:        req.Sentiment,
		Reasons:          req.Reasons,
		CustomFeedback:   req.CustomFeedback,
		RecommendedBooks: req.RecommendedBooks,
	}
	if err := s.profiles.AddFeedback(r.Context(), userID(req.UserID), record); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, record)
}

type feedbackList struct {
	Feedback []core.FeedbackRecord `json:"feedback"`
	Total    int                   `json:"total"`
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	limit := DefaultFeedbackLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.respondJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, MaxFeedbackLimit)
	}

	records, err := s.profiles.GetRecentFeedback(r.Context(), userID(r.URL.Query().Get("userId")), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if records == nil {
		records = []core.FeedbackRecord{}
	}
	s.respondJSON(w, http.StatusOK, feedbackList{Feedback: records, Total: len(records)})
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

// respondError maps err onto a status code. Validation messages are shown
// to the client; anything else is logged and answered generically.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrValidation) {
		s.respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	s.logger.Error("request failed", "err", err)
	s.respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write response", "err", err)
	}
}

func userID(id string) string {
	if id == "" {
		return core.DefaultUserID
	}
	return id
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/moodmatch/internal/analyzer"
	"github.com/MikeSquared-Agency/moodmatch/internal/catalog"
	"github.com/MikeSquared-Agency/moodmatch/internal/events"
	"github.com/MikeSquared-Agency/moodmatch/internal/feedback"
	"github.com/MikeSquared-Agency/moodmatch/internal/media"
	"github.com/MikeSquared-Agency/moodmatch/internal/metrics"
	"github.com/MikeSquared-Agency/moodmatch/internal/recommend"
	"github.com/MikeSquared-Agency/moodmatch/internal/refinement"
	"github.com/MikeSquared-Agency/moodmatch/internal/session"
)

// Search statuses.
const (
	StatusOK         = "ok"
	StatusNoResults  = "no_results"
	StatusBlocked    = "blocked"
	StatusSuperseded = "superseded"
	StatusError      = "error"
)

const noResultsMessage = "No results found. Try adding more descriptive terms."

type searchRequest struct {
	Prompt    string `json:"prompt" validate:"max=1000"`
	MediaType string `json:"media_type"`
	SessionID string `json:"session_id" validate:"omitempty,max=128"`
	// Refine is a fragment chained onto the prompt, or onto the session's
	// last prompt when Prompt is empty.
	Refine string `json:"refine" validate:"omitempty,max=200"`
}

type searchResponse struct {
	Status           string               `json:"status"`
	Message          string               `json:"message,omitempty"`
	Prompt           string               `json:"prompt"`
	MediaType        media.Type           `json:"media_type"`
	SessionID        string               `json:"session_id"`
	Sequence         uint64               `json:"sequence"`
	FallbackUsed     bool                 `json:"fallback_used"`
	AnalyzerFallback bool                 `json:"analyzer_fallback"`
	Attributes       *analyzer.Attributes `json:"attributes,omitempty"`
	Items            []media.Item         `json:"items"`
}

type feedbackRequest struct {
	Action    string     `json:"action" validate:"required"`
	MediaType string     `json:"media_type"`
	SessionID string     `json:"session_id" validate:"omitempty,max=128"`
	Item      media.Item `json:"item"`
}

// searchRun is one pipeline invocation on behalf of a session.
type searchRun struct {
	sessionID string
	prompt    string
	mediaType media.Type
	exclude   func(media.Item) bool
	refined   bool
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mt, err := media.ParseType(req.MediaType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sid := session.ResolveID(req.SessionID)
	prompt := strings.TrimSpace(req.Prompt)
	refined := strings.TrimSpace(req.Refine) != ""
	if refined {
		base := prompt
		if base == "" {
			base = s.deps.Sessions.LastPrompt(sid)
		}
		prompt = refinement.Apply(base, req.Refine)
	}

	s.run(w, r, searchRun{sessionID: sid, prompt: prompt, mediaType: mt, refined: refined})
}

func (s *Server) feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	action, err := feedback.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mt, err := media.ParseType(req.MediaType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.RecordFeedback(string(mt), string(action))
	s.deps.Events.Feedback(events.FeedbackReceived{
		MediaType:  string(mt),
		Action:     string(action),
		ItemSource: req.Item.Source,
		ItemID:     req.Item.ID,
		ItemTitle:  req.Item.Title,
	})

	if action == feedback.Info {
		writeJSON(w, http.StatusOK, map[string]any{
			"status": "info",
			"info":   feedback.Summarize(req.Item),
		})
		return
	}

	sid := session.ResolveID(req.SessionID)
	run := searchRun{
		sessionID: sid,
		prompt:    feedback.ToPrompt(action, req.Item, s.deps.Sessions.LastPrompt(sid)),
		mediaType: mt,
		refined:   true,
	}
	if action == feedback.Dislike {
		run.exclude = feedback.Excluder(req.Item)
	}
	s.run(w, r, run)
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, run searchRun) {
	if run.prompt == "" {
		writeError(w, http.StatusBadRequest, recommend.ErrEmptyPrompt.Error())
		return
	}

	seq := s.deps.Sessions.Begin(run.sessionID)
	ctx, cancel := context.WithTimeout(r.Context(), s.opts.SearchTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.deps.Recommender.Recommend(ctx, recommend.Request{
		Prompt:    run.prompt,
		MediaType: run.mediaType,
		Exclude:   run.exclude,
	})
	if errors.Is(err, recommend.ErrEmptyPrompt) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := searchResponse{
		Prompt:    run.prompt,
		MediaType: run.mediaType,
		SessionID: run.sessionID,
		Sequence:  seq,
		Items:     []media.Item{},
	}

	switch {
	case err != nil:
		s.logger.Error("search failed", "session_id", run.sessionID, "media_type", run.mediaType, "error", err)
		s.recordSearch(run, StatusError, nil, start)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("failed to get %s recommendations", typeLabel(run.mediaType)))
		return

	case res.Blocked:
		if !s.deps.Sessions.Current(run.sessionID, seq) {
			s.superseded(w, run, resp, start)
			return
		}
		resp.Status = StatusBlocked
		resp.Message = catalog.BlockedMessage

	default:
		if !s.deps.Sessions.Commit(run.sessionID, seq, run.prompt) {
			s.superseded(w, run, resp, start)
			return
		}
		resp.Items = res.Items
		resp.FallbackUsed = res.FallbackUsed
		resp.AnalyzerFallback = res.AnalyzerFallback
		attrs := res.Attributes
		resp.Attributes = &attrs
		resp.Status = StatusOK
		if res.Empty() {
			resp.Status = StatusNoResults
			resp.Message = noResultsMessage
		}
	}

	s.recordSearch(run, resp.Status, res, start)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) superseded(w http.ResponseWriter, run searchRun, resp searchResponse, start time.Time) {
	s.logger.Info("dropping superseded search", "session_id", run.sessionID, "sequence", resp.Sequence)
	resp.Status = StatusSuperseded
	resp.Message = "a newer search replaced this one"
	s.recordSearch(run, StatusSuperseded, nil, start)
	writeJSON(w, http.StatusConflict, resp)
}

func (s *Server) recordSearch(run searchRun, status string, res *recommend.Result, start time.Time) {
	metrics.RecordSearch(string(run.mediaType), status)

	ev := events.SearchCompleted{
		MediaType:  string(run.mediaType),
		Status:     status,
		Refined:    run.refined,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if res != nil {
		ev.ItemCount = len(res.Items)
		ev.FallbackUsed = res.FallbackUsed
		ev.AnalyzerFallback = res.AnalyzerFallback
	}
	s.deps.Events.Search(ev)
}

func typeLabel(t media.Type) string {
	switch t {
	case media.Show:
		return "TV show"
	case media.Anime:
		return "anime"
	}
	return "movie"
}

// ABOUTME: Route handlers for the journal HTTP API.
// ABOUTME: Decodes requests, calls the journal and search services, and encodes JSON responses.
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2389-research/private-journal/internal/models"
	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

const defaultRecentDays = 30

// WriteRequest is the body of POST /entries.
type WriteRequest struct {
	Content *string `json:"content"`
}

// WriteResponse reports both outcomes of a write.
type WriteResponse struct {
	Path          string `json:"path"`
	EmbeddingPath string `json:"embedding_path,omitempty"`
	Indexed       bool   `json:"indexed"`
	IndexError    string `json:"index_error,omitempty"`
}

// ResultsResponse wraps search and recency results.
type ResultsResponse struct {
	Results []models.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

func (s *Server) handleWriteEntry(w http.ResponseWriter, r *http.Request) {
	var req WriteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Content == nil {
		writeError(w, http.StatusBadRequest, codeValidation, "content is required")
		return
	}

	res, err := s.journal.WriteEntry(r.Context(), *req.Content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWriteResponse(res))
}

func (s *Server) handleWriteThoughts(w http.ResponseWriter, r *http.Request) {
	var thoughts models.Thoughts
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&thoughts); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.journal.WriteThoughts(r.Context(), thoughts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWriteResponse(res))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.parseOptions(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	if v := q.Get("min_score"); v != "" {
		score, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeValidation, "invalid min_score: "+v)
			return
		}
		opts.MinScore = search.MinScore(score)
	}

	results, err := s.search.Search(r.Context(), q.Get("q"), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultsResponse{Results: results, Count: len(results)})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("days") == "" && q.Get("since") == "" {
		q.Set("days", strconv.Itoa(defaultRecentDays))
	}
	opts, err := s.parseOptions(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	results, err := s.search.ListRecent(r.Context(), opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultsResponse{Results: results, Count: len(results)})
}

func (s *Server) handleReadEntry(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "path is required")
		return
	}

	content, err := s.search.ReadEntry(path)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"root":   s.journal.Root(),
	})
}

// parseOptions reads limit, sections, days, since, and until.
func (s *Server) parseOptions(q url.Values) (search.Options, error) {
	var opts search.Options

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid limit: %s", v)
		}
		opts.Limit = n
	}

	for _, v := range q["sections"] {
		for _, section := range strings.Split(v, ",") {
			if section = strings.TrimSpace(section); section != "" {
				opts.Sections = append(opts.Sections, section)
			}
		}
	}

	var dr search.DateRange
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid days: %s", v)
		}
		if r := search.LastDays(s.now(), n); r != nil {
			dr = *r
		}
	}
	if v := q.Get("since"); v != "" {
		t, err := parseTime(v, false)
		if err != nil {
			return opts, fmt.Errorf("invalid since: %s", v)
		}
		dr.Start = t
	}
	if v := q.Get("until"); v != "" {
		t, err := parseTime(v, true)
		if err != nil {
			return opts, fmt.Errorf("invalid until: %s", v)
		}
		dr.End = t
	}
	if !dr.Start.IsZero() || !dr.End.IsZero() {
		opts.DateRange = &dr
	}
	return opts, nil
}

// parseTime accepts RFC 3339 or a bare local date. A bare date used as an
// upper bound covers the whole day.
func parseTime(v string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(models.DayLayout, v, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
	}
	return t, nil
}

func toWriteResponse(res *storage.WriteResult) WriteResponse {
	resp := WriteResponse{
		Path:          res.Path,
		EmbeddingPath: res.EmbeddingPath,
		Indexed:       res.Indexed,
	}
	if res.IndexErr != nil {
		resp.IndexError = res.IndexErr.Error()
	}
	return resp
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/xfce0/timedesk/internal/model"
	"github.com/xfce0/timedesk/internal/timetrack"
)

// Server provides the HTTP API for timedesk.
type Server struct {
	service *Service
	addr    string
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, addr string) *Server {
	return &Server{
		service: service,
		addr:    addr,
	}
}

// Handler builds the route mux. Split out so tests can drive it through
// httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/projects", s.handleProjects)
	mux.HandleFunc("/projects/", s.handleProjectByID)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Starting timedesk API on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleProjects handles POST /projects and GET /projects
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projects, err := s.service.ListProjects()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, projects)
	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		p, err := s.service.CreateProject(req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleProjectByID handles /projects/{id}/*
func (s *Server) handleProjectByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/projects/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "project id required", http.StatusBadRequest)
		return
	}
	projectID := parts[0]

	var rest string
	if len(parts) > 1 {
		rest = strings.Join(parts[1:], "/")
	}

	switch {
	case rest == "entries" && r.Method == http.MethodGet:
		s.listEntries(w, r, projectID)
	case rest == "entries" && r.Method == http.MethodPost:
		s.createEntry(w, r, projectID)
	case strings.HasPrefix(rest, "entries/") && r.Method == http.MethodDelete:
		s.deleteEntry(w, r, projectID, strings.TrimPrefix(rest, "entries/"))
	case rest == "timer" && r.Method == http.MethodGet:
		s.getTimer(w, r, projectID)
	case rest == "timer/start" && r.Method == http.MethodPost:
		s.startTimer(w, r, projectID)
	case rest == "timer/stop" && r.Method == http.MethodPost:
		s.stopTimer(w, r, projectID)
	case rest == "stats" && r.Method == http.MethodGet:
		s.getStats(w, r, projectID)
	case rest == "export.csv" && r.Method == http.MethodGet:
		s.exportCSV(w, r, projectID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request, projectID string) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entries, err := s.service.Entries(projectID, criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type entryRequest struct {
	model.TimerDraft
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request, projectID string) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	entry, err := s.service.CreateEntry(projectID, req.TimerDraft, req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, projectID, entryID string) {
	if err := s.service.DeleteEntry(projectID, entryID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getTimer(w http.ResponseWriter, r *http.Request, projectID string) {
	timer, err := s.service.ActiveTimer(projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	if timer == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"active": true, "timer": timer})
}

func (s *Server) startTimer(w http.ResponseWriter, r *http.Request, projectID string) {
	var draft model.TimerDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	timer, err := s.service.StartTimer(projectID, draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, timer)
}

func (s *Server) stopTimer(w http.ResponseWriter, r *http.Request, projectID string) {
	entry, err := s.service.StopTimer(projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request, projectID string) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	stats, err := s.service.Stats(projectID, criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request, projectID string) {
	criteria, err := criteriaFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := s.service.ExportCSV(projectID, criteria)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="time-entries.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// criteriaFromQuery parses filter criteria from query parameters:
// q, from, to (YYYY-MM-DD), user, billable (all|billable|non-billable).
func criteriaFromQuery(r *http.Request) (timetrack.Criteria, error) {
	q := r.URL.Query()
	c := timetrack.Criteria{
		Query:    q.Get("q"),
		User:     q.Get("user"),
		Billable: timetrack.BillableFilter(q.Get("billable")),
	}

	switch c.Billable {
	case "", timetrack.BillableAll, timetrack.BillableOnly, timetrack.BillableNone:
	default:
		return c, errors.New("billable must be all, billable or non-billable")
	}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c, errors.New("from must be YYYY-MM-DD")
		}
		c.From = &t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c, errors.New("to must be YYYY-MM-DD")
		}
		c.To = &t
	}
	return c, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps engine and service errors onto HTTP statuses: timer
// conflicts to 409, validation failures to 422, missing resources to 404.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, timetrack.ErrTimerRunning), errors.Is(err, timetrack.ErrNoTimer):
		status = http.StatusConflict
	case errors.Is(err, timetrack.ErrEmptyDescription),
		errors.Is(err, timetrack.ErrInvalidDurationWindow),
		errors.Is(err, timetrack.ErrNegativeRate),
		errors.Is(err, ErrEmptyProjectName):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrEntryNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"taskcli/internal/service"
)

// FakeServer serves the tasks REST API from a FakeService.
type FakeServer struct {
	*httptest.Server

	// Service holds the state behind the API.
	Service *FakeService
}

// NewFakeServer starts a server exposing svc under /api/tasks.
// The caller must Close it.
func NewFakeServer(svc *FakeService) *FakeServer {
	s := &FakeServer{Service: svc}
	s.Server = httptest.NewServer(s.router())
	return s
}

// BaseURL returns the API root of the server.
func (s *FakeServer) BaseURL() string {
	return s.URL + apiPrefix
}

const apiPrefix = "/api/tasks"

func (s *FakeServer) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc(apiPrefix, s.listTasks).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix, s.createTask).Methods(http.MethodPost)
	r.HandleFunc(apiPrefix+"/logs", s.listLogs).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/search/{phrase}", s.searchTasks).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/{id}", s.getTask).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/{id}", s.updateTask).Methods(http.MethodPatch)
	r.HandleFunc(apiPrefix+"/{id}", s.deleteTask).Methods(http.MethodDelete)
	r.HandleFunc(apiPrefix+"/{id}/root", s.setRoot).Methods(http.MethodPatch)
	r.HandleFunc(apiPrefix+"/{id}/logs", s.listTaskLogs).Methods(http.MethodGet)
	return r
}

// upsertRequest mirrors service.TaskInput with a strictly parsed due date.
type upsertRequest struct {
	Summary     string           `json:"summary"`
	Priority    service.Priority `json:"priority"`
	Status      service.Status   `json:"status"`
	Description *string          `json:"description"`
	DueDate     time.Time        `json:"due_date"`
}

func (s *FakeServer) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	descending, _ := strconv.ParseBool(q.Get("descending_sort"))
	page, err := s.Service.ListTasks(r.Context(), service.TaskQuery{
		Take:              atoi(q.Get("take")),
		ContinuationToken: q.Get("continuation_token"),
		OrderBy:           q.Get("order_by"),
		Descending:        descending,
	})
	respond(w, page, err)
}

func (s *FakeServer) listLogs(w http.ResponseWriter, r *http.Request) {
	page, err := s.Service.ListLogs(r.Context(), logQuery(r))
	respond(w, page, err)
}

func (s *FakeServer) listTaskLogs(w http.ResponseWriter, r *http.Request) {
	page, err := s.Service.ListTaskLogs(r.Context(), mux.Vars(r)["id"], logQuery(r))
	respond(w, page, err)
}

func (s *FakeServer) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.Service.GetTaskDetails(r.Context(), mux.Vars(r)["id"])
	respond(w, task, err)
}

func (s *FakeServer) searchTasks(w http.ResponseWriter, r *http.Request) {
	page, err := s.Service.SearchTasks(r.Context(), mux.Vars(r)["phrase"])
	respond(w, page, err)
}

func (s *FakeServer) createTask(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, ErrInvalid)
		return
	}
	id, err := s.Service.Create(r.Context(), service.TaskInput(req))
	respond(w, map[string]string{"task_id": id}, err)
}

func (s *FakeServer) updateTask(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, ErrInvalid)
		return
	}
	err := s.Service.UpdateTask(r.Context(), mux.Vars(r)["id"], service.TaskInput(req))
	respondNoContent(w, err)
}

func (s *FakeServer) setRoot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RootID *string `json:"root_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, ErrInvalid)
		return
	}
	err := s.Service.SetTaskRoot(r.Context(), mux.Vars(r)["id"], req.RootID)
	respondNoContent(w, err)
}

func (s *FakeServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	err := s.Service.DeleteTask(r.Context(), mux.Vars(r)["id"])
	respondNoContent(w, err)
}

func logQuery(r *http.Request) service.LogQuery {
	q := r.URL.Query()
	descending, _ := strconv.ParseBool(q.Get("descending"))
	return service.LogQuery{
		Take:              atoi(q.Get("take")),
		ContinuationToken: q.Get("continuation_token"),
		Descending:        descending,
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func respondNoContent(w http.ResponseWriter, err error) {
	if err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail writes the error envelope used by the real API.
func fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "fail", "message": "Task not found"})
	case errors.Is(err, ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "fail", "message": "Invalid input"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

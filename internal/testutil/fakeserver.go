// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/yuchan1120/task-manager-cli/internal/models"
)

// FakeServer is an in-memory stand-in for the task service, mounted behind
// httptest.NewServer in tests. It implements every /api route, checks the
// bearer token, counts requests per route, and can force error statuses.
type FakeServer struct {
	mu sync.Mutex

	// Accepted credentials and the token issued for them.
	Username string
	Password string
	Token    string

	Tasks []models.Task
	Tags  []models.Tag

	nextTaskID int64
	nextTagID  int64

	calls map[string]int
	fail  map[string]int
}

// NewFakeServer creates a FakeServer with default credentials.
func NewFakeServer() *FakeServer {
	return &FakeServer{
		Username:   "alice",
		Password:   "secret",
		Token:      "test-token",
		nextTaskID: 1,
		nextTagID:  1,
		calls:      make(map[string]int),
		fail:       make(map[string]int),
	}
}

// AddTask seeds a task, assigning an id when the task has none, and returns
// the stored record.
func (f *FakeServer) AddTask(task models.Task) models.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == 0 {
		task.ID = f.nextTaskID
		f.nextTaskID++
	} else if task.ID >= f.nextTaskID {
		f.nextTaskID = task.ID + 1
	}
	f.Tasks = append(f.Tasks, task)
	return task
}

// AddTag seeds a tag, assigning an id when the tag has none.
func (f *FakeServer) AddTag(tag models.Tag) models.Tag {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tag.ID == 0 {
		tag.ID = f.nextTagID
		f.nextTagID++
	} else if tag.ID >= f.nextTagID {
		f.nextTagID = tag.ID + 1
	}
	f.Tags = append(f.Tags, tag)
	return tag
}

// CallCount returns how many times the route was hit, keyed like
// "GET /api/tasks". Forced failures count as hits.
func (f *FakeServer) CallCount(method, pathTemplate string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+pathTemplate]
}

// TotalCalls returns the number of requests handled across all routes.
func (f *FakeServer) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// ForceStatus makes the route answer with the given status code instead of
// its normal behavior. A code of 0 restores normal behavior.
func (f *FakeServer) ForceStatus(method, pathTemplate string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if code == 0 {
		delete(f.fail, method+" "+pathTemplate)
		return
	}
	f.fail[method+" "+pathTemplate] = code
}

// Handler returns the fake service's HTTP handler.
func (f *FakeServer) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.Handle("/auth/login", f.instrument(http.HandlerFunc(f.handleLogin))).Methods(http.MethodPost)

	// instrument must run where the leaf route is matched so it sees the
	// full path template.
	authed := api.NewRoute().Subrouter()
	authed.Use(f.instrument, f.requireAuth)
	authed.HandleFunc("/auth/validate", f.handleValidate).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", f.handleListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", f.handleCreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id}/toggle", f.handleToggleTask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{id}", f.handleUpdateTask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{id}", f.handleDeleteTask).Methods(http.MethodDelete)
	authed.HandleFunc("/tags", f.handleListTags).Methods(http.MethodGet)
	authed.HandleFunc("/tags", f.handleCreateTag).Methods(http.MethodPost)
	authed.HandleFunc("/tags/{id}", f.handleUpdateTag).Methods(http.MethodPut)
	authed.HandleFunc("/tags/{id}", f.handleDeleteTag).Methods(http.MethodDelete)

	return r
}

// instrument counts the request and applies any forced status.
func (f *FakeServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		template, err := mux.CurrentRoute(r).GetPathTemplate()
		if err != nil {
			template = r.URL.Path
		}
		key := r.Method + " " + template

		f.mu.Lock()
		f.calls[key]++
		forced := f.fail[key]
		f.mu.Unlock()

		if forced != 0 {
			writeError(w, forced, "forced failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests whose bearer token doesn't match.
func (f *FakeServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.Token {
			writeError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "malformed login payload")
		return
	}
	if creds.Username != f.Username || creds.Password != f.Password {
		writeError(w, http.StatusUnauthorized, "bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: f.Token})
}

func (f *FakeServer) handleValidate(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeServer) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	tasks := make([]models.Task, len(f.Tasks))
	copy(tasks, f.Tasks)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, tasks)
}

func (f *FakeServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var newTask models.NewTask
	if err := json.NewDecoder(r.Body).Decode(&newTask); err != nil {
		writeError(w, http.StatusBadRequest, "malformed task payload")
		return
	}
	f.mu.Lock()
	task := models.Task{
		ID:          f.nextTaskID,
		Title:       newTask.Title,
		Description: newTask.Description,
		Completed:   newTask.Completed,
		DueDate:     newTask.DueDate,
		TagIDs:      newTask.TagIDs,
	}
	f.nextTaskID++
	f.Tasks = append(f.Tasks, task)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, task)
}

func (f *FakeServer) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			f.Tasks[i].Completed = !f.Tasks[i].Completed
			writeJSON(w, http.StatusOK, f.Tasks[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func (f *FakeServer) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch models.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "malformed patch payload")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tasks {
		if f.Tasks[i].ID != id {
			continue
		}
		if patch.Title != nil {
			f.Tasks[i].Title = *patch.Title
		}
		if patch.Description != nil {
			f.Tasks[i].Description = *patch.Description
		}
		if patch.Completed != nil {
			f.Tasks[i].Completed = *patch.Completed
		}
		if patch.DueDate != nil {
			f.Tasks[i].DueDate = patch.DueDate
		}
		if patch.TagIDs != nil {
			f.Tasks[i].TagIDs = *patch.TagIDs
		}
		writeJSON(w, http.StatusOK, f.Tasks[i])
		return
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func (f *FakeServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tasks {
		if f.Tasks[i].ID == id {
			f.Tasks = append(f.Tasks[:i], f.Tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func (f *FakeServer) handleListTags(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	tags := make([]models.Tag, len(f.Tags))
	copy(tags, f.Tags)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, tags)
}

func (f *FakeServer) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed tag payload")
		return
	}
	f.mu.Lock()
	tag := models.Tag{ID: f.nextTagID, Name: body.Name}
	f.nextTagID++
	f.Tags = append(f.Tags, tag)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, tag)
}

func (f *FakeServer) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed tag payload")
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tags {
		if f.Tags[i].ID == id {
			f.Tags[i].Name = body.Name
			writeJSON(w, http.StatusOK, f.Tags[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "tag not found")
}

func (f *FakeServer) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tags {
		if f.Tags[i].ID == id {
			f.Tags = append(f.Tags[:i], f.Tags[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "tag not found")
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/dmitrijs2005/taskkeeper/internal/server/validation"
)

const msgTaskNotFound = "Task not found"

// todoRequest keeps completed as a number: only 0 and 1 are accepted.
type todoRequest struct {
	Task      *string `json:"task"`
	Completed *int    `json:"completed"`
}

type addTodoResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type patchTodoResponse struct {
	Message string   `json:"message"`
	Updated todoView `json:"updated"`
}

func completedFlag(v *int) (value bool, ok bool) {
	if v == nil {
		return false, true
	}
	switch *v {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

func todoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeTodo reads a body where task is required.
func decodeTodo(w http.ResponseWriter, r *http.Request) (string, bool, bool) {
	var req todoRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Task == nil || *req.Task == "" {
		return "", false, false
	}
	completed, ok := completedFlag(req.Completed)
	if !ok {
		return "", false, false
	}
	return *req.Task, completed, true
}

func (s *HTTPServer) listTodos(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	todos, err := s.deps.Todos.List(r.Context(), identity.ID)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	views := make([]todoView, 0, len(todos))
	for _, t := range todos {
		views = append(views, newTodoView(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"todos": views})
}

func (s *HTTPServer) addTodo(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	task, completed, ok := decodeTodo(w, r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, validation.MsgTaskInvalid)
		return
	}

	todo, err := s.deps.Todos.Add(r.Context(), identity.ID, task, completed)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusCreated, addTodoResponse{Message: "Task added successfully", ID: todo.ID})
}

func (s *HTTPServer) replaceTodo(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, ok := todoID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}
	task, completed, ok := decodeTodo(w, r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, validation.MsgTaskInvalid)
		return
	}

	if _, err := s.deps.Todos.Replace(r.Context(), identity.ID, id, task, completed); err != nil {
		s.writeError(w, r, err, msgTaskNotFound)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task updated successfully"})
}

func (s *HTTPServer) patchTodo(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, ok := todoID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req todoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, validation.MsgTaskInvalid)
		return
	}
	patch := services.TodoPatch{Task: req.Task}
	if req.Completed != nil {
		completed, ok := completedFlag(req.Completed)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, validation.MsgTaskInvalid)
			return
		}
		patch.Completed = &completed
	}

	todo, err := s.deps.Todos.Patch(r.Context(), identity.ID, id, patch)
	if err != nil {
		s.writeError(w, r, err, msgTaskNotFound)
		return
	}

	writeJSON(w, http.StatusOK, patchTodoResponse{Message: "Task updated successfully", Updated: newTodoView(todo)})
}

func (s *HTTPServer) deleteTodo(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, ok := todoID(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := s.deps.Todos.Delete(r.Context(), identity.ID, id); err != nil {
		s.writeError(w, r, err, msgTaskNotFound)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

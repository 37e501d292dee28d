package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/service"
)

func (h *Handler) projectRoutes(r *mux.Router) {
	r.HandleFunc("/projects", h.ListProjects).Methods(http.MethodGet).Name("projects.list")
	r.HandleFunc("/projects", h.CreateProject).Methods(http.MethodPost).Name("projects.create")
	r.HandleFunc("/me/projects", h.ListMyProjects).Methods(http.MethodGet).Name("projects.mine")
	r.HandleFunc("/projects/{slug}", h.GetProject).Methods(http.MethodGet).Name("projects.get")
	r.HandleFunc("/projects/{slug}", h.UpdateProject).Methods(http.MethodPatch).Name("projects.update")
	r.HandleFunc("/projects/{slug}", h.DeleteProject).Methods(http.MethodDelete).Name("projects.delete")
	r.HandleFunc("/projects/{slug}/members", h.ListProjectMembers).Methods(http.MethodGet).Name("projects.members")
	r.HandleFunc("/projects/{slug}/members", h.AddProjectMember).Methods(http.MethodPost).Name("projects.members.add")
	r.HandleFunc("/projects/{slug}/members/{userID}", h.RemoveProjectMember).Methods(http.MethodDelete).Name("projects.members.remove")
	r.HandleFunc("/projects/{slug}/away", h.SetAway).Methods(http.MethodPut).Name("projects.away")

	r.HandleFunc("/projects/{slug}/tasks", h.ListTasks).Methods(http.MethodGet).Name("tasks.list")
	r.HandleFunc("/projects/{slug}/tasks", h.CreateTask).Methods(http.MethodPost).Name("tasks.create")
	r.HandleFunc("/tasks/{id}", h.GetTask).Methods(http.MethodGet).Name("tasks.get")
	r.HandleFunc("/tasks/{id}/assignee", h.AssignTask).Methods(http.MethodPut).Name("tasks.assign")
	r.HandleFunc("/tasks/{id}/transitions", h.TaskTransitions).Methods(http.MethodGet).Name("tasks.transitions")
	r.HandleFunc("/tasks/{id}/state", h.ChangeTaskState).Methods(http.MethodPost).Name("tasks.state")
	r.HandleFunc("/tasks/{id}/history", h.TaskHistory).Methods(http.MethodGet).Name("tasks.history")
	r.HandleFunc("/tasks/{id}/tags", h.SetTaskTags).Methods(http.MethodPut).Name("tasks.tags")
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, total, err := h.svc.Projects.ListProjects(r.Context(), userID(r), r.URL.Query().Get("q"), queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[domain.Project]{Items: emptyIfNil(projects), Total: total})
}

func (h *Handler) ListMyProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects.ListUserProjects(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(projects))
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decode(w, r, &req) {
		return
	}
	project, err := h.svc.Projects.CreateProject(r.Context(), userID(r), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.svc.Projects.GetProject(r.Context(), userID(r), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decode(w, r, &req) {
		return
	}
	project, err := h.svc.Projects.UpdateProject(r.Context(), userID(r), mux.Vars(r)["slug"], req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Projects.DeleteProject(r.Context(), userID(r), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListProjectMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Projects.ListMembers(r.Context(), userID(r), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(members))
}

func (h *Handler) AddProjectMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if !decode(w, r, &req) {
		return
	}
	member, err := h.svc.Projects.AddMember(r.Context(), userID(r), mux.Vars(r)["slug"], req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *Handler) RemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.svc.Projects.RemoveMember(r.Context(), userID(r), mux.Vars(r)["slug"], memberID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetAway(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Away    bool   `json:"away"`
		Message string `json:"message"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Projects.SetAway(r.Context(), userID(r), mux.Vars(r)["slug"], req.Away, req.Message); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var state *domain.TaskState
	if raw := q.Get("state"); raw != "" {
		s, err := domain.ParseTaskState(raw)
		if err != nil {
			badRequest(w, "%v", err)
			return
		}
		state = &s
	}
	var assignee *int32
	if raw := q.Get("assignee"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			badRequest(w, "invalid assignee %q", raw)
			return
		}
		v := int32(id)
		assignee = &v
	}

	tasks, err := h.svc.Tasks.ListTasks(r.Context(), userID(r), mux.Vars(r)["slug"], state, assignee)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(tasks))
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Summary    string `json:"summary"`
		Detail     string `json:"detail"`
		AssigneeID *int32 `json:"assignee_id"`
		Tags       string `json:"tags"`
	}
	if !decode(w, r, &req) {
		return
	}
	task, err := h.svc.Tasks.CreateTask(r.Context(), userID(r), mux.Vars(r)["slug"], service.TaskInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	task, err := h.svc.Tasks.GetTask(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) AssignTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		AssigneeID *int32 `json:"assignee_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	task, err := h.svc.Tasks.AssignTask(r.Context(), userID(r), id, req.AssigneeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type transitionView struct {
	To    string `json:"to"`
	Label string `json:"label"`
}

func (h *Handler) TaskTransitions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	transitions, err := h.svc.Tasks.AvailableTransitions(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]transitionView, 0, len(transitions))
	for _, tr := range transitions {
		out = append(out, transitionView{To: tr.To.String(), Label: tr.Label})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ChangeTaskState(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		State   string `json:"state"`
		Comment string `json:"comment"`
	}
	if !decode(w, r, &req) {
		return
	}
	to, err := domain.ParseTaskState(req.State)
	if err != nil {
		badRequest(w, "%v", err)
		return
	}
	task, err := h.svc.Tasks.ChangeTaskState(r.Context(), userID(r), id, to, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *Handler) TaskHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	changes, err := h.svc.Tasks.TaskHistory(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(changes))
}

func (h *Handler) SetTaskTags(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Tags string `json:"tags"`
	}
	if !decode(w, r, &req) {
		return
	}
	task, err := h.svc.Tasks.SetTaskTags(r.Context(), userID(r), id, req.Tags)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

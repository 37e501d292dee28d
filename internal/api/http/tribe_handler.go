package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/service"
)

type groupRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

func (g groupRequest) input() service.GroupInput {
	return service.GroupInput{Slug: g.Slug, Name: g.Name, Description: g.Description, Private: g.Private}
}

func (h *Handler) tribeRoutes(r *mux.Router) {
	r.HandleFunc("/tribes", h.ListTribes).Methods(http.MethodGet).Name("tribes.list")
	r.HandleFunc("/tribes", h.CreateTribe).Methods(http.MethodPost).Name("tribes.create")
	r.HandleFunc("/me/tribes", h.ListMyTribes).Methods(http.MethodGet).Name("tribes.mine")
	r.HandleFunc("/tribes/{slug}", h.GetTribe).Methods(http.MethodGet).Name("tribes.get")
	r.HandleFunc("/tribes/{slug}", h.UpdateTribe).Methods(http.MethodPatch).Name("tribes.update")
	r.HandleFunc("/tribes/{slug}", h.DeleteTribe).Methods(http.MethodDelete).Name("tribes.delete")
	r.HandleFunc("/tribes/{slug}/join", h.JoinTribe).Methods(http.MethodPost).Name("tribes.join")
	r.HandleFunc("/tribes/{slug}/leave", h.LeaveTribe).Methods(http.MethodPost).Name("tribes.leave")
	r.HandleFunc("/tribes/{slug}/members", h.ListTribeMembers).Methods(http.MethodGet).Name("tribes.members")

	r.HandleFunc("/{group:tribes|projects}/{slug}/topics", h.ListTopics).Methods(http.MethodGet).Name("topics.list")
	r.HandleFunc("/{group:tribes|projects}/{slug}/topics", h.CreateTopic).Methods(http.MethodPost).Name("topics.create")
	r.HandleFunc("/topics/{id}", h.GetTopic).Methods(http.MethodGet).Name("topics.get")
	r.HandleFunc("/topics/{id}", h.UpdateTopic).Methods(http.MethodPatch).Name("topics.update")
	r.HandleFunc("/topics/{id}", h.DeleteTopic).Methods(http.MethodDelete).Name("topics.delete")
}

// groupType maps the {group} path segment to the domain group type
func groupType(r *http.Request) domain.GroupType {
	if mux.Vars(r)["group"] == "projects" {
		return domain.GroupTypeProject
	}
	return domain.GroupTypeTribe
}

func (h *Handler) ListTribes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tribes, total, err := h.svc.Tribes.ListTribes(r.Context(), q.Get("q"), queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[domain.Tribe]{Items: emptyIfNil(tribes), Total: total})
}

func (h *Handler) ListMyTribes(w http.ResponseWriter, r *http.Request) {
	tribes, err := h.svc.Tribes.ListUserTribes(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(tribes))
}

func (h *Handler) CreateTribe(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decode(w, r, &req) {
		return
	}
	tribe, err := h.svc.Tribes.CreateTribe(r.Context(), userID(r), req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tribe)
}

func (h *Handler) GetTribe(w http.ResponseWriter, r *http.Request) {
	tribe, err := h.svc.Tribes.GetTribe(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tribe)
}

func (h *Handler) UpdateTribe(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if !decode(w, r, &req) {
		return
	}
	tribe, err := h.svc.Tribes.UpdateTribe(r.Context(), userID(r), mux.Vars(r)["slug"], req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tribe)
}

func (h *Handler) DeleteTribe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tribes.DeleteTribe(r.Context(), userID(r), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) JoinTribe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tribes.JoinTribe(r.Context(), userID(r), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LeaveTribe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tribes.LeaveTribe(r.Context(), userID(r), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListTribeMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Tribes.ListMembers(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(members))
}

type topicRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.Topics.ListTopics(r.Context(), userID(r), groupType(r), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(topics))
}

func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	topic, err := h.svc.Topics.CreateTopic(r.Context(), userID(r), groupType(r), mux.Vars(r)["slug"], req.Title, req.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, topic)
}

func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	topic, err := h.svc.Topics.GetTopic(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	topic, err := h.svc.Topics.UpdateTopic(r.Context(), userID(r), id, req.Title, req.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Topics.DeleteTopic(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

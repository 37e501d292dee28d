package http

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/service"
)

func (h *Handler) messageRoutes(r *mux.Router) {
	r.HandleFunc("/messages", h.ComposeMessage).Methods(http.MethodPost).Name("messages.compose")
	r.HandleFunc("/messages/inbox", h.Inbox).Methods(http.MethodGet).Name("messages.inbox")
	r.HandleFunc("/messages/outbox", h.Outbox).Methods(http.MethodGet).Name("messages.outbox")
	r.HandleFunc("/messages/trash", h.Trash).Methods(http.MethodGet).Name("messages.trash")
	r.HandleFunc("/messages/unread-count", h.UnreadCount).Methods(http.MethodGet).Name("messages.unread")
	r.HandleFunc("/messages/{id}", h.ViewMessage).Methods(http.MethodGet).Name("messages.view")
	r.HandleFunc("/messages/{id}", h.DeleteMessage).Methods(http.MethodDelete).Name("messages.delete")
	r.HandleFunc("/messages/{id}/undelete", h.UndeleteMessage).Methods(http.MethodPost).Name("messages.undelete")
	r.HandleFunc("/messages/{id}/reply", h.ReplyMessage).Methods(http.MethodPost).Name("messages.reply")
}

func writeMailbox(w http.ResponseWriter, r *http.Request, list func(ctx context.Context, userID int32) ([]domain.Message, error)) {
	messages, err := list(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(messages))
}

func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	writeMailbox(w, r, h.svc.Messages.Inbox)
}

func (h *Handler) Outbox(w http.ResponseWriter, r *http.Request) {
	writeMailbox(w, r, h.svc.Messages.Outbox)
}

func (h *Handler) Trash(w http.ResponseWriter, r *http.Request) {
	writeMailbox(w, r, h.svc.Messages.Trash)
}

func (h *Handler) ComposeMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Recipients []string `json:"recipients"`
		Subject    string   `json:"subject"`
		Body       string   `json:"body"`
		ParentID   *int32   `json:"parent_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	messages, err := h.svc.Messages.Compose(r.Context(), userID(r), service.ComposeInput(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messages)
}

func (h *Handler) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if !decode(w, r, &req) {
		return
	}
	msg, err := h.svc.Messages.Reply(r.Context(), userID(r), id, req.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) ViewMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	msg, err := h.svc.Messages.View(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Messages.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UndeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Messages.Undelete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Messages.UnreadCount(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"unread": count})
}

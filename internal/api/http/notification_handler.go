package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
)

func (h *Handler) notificationRoutes(r *mux.Router) {
	r.HandleFunc("/notices", h.ListNotices).Methods(http.MethodGet).Name("notices.list")
	r.HandleFunc("/notices/unseen-count", h.UnseenCount).Methods(http.MethodGet).Name("notices.unseen")
	r.HandleFunc("/notices/seen", h.MarkAllSeen).Methods(http.MethodPost).Name("notices.seen.all")
	r.HandleFunc("/notices/settings", h.NoticeSettings).Methods(http.MethodGet).Name("notices.settings")
	r.HandleFunc("/notices/settings", h.UpdateNoticeSetting).Methods(http.MethodPut).Name("notices.settings.update")
	r.HandleFunc("/notices/{id:[0-9]+}/seen", h.MarkSeen).Methods(http.MethodPost).Name("notices.seen")
	r.HandleFunc("/notices/{id:[0-9]+}/archive", h.ArchiveNotice).Methods(http.MethodPost).Name("notices.archive")
	r.HandleFunc("/notices/{id:[0-9]+}", h.DeleteNotice).Methods(http.MethodDelete).Name("notices.delete")
	r.HandleFunc("/devices", h.RegisterDevice).Methods(http.MethodPost).Name("devices.register")
	r.HandleFunc("/devices/{token}", h.UnregisterDevice).Methods(http.MethodDelete).Name("devices.unregister")
}

func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	unseen, _ := strconv.ParseBool(r.URL.Query().Get("unseen"))
	notices, total, err := h.svc.Notifications.List(r.Context(), userID(r), unseen, queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[domain.Notice]{Items: emptyIfNil(notices), Total: total})
}

func (h *Handler) UnseenCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Notifications.UnseenCount(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int32{"unseen": count})
}

func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Notifications.MarkSeen(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkAllSeen(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Notifications.MarkAllSeen(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": n})
}

func (h *Handler) ArchiveNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Notifications.Archive(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Notifications.Delete(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) NoticeSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Notifications.GetSettings(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(settings))
}

func (h *Handler) UpdateNoticeSetting(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NoticeType string              `json:"notice_type"`
		Medium     domain.NoticeMedium `json:"medium"`
		Send       bool                `json:"send"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Notifications.UpdateSetting(r.Context(), userID(r), req.NoticeType, req.Medium, req.Send); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Notifications.RegisterDevice(r.Context(), userID(r), req.Token, req.Platform); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UnregisterDevice(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notifications.UnregisterDevice(r.Context(), userID(r), mux.Vars(r)["token"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

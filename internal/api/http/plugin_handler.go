package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/plugins"
)

func (h *Handler) pluginRoutes(r *mux.Router) {
	r.HandleFunc("/plugins", h.ListPlugins).Methods(http.MethodGet).Name("plugins.list")
	r.HandleFunc("/plugins/points", h.ListPoints).Methods(http.MethodGet).Name("plugins.points")
	r.HandleFunc("/plugins/points/{label}/resolve", h.ResolvePoint).Methods(http.MethodGet).Name("plugins.points.resolve")
	r.HandleFunc("/plugins/points/{label}/status", h.SetPointStatus).Methods(http.MethodPut).Name("plugins.points.status")
	r.HandleFunc("/plugins/sync", h.SyncPlugins).Methods(http.MethodPost).Name("plugins.sync")
	r.HandleFunc("/plugins/{id:[0-9]+}/status", h.SetPluginStatus).Methods(http.MethodPut).Name("plugins.status")
	r.HandleFunc("/plugins/{id:[0-9]+}/preference", h.SetPluginPreference).Methods(http.MethodPut).Name("plugins.preference")
}

type statusRequest struct {
	Status domain.PluginStatus `json:"status"`
}

func (h *Handler) ListPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.svc.Plugins.ListPoints(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(points))
}

func (h *Handler) ListPlugins(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Plugins.ListPlugins(r.Context(), r.URL.Query().Get("point"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

func (h *Handler) ResolvePoint(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Plugins.ResolvePoint(r.Context(), userID(r), mux.Vars(r)["label"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(list))
}

func (h *Handler) SetPointStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	point, err := h.svc.Plugins.SetPointStatus(r.Context(), mux.Vars(r)["label"], req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, point)
}

func (h *Handler) SetPluginStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	plugin, err := h.svc.Plugins.SetPluginStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plugin)
}

func (h *Handler) SetPluginPreference(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Visible bool  `json:"visible"`
		Index   int32 `json:"index"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Plugins.SetUserPreference(r.Context(), userID(r), id, req.Visible, req.Index); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type syncResponse struct {
	*plugins.Report
	Warnings []string `json:"warnings,omitempty"`
}

func (h *Handler) SyncPlugins(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delete bool `json:"delete"`
		DryRun bool `json:"dry_run"`
	}
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	report, err := h.svc.Plugins.Sync(r.Context(), plugins.Options{Delete: req.Delete, DryRun: req.DryRun})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := syncResponse{Report: report}
	if report.DiscoveryErrors != nil {
		resp.Warnings = []string{report.DiscoveryErrors.Error()}
	}
	logger.Info("Plugin sync requested", "userID", userID(r), "dryRun", req.DryRun, "summary", report.String())
	writeJSON(w, http.StatusOK, resp)
}

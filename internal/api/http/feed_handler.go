package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) feedRoutes(r *mux.Router) {
	r.HandleFunc("/feeds", h.ListFeeds).Methods(http.MethodGet).Name("feeds.list")
	r.HandleFunc("/feeds", h.AddFeed).Methods(http.MethodPost).Name("feeds.add")
	r.HandleFunc("/feeds/stream", h.FeedStream).Methods(http.MethodGet).Name("feeds.stream")
	r.HandleFunc("/feeds/{id:[0-9]+}", h.RemoveFeed).Methods(http.MethodDelete).Name("feeds.remove")
	r.HandleFunc("/feeds/{id:[0-9]+}/refresh", h.RefreshFeed).Methods(http.MethodPost).Name("feeds.refresh")
	r.HandleFunc("/feeds/{id:[0-9]+}/entries", h.FeedEntries).Methods(http.MethodGet).Name("feeds.entries")
}

func (h *Handler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.svc.Feeds.ListFeeds(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(feeds))
}

func (h *Handler) AddFeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if !decode(w, r, &req) {
		return
	}
	feed, err := h.svc.Feeds.AddFeed(r.Context(), userID(r), req.URL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, feed)
}

func (h *Handler) RemoveFeed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Feeds.RemoveFeed(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshFeed answers 200 with the feed even when the fetch failed; the failure
// is reported in last_error.
func (h *Handler) RefreshFeed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	feed, err := h.svc.Feeds.RefreshFeed(r.Context(), userID(r), id)
	if err != nil && feed == nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *Handler) FeedEntries(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.svc.Feeds.Entries(r.Context(), id, queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(entries))
}

func (h *Handler) FeedStream(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Feeds.UserStream(r.Context(), userID(r), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(entries))
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
)

func (h *Handler) tweetRoutes(r *mux.Router) {
	r.HandleFunc("/tweets", h.PostTweet).Methods(http.MethodPost).Name("tweets.post")
	r.HandleFunc("/tweets/timeline", h.Timeline).Methods(http.MethodGet).Name("tweets.timeline")
	r.HandleFunc("/users/{username}/tweets", h.UserTweets).Methods(http.MethodGet).Name("tweets.user")
	r.HandleFunc("/users/{username}/follow", h.Follow).Methods(http.MethodPost).Name("tweets.follow")
	r.HandleFunc("/users/{username}/follow", h.Unfollow).Methods(http.MethodDelete).Name("tweets.unfollow")
	r.HandleFunc("/users/{username}/followers", h.Followers).Methods(http.MethodGet).Name("tweets.followers")
	r.HandleFunc("/users/{username}/following", h.Following).Methods(http.MethodGet).Name("tweets.following")
}

func (h *Handler) PostTweet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	tweet, err := h.svc.Tweets.Post(r.Context(), userID(r), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tweet)
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	tweets, total, err := h.svc.Tweets.Timeline(r.Context(), userID(r), queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page[domain.Tweet]{Items: emptyIfNil(tweets), Total: total})
}

func (h *Handler) UserTweets(w http.ResponseWriter, r *http.Request) {
	tweets, err := h.svc.Tweets.UserTweets(r.Context(), mux.Vars(r)["username"], queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(tweets))
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tweets.Follow(r.Context(), userID(r), mux.Vars(r)["username"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Tweets.Unfollow(r.Context(), userID(r), mux.Vars(r)["username"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Tweets.Followers(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(users))
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Tweets.Following(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(users))
}

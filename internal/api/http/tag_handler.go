package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/tagging"
)

func (h *Handler) tagRoutes(r *mux.Router) {
	r.HandleFunc("/tags/cloud", h.TagCloud).Methods(http.MethodGet).Name("tags.cloud")
	r.HandleFunc("/tags/{type}/objects", h.ObjectsWithTag).Methods(http.MethodGet).Name("tags.objects")
	r.HandleFunc("/tags/{type}/{id:[0-9]+}", h.GetTags).Methods(http.MethodGet).Name("tags.get")
	r.HandleFunc("/tags/{type}/{id:[0-9]+}", h.SetTags).Methods(http.MethodPut).Name("tags.set")
}

func (h *Handler) voteRoutes(r *mux.Router) {
	r.HandleFunc("/votes/{type}/top", h.TopObjects).Methods(http.MethodGet).Name("votes.top")
	r.HandleFunc("/votes/{type}", h.Scores).Methods(http.MethodGet).Name("votes.scores")
	r.HandleFunc("/votes/{type}/{id:[0-9]+}", h.GetScore).Methods(http.MethodGet).Name("votes.score")
	r.HandleFunc("/votes/{type}/{id:[0-9]+}", h.RecordVote).Methods(http.MethodPut).Name("votes.record")
}

// objectRef reads {type} and {id}; it writes the 400 itself
func objectRef(w http.ResponseWriter, r *http.Request) (domain.ObjectRef, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return domain.ObjectRef{}, false
	}
	return domain.ObjectRef{Type: domain.ObjectType(mux.Vars(r)["type"]), ID: id}, true
}

func (h *Handler) TagCloud(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	steps := int(queryInt(r, "steps", 0))
	cloud, err := h.svc.Tags.Cloud(r.Context(), domain.ObjectType(q.Get("type")), steps, tagging.ParseDistribution(q.Get("distribution")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(cloud))
}

func (h *Handler) ObjectsWithTag(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.Tags.ObjectsWithTag(r.Context(), domain.ObjectType(mux.Vars(r)["type"]), r.URL.Query().Get("tag"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(ids))
}

type tagsResponse struct {
	Tags []string `json:"tags"`
	Edit string   `json:"edit"`
}

func (h *Handler) GetTags(w http.ResponseWriter, r *http.Request) {
	ref, ok := objectRef(w, r)
	if !ok {
		return
	}
	tags, err := h.svc.Tags.TagsFor(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: emptyIfNil(tags), Edit: tagging.EditStringForTags(tags)})
}

func (h *Handler) SetTags(w http.ResponseWriter, r *http.Request) {
	ref, ok := objectRef(w, r)
	if !ok {
		return
	}
	var req struct {
		Tags string `json:"tags"`
	}
	if !decode(w, r, &req) {
		return
	}
	tags, err := h.svc.Tags.SetTags(r.Context(), ref, req.Tags)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tagsResponse{Tags: emptyIfNil(tags), Edit: tagging.EditStringForTags(tags)})
}

type scoreResponse struct {
	*domain.Score
	MyVote *int16 `json:"my_vote,omitempty"`
}

// GetScore returns the tally; authenticated callers also get their own vote.
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	ref, ok := objectRef(w, r)
	if !ok {
		return
	}
	score, err := h.svc.Votes.GetScore(r.Context(), ref)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := scoreResponse{Score: score}
	if id := userID(r); id != 0 {
		if vote, err := h.svc.Votes.GetVote(r.Context(), id, ref); err == nil {
			resp.MyVote = &vote.Vote
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) RecordVote(w http.ResponseWriter, r *http.Request) {
	ref, ok := objectRef(w, r)
	if !ok {
		return
	}
	var req struct {
		Direction domain.VoteDirection `json:"direction"`
	}
	if !decode(w, r, &req) {
		return
	}
	score, err := h.svc.Votes.RecordVote(r.Context(), userID(r), ref, req.Direction)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) Scores(w http.ResponseWriter, r *http.Request) {
	var ids []int32
	if raw := r.URL.Query().Get("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 32)
			if err != nil {
				badRequest(w, "invalid id %q", part)
				return
			}
			ids = append(ids, int32(id))
		}
	}
	scores, err := h.svc.Votes.ScoresFor(r.Context(), domain.ObjectType(mux.Vars(r)["type"]), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(scores))
}

func (h *Handler) TopObjects(w http.ResponseWriter, r *http.Request) {
	top, err := h.svc.Votes.TopObjects(r.Context(), domain.ObjectType(mux.Vars(r)["type"]), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(top))
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
)

func (h *Handler) friendRoutes(r *mux.Router) {
	r.HandleFunc("/friends", h.ListFriends).Methods(http.MethodGet).Name("friends.list")
	r.HandleFunc("/friends/{id}", h.RemoveFriend).Methods(http.MethodDelete).Name("friends.remove")
	r.HandleFunc("/friends/invitations", h.ListFriendInvitations).Methods(http.MethodGet).Name("friends.invitations.list")
	r.HandleFunc("/friends/invitations", h.InviteFriend).Methods(http.MethodPost).Name("friends.invitations.create")
	r.HandleFunc("/friends/invitations/{id}/accept", h.AcceptFriendInvitation).Methods(http.MethodPost).Name("friends.invitations.accept")
	r.HandleFunc("/friends/invitations/{id}/decline", h.DeclineFriendInvitation).Methods(http.MethodPost).Name("friends.invitations.decline")
	r.HandleFunc("/join-invitations", h.ListJoinInvitations).Methods(http.MethodGet).Name("friends.join.list")
	r.HandleFunc("/join-invitations", h.InviteToJoin).Methods(http.MethodPost).Name("friends.join.create")
}

func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	friends, err := h.svc.Friends.ListFriends(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(friends))
}

func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Friends.RemoveFriend(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFriendInvitations(w http.ResponseWriter, r *http.Request) {
	received, sent, err := h.svc.Friends.ListInvitations(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Received []domain.FriendshipInvitation `json:"received"`
		Sent     []domain.FriendshipInvitation `json:"sent"`
	}{emptyIfNil(received), emptyIfNil(sent)})
}

func (h *Handler) InviteFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ToUserID int32  `json:"to_user_id"`
		Message  string `json:"message"`
	}
	if !decode(w, r, &req) {
		return
	}
	inv, err := h.svc.Friends.InviteFriend(r.Context(), userID(r), req.ToUserID, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *Handler) AcceptFriendInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Friends.AcceptInvitation(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeclineFriendInvitation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Friends.DeclineInvitation(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListJoinInvitations(w http.ResponseWriter, r *http.Request) {
	invitations, err := h.svc.Friends.ListJoinInvitations(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(invitations))
}

func (h *Handler) InviteToJoin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if !decode(w, r, &req) {
		return
	}
	inv, err := h.svc.Friends.InviteToJoin(r.Context(), userID(r), req.Email, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

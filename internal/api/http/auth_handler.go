package http

import (
	"net/http"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/service"
)

type signupRequest struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Password      string `json:"password"`
	InvitationKey string `json:"invitation_key"`
}

type authResponse struct {
	User   *domain.User       `json:"user"`
	Tokens *service.TokenPair `json:"tokens"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decode(w, r, &req) {
		return
	}
	user, tokens, err := h.svc.Auth.Signup(r.Context(), service.SignupInput{
		Username:      req.Username,
		Email:         req.Email,
		Name:          req.Name,
		Password:      req.Password,
		InvitationKey: req.InvitationKey,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	user, tokens, err := h.svc.Auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Tokens: tokens})
}

// Refresh exchanges the refresh token from the Authorization header for a new pair
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.svc.Auth.RefreshToken(r.Context(), extractToken(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Auth.ChangePassword(r.Context(), userID(r), req.OldPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestPasswordReset always answers 202 so callers cannot probe for addresses
func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Key string `json:"key"`
	}
	if !decode(w, r, &req) {
		return
	}
	addr, err := h.svc.Users.ConfirmEmail(r.Context(), req.Key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addr)
}

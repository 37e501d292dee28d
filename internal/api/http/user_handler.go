package http

import (
	"mime/multipart"
	"net/http"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/service"
)

const multipartMemory = 8 << 20

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.GetProfile(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.GetByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		About    string `json:"about"`
		Location string `json:"location"`
		Website  string `json:"website"`
		Timezone string `json:"timezone"`
		Language string `json:"language"`
	}
	if !decode(w, r, &req) {
		return
	}
	user, err := h.svc.Users.UpdateProfile(r.Context(), userID(r), service.ProfileUpdate(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) ListEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := h.svc.Users.ListEmails(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(emails))
}

func (h *Handler) AddEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}
	addr, err := h.svc.Users.AddEmail(r.Context(), userID(r), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, addr)
}

func (h *Handler) SetPrimaryEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Users.SetPrimaryEmail(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Users.RemoveEmail(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// formFile reads the "file" part of a multipart upload; it writes the 400 itself.
func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		badRequest(w, "invalid multipart form: %v", err)
		return nil, nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing file part")
		return nil, nil, false
	}
	return file, header, true
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	avatar, err := h.svc.Users.UploadAvatar(r.Context(), userID(r), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, avatar)
}

func (h *Handler) ListAvatars(w http.ResponseWriter, r *http.Request) {
	avatars, err := h.svc.Users.ListAvatars(r.Context(), userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(avatars))
}

func (h *Handler) SetPrimaryAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Users.SetPrimaryAvatar(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Users.DeleteAvatar(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

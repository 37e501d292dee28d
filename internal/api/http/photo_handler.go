package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"github.com/gorilla/mux"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/service"
	"pinax-social-backend/internal/storage"
)

func (h *Handler) photoRoutes(r *mux.Router) {
	r.HandleFunc("/photos", h.UploadPhoto).Methods(http.MethodPost).Name("photos.upload")
	r.HandleFunc("/photos/{id}", h.GetPhoto).Methods(http.MethodGet).Name("photos.get")
	r.HandleFunc("/photos/{id}", h.UpdatePhoto).Methods(http.MethodPatch).Name("photos.update")
	r.HandleFunc("/photos/{id}", h.DeletePhoto).Methods(http.MethodDelete).Name("photos.delete")
	r.HandleFunc("/users/{username}/photos", h.ListUserPhotos).Methods(http.MethodGet).Name("photos.user")
	r.HandleFunc("/{group:tribes|projects}/{slug}/photos", h.ListPool).Methods(http.MethodGet).Name("photos.pool")
	r.HandleFunc("/{group:tribes|projects}/{slug}/photos", h.AddToPool).Methods(http.MethodPost).Name("photos.pool.add")
	r.HandleFunc("/{group:tribes|projects}/{slug}/photos/{id}", h.RemoveFromPool).Methods(http.MethodDelete).Name("photos.pool.remove")
}

func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	file, header, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	isPublic := true
	if raw := r.FormValue("is_public"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, "invalid is_public %q", raw)
			return
		}
		isPublic = v
	}

	photo, err := h.svc.Photos.Upload(r.Context(), userID(r), service.PhotoUpload{
		Filename:    header.Filename,
		Title:       r.FormValue("title"),
		Caption:     r.FormValue("caption"),
		ContentType: header.Header.Get("Content-Type"),
		IsPublic:    isPublic,
		Tags:        r.FormValue("tags"),
	}, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	photo, err := h.svc.Photos.GetPhoto(r.Context(), userID(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *Handler) ListUserPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.Photos.ListUserPhotos(r.Context(), mux.Vars(r)["username"], userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(photos))
}

func (h *Handler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Title       string             `json:"title"`
		Caption     string             `json:"caption"`
		IsPublic    bool               `json:"is_public"`
		SafetyLevel domain.SafetyLevel `json:"safety_level"`
		Tags        *string            `json:"tags"`
	}
	if !decode(w, r, &req) {
		return
	}
	photo, err := h.svc.Photos.UpdatePhoto(r.Context(), userID(r), id, service.PhotoUpdate(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Photos.DeletePhoto(r.Context(), userID(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListPool(w http.ResponseWriter, r *http.Request) {
	photos, err := h.svc.Photos.ListPool(r.Context(), userID(r), groupType(r), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(photos))
}

func (h *Handler) AddToPool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhotoID int32 `json:"photo_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := h.svc.Photos.AddToPool(r.Context(), userID(r), req.PhotoID, groupType(r), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveFromPool(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Photos.RemoveFromPool(r.Context(), userID(r), id, groupType(r), mux.Vars(r)["slug"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeMedia streams a stored upload. Private photos are protected by their
// unguessable keys, as with the URLs handed out by the photo service.
func (h *Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, err := h.svc.Media.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			writeMessage(w, http.StatusNotFound, "file not found")
			return
		}
		writeError(w, r, err)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, file); err != nil {
		logger.Warn("Failed to stream media", "key", key, "error", err)
	}
}

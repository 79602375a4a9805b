package api

import (
	"bytes"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/plink/plink/internal/imaging"
	"github.com/plink/plink/internal/media"
	"github.com/plink/plink/internal/store"
)

// allowedVideoMIME lists accepted video upload types.
var allowedVideoMIME = map[string]bool{
	"video/mp4":       true,
	"video/quicktime": true,
	"video/webm":      true,
}

// UploadHandler accepts photo and video uploads for listings. Photos are
// normalized and thumbnailed; videos are stored as-is up to the size cap.
type UploadHandler struct {
	Storage  media.Storage
	MaxBytes int64
}

type uploadResponse struct {
	URL      string `json:"url"`
	ThumbURL string `json:"thumbUrl,omitempty"`
}

// Upload handles POST /upload (multipart, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		jsonError(w, http.StatusBadRequest, "file field required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
		return
	}

	detected := http.DetectContentType(data)
	key := uuid.NewString()

	switch {
	case strings.HasPrefix(detected, "image/"):
		photo, err := imaging.Process(bytes.NewReader(data))
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}

		url, err := h.Storage.Put(r.Context(), key+".jpg", bytes.NewReader(photo.Data), photo.MIME)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to store photo")
			return
		}
		thumbURL, err := h.Storage.Put(r.Context(), key+"_thumb.jpg", bytes.NewReader(photo.Thumb), photo.MIME)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to store thumbnail")
			return
		}

		slog.Info("photo uploaded", "key", key, "size", len(photo.Data), "original", header.Filename)
		jsonResponse(w, http.StatusCreated, uploadResponse{URL: url, ThumbURL: thumbURL})

	case allowedVideoMIME[detected]:
		url, err := h.Storage.Put(r.Context(), key, bytes.NewReader(data), detected)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to store video")
			return
		}

		slog.Info("video uploaded", "key", key, "size", len(data), "original", header.Filename)
		jsonResponse(w, http.StatusCreated, uploadResponse{URL: url})

	default:
		jsonError(w, http.StatusBadRequest, "unsupported file type: "+detected)
	}
}

// MediaHandler serves database-stored media blobs.
type MediaHandler struct {
	DB *sql.DB
}

// Get handles GET /media/{id}.
func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	data, mime, err := store.GetMedia(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "media not found")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

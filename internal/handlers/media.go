// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

// allowedMime maps accepted upload content types to file extensions.
var allowedMime = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Media groups the upload handlers. Files land on local disk under
// cfg.UploadsDir and are mirrored to S3 when a client is configured.
type Media struct {
	media   *store.MediaStore
	storage *storage.Client // nil when S3 is not configured
	cfg     *config.Config
}

// NewMedia creates a new Media handler group.
func NewMedia(media *store.MediaStore, sc *storage.Client, cfg *config.Config) *Media {
	return &Media{media: media, storage: sc, cfg: cfg}
}

// Upload accepts a multipart image upload and records its metadata.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.cfg.MaxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "could not read file")
		return
	}

	mimeType := http.DetectContentType(data)
	ext, ok := allowedMime[mimeType]
	if !ok {
		respondError(w, http.StatusUnsupportedMediaType, "only jpeg, png, gif and webp images are accepted")
		return
	}

	filename := uuid.New().String() + ext
	userDir := filepath.Join(h.cfg.UploadsDir, user.ID.String())
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		slog.Error("create upload dir", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := os.WriteFile(filepath.Join(userDir, filename), data, 0o644); err != nil {
		slog.Error("write upload", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	url := fmt.Sprintf("/uploads/%s/%s", user.ID, filename)
	if h.storage != nil {
		key := fmt.Sprintf("%s/%s", user.ID, filename)
		if err := h.storage.Upload(r.Context(), key, mimeType, data); err != nil {
			slog.Warn("mirror upload to s3", "key", key, "error", err)
		} else if h.cfg.S3PublicURL != "" {
			url = strings.TrimRight(h.cfg.S3PublicURL, "/") + "/" + key
		}
	}

	created, err := h.media.Create(r.Context(), &models.Media{
		UserID:       user.ID,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     mimeType,
		Size:         int64(len(data)),
		URL:          url,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// ListMine serves the authenticated user's uploads.
func (h *Media) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	items, err := h.media.ListByUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if items == nil {
		items = []models.Media{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"media": items})
}

// Delete removes an upload, its file on disk, and the S3 mirror.
// Owner or admin only.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid media id")
		return
	}

	m, err := h.media.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if m == nil {
		respondError(w, http.StatusNotFound, "media not found")
		return
	}
	if !user.Owns(m.UserID) && user.Role != models.RoleAdmin {
		respondError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.media.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	path := filepath.Join(h.cfg.UploadsDir, m.UserID.String(), m.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("remove upload file", "path", path, "error", err)
	}
	if h.storage != nil {
		key := fmt.Sprintf("%s/%s", m.UserID, m.Filename)
		if err := h.storage.Delete(r.Context(), key); err != nil {
			slog.Warn("remove s3 mirror", "key", key, "error", err)
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "media deleted"})
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressfolio/internal/imaging"
	"pressfolio/internal/models"
	"pressfolio/internal/render"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	mediaPerPage = 24
)

// allowedMediaTypes defines MIME types accepted for upload.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// MediaLibrary renders the media library admin page.
func (a *Admin) MediaLibrary(w http.ResponseWriter, r *http.Request) {
	a.renderMediaLibrary(w, r, "")
}

func (a *Admin) renderMediaLibrary(w http.ResponseWriter, r *http.Request, errMsg string) {
	if a.storage == nil {
		a.renderer.Page(w, r, "media", &render.PageData{
			Title:   "Media",
			Section: "media",
			Data: map[string]any{
				"Items":      []models.Media{},
				"Error":      "Object storage is not configured.",
				"Page":       1,
				"TotalPages": 0,
				"Pages":      []int{},
			},
		})
		return
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	items, err := a.media.List(mediaPerPage, (page-1)*mediaPerPage)
	if err != nil {
		slog.Error("list media failed", "error", err)
	}
	total, _ := a.media.Count()
	totalPages := (total + mediaPerPage - 1) / mediaPerPage

	a.renderer.Page(w, r, "media", &render.PageData{
		Title:   "Media",
		Section: "media",
		Data: map[string]any{
			"Items":      items,
			"Error":      errMsg,
			"Page":       page,
			"TotalPages": totalPages,
			"Pages":      pageNumbers(totalPages),
		},
	})
}

// MediaUpload stores an uploaded file in S3, generates a thumbnail for
// raster images, and records the metadata row.
func (a *Admin) MediaUpload(w http.ResponseWriter, r *http.Request) {
	if a.storage == nil {
		a.renderMediaLibrary(w, r, "Object storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.renderMediaLibrary(w, r, "File too large. Maximum size is 50 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.renderMediaLibrary(w, r, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		a.renderMediaLibrary(w, r, "File too large. Maximum size is 50 MB.")
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		a.renderMediaLibrary(w, r, "Failed to read file.")
		return
	}

	// Sniff the content type rather than trusting the client header.
	contentType := http.DetectContentType(fileBytes)
	if strings.HasSuffix(strings.ToLower(header.Filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		contentType = "image/svg+xml"
	}
	if !allowedMediaTypes[contentType] {
		a.renderMediaLibrary(w, r, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}

	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	fileID := uuid.New().String()
	s3Key := fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)

	ctx := r.Context()
	if err := a.storage.Upload(ctx, s3Key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", s3Key)
		a.renderMediaLibrary(w, r, "Failed to upload file.")
		return
	}

	// Thumbnail is best-effort; the original already made it to storage.
	var thumbKey *string
	if imaging.Supported(contentType) {
		thumb, err := imaging.Thumbnail(fileBytes)
		if err != nil {
			slog.Warn("thumbnail generation failed", "error", err, "key", s3Key)
		} else if thumb != nil {
			tk := fmt.Sprintf("media/%d/%02d/%s_thumb.jpg", now.Year(), now.Month(), fileID)
			if err := a.storage.Upload(ctx, tk, thumb.ContentType, bytes.NewReader(thumb.Data), int64(len(thumb.Data))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err, "key", tk)
			} else {
				thumbKey = &tk
			}
		}
	}

	media := &models.Media{
		Filename:    header.Filename,
		URL:         a.storage.FileURL(s3Key),
		ContentType: contentType,
		SizeBytes:   int64(len(fileBytes)),
		S3Key:       s3Key,
		ThumbS3Key:  thumbKey,
	}

	if _, err := a.media.Create(media); err != nil {
		slog.Error("media db insert failed", "error", err, "key", s3Key)
		a.renderMediaLibrary(w, r, "Failed to save file metadata.")
		return
	}

	http.Redirect(w, r, "/admin/media", http.StatusSeeOther)
}

// MediaDelete removes a media item from both S3 and the database.
func (a *Admin) MediaDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	// Delete the row first; it comes back with the keys for S3 cleanup.
	deleted, err := a.media.Delete(id)
	if err != nil {
		slog.Error("media db delete failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if deleted == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	// S3 cleanup is best-effort; an orphaned object is harmless.
	if a.storage != nil {
		ctx := r.Context()
		if err := a.storage.Delete(ctx, deleted.S3Key); err != nil {
			slog.Warn("s3 original delete failed", "error", err, "key", deleted.S3Key)
		}
		if deleted.ThumbS3Key != nil {
			if err := a.storage.Delete(ctx, *deleted.ThumbS3Key); err != nil {
				slog.Warn("s3 thumbnail delete failed", "error", err, "key", *deleted.ThumbS3Key)
			}
		}
	}

	redirectBack(w, r, "/admin/media")
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}

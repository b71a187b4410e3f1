package api

import (
	"errors"
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

	"github.com/assetkit/assetkit/pkg/assetkit"
	"github.com/assetkit/assetkit/pkg/assetkit/auth"
)

// Upload constraints enforced at this boundary, before the lifecycle
// service is invoked.
const (
	MaxUploadBytes    = 10 << 20 // 10 MB
	MaxDescriptionLen = 500
	multipartMemLimit = 4 << 20
)

// allowedExtensions is the upload allow-list, checked against the
// original filename's extension.
var allowedExtensions = map[string]bool{
	"pdf": true, "doc": true, "docx": true, "xls": true, "xlsx": true,
	"txt": true, "jpg": true, "jpeg": true, "png": true, "gif": true,
	"webp": true,
}

// AssetHandler handles HTTP requests for file assets
type AssetHandler struct {
	service assetkit.Service
	gate    *auth.TokenGate
	logger  *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(service assetkit.Service, gate *auth.TokenGate, logger *slog.Logger) *AssetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetHandler{
		service: service,
		gate:    gate,
		logger:  logger,
	}
}

// Routes returns the routes for file assets. Mutating operations sit
// behind the token gate; reads are open.
func (h *AssetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Get("/{id}/download", h.Download)

	r.Group(func(r chi.Router) {
		r.Use(RequireToken(h.gate))
		r.Post("/", h.Upload)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

// List returns a filtered, sorted, paginated page of assets
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := decodeListQuery(r)
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	assets, total, err := h.service.List(r.Context(), query)
	if err != nil {
		h.logger.Error("list assets failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to list files.")
		return
	}

	page, perPage := query.Normalize()
	respond(w, r, http.StatusOK, Response{
		Success: true,
		Data:    assets,
		Meta:    newPageMeta(page, perPage, total),
	})
}

// Upload stores an uploaded file and creates its asset record
func (h *AssetHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+multipartMemLimit)
	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, r, http.StatusUnprocessableEntity, "The file size must not exceed 10MB.")
			return
		}
		respondError(w, r, http.StatusUnprocessableEntity, "A file is required.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusUnprocessableEntity, "A file is required.")
		return
	}
	defer file.Close()

	if header.Size > MaxUploadBytes {
		respondError(w, r, http.StatusUnprocessableEntity, "The file size must not exceed 10MB.")
		return
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !allowedExtensions[ext] {
		respondError(w, r, http.StatusUnprocessableEntity,
			"The file must be one of the following types: PDF, Word, Excel, text, or image.")
		return
	}

	description := r.FormValue("description")
	if len(description) > MaxDescriptionLen {
		respondError(w, r, http.StatusUnprocessableEntity, "The description must not exceed 500 characters.")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	asset, err := h.service.Upload(r.Context(), assetkit.UploadRequest{
		Reader:      file,
		FileName:    header.Filename,
		MimeType:    mimeType,
		Size:        header.Size,
		Description: description,
	})
	if err != nil {
		h.logger.Error("upload failed", "filename", header.Filename, "error", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to upload file. Please try again.")
		return
	}

	respondMessage(w, r, http.StatusCreated, "File uploaded successfully.", asset)
}

// Show returns a single asset record after verifying its blob exists
func (h *AssetHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	asset, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.renderReadError(w, r, err)
		return
	}

	respondData(w, r, http.StatusOK, asset)
}

// Download streams the asset's bytes as an attachment
func (h *AssetHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	asset, reader, err := h.service.Download(r.Context(), id)
	if err != nil {
		h.renderReadError(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", asset.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.Name))
	w.Header().Set("Content-Length", strconv.FormatInt(asset.Size, 10))
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("download stream interrupted", "asset_id", id, "error", err)
	}
}

// Delete removes an asset's blob and record
func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.assetID(w, r)
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), id)
	switch {
	case err == nil:
		respond(w, r, http.StatusOK, Response{Success: true, Message: "File deleted successfully."})
	case errors.Is(err, assetkit.ErrAssetNotFound):
		respondError(w, r, http.StatusNotFound, "File not found.")
	case errors.Is(err, assetkit.ErrBlobMissing):
		respondError(w, r, http.StatusConflict, "File not found in storage.")
	default:
		h.logger.Error("delete failed", "asset_id", id, "error", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to delete file. Please try again.")
	}
}

func (h *AssetHandler) assetID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, http.StatusNotFound, "File not found.")
		return uuid.Nil, false
	}
	return id, true
}

func (h *AssetHandler) renderReadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, assetkit.ErrAssetNotFound):
		respondError(w, r, http.StatusNotFound, "File not found.")
	case errors.Is(err, assetkit.ErrBlobMissing):
		respondError(w, r, http.StatusNotFound, "File not found in storage.")
	default:
		h.logger.Error("read failed", "error", err)
		respondError(w, r, http.StatusInternalServerError, "Failed to read file. Please try again.")
	}
}

// decodeListQuery translates query-string parameters into a ListQuery.
// Unknown filter keys and sort fields are rejected here, not in the
// repository.
func decodeListQuery(r *http.Request) (assetkit.ListQuery, error) {
	var query assetkit.ListQuery

	for key, values := range r.URL.Query() {
		value := values[len(values)-1]
		switch key {
		case "filter[mime_type]":
			query.MimeType = value
		case "filter[name]":
			query.Name = value
		case "filter[description]":
			query.Description = value
		case "filter[created_on]":
			t, err := parseDate(value)
			if err != nil {
				return query, fmt.Errorf("invalid created_on date %q", value)
			}
			query.CreatedOn = &t
		case "filter[size_range]":
			query.SizeRange = value
		case "filter[created_after]":
			t, err := parseTimestamp(value)
			if err != nil {
				return query, fmt.Errorf("invalid created_after timestamp %q", value)
			}
			query.CreatedAfter = &t
		case "filter[created_before]":
			t, err := parseTimestamp(value)
			if err != nil {
				return query, fmt.Errorf("invalid created_before timestamp %q", value)
			}
			query.CreatedBefore = &t
		case "sort":
			query.Sort = value
		case "page":
			query.Page, _ = strconv.Atoi(value)
		case "per_page":
			query.PerPage, _ = strconv.Atoi(value)
		default:
			if strings.HasPrefix(key, "filter[") {
				return query, fmt.Errorf("unknown filter %q", key)
			}
		}
	}

	if err := query.Validate(); err != nil {
		return query, err
	}
	return query, nil
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return parseDate(value)
}

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetkit/assetkit/pkg/assetkit"
	"github.com/assetkit/assetkit/pkg/assetkit/api"
	"github.com/assetkit/assetkit/pkg/assetkit/auth"
	"github.com/assetkit/assetkit/pkg/assetkit/repo/memory"
	memorystorage "github.com/assetkit/assetkit/pkg/assetkit/storage/memory"
)

const testToken = "test-secret-token"

type testEnv struct {
	router  chi.Router
	service assetkit.Service
	repo    *memory.Repository
	store   *memorystorage.Backend
}

func setupHandlerTest(t *testing.T) *testEnv {
	repo := memory.New()
	store := memorystorage.New()

	service, err := assetkit.New(
		assetkit.WithRepository(repo),
		assetkit.WithBlobStore(store),
	)
	require.NoError(t, err)

	handler := api.NewAssetHandler(service, auth.NewTokenGate(testToken), nil)
	router := chi.NewRouter()
	router.Mount("/api/files", handler.Routes())

	return &testEnv{router: router, service: service, repo: repo, store: store}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, name, mimeType, content string) *assetkit.Asset {
	asset, err := e.service.Upload(context.Background(), assetkit.UploadRequest{
		Reader:   strings.NewReader(content),
		FileName: name,
		MimeType: mimeType,
		Size:     int64(len(content)),
	})
	require.NoError(t, err)
	return asset
}

func multipartBody(t *testing.T, filename, mimeType, content, description string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		header.Set("Content-Type", mimeType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if description != "" {
		require.NoError(t, writer.WriteField("description", description))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) api.Response {
	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUpload_Created(t *testing.T) {
	env := setupHandlerTest(t)

	body, contentType := multipartBody(t, "Report v2.txt", "text/plain", strings.Repeat("x", 1024), "quarterly numbers")
	req := httptest.NewRequest(http.MethodPost, "/api/files", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testToken)

	w := env.do(req)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "File uploaded successfully.", resp.Message)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var asset assetkit.Asset
	require.NoError(t, json.Unmarshal(data, &asset))

	assert.Regexp(t, `^report-v2_\d+_[a-zA-Z0-9]{8}\.txt$`, asset.Path)
	assert.Equal(t, int64(1024), asset.Size)
	assert.Equal(t, "text/plain", asset.MimeType)
	assert.Equal(t, "quarterly numbers", asset.Description)

	exists, err := env.store.Exists(context.Background(), asset.Path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUpload_Unauthorized(t *testing.T) {
	env := setupHandlerTest(t)

	body, contentType := multipartBody(t, "a.txt", "text/plain", "x", "")

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong token", "Bearer nope"},
		{"malformed header", "Basic dXNlcg=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/files", bytes.NewReader(body.Bytes()))
			req.Header.Set("Content-Type", contentType)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := env.do(req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, "Unauthorized. Invalid or missing token.", resp.Message)
		})
	}
}

func TestUpload_Validation(t *testing.T) {
	env := setupHandlerTest(t)

	tests := []struct {
		name        string
		filename    string
		content     string
		description string
	}{
		{"missing file part", "", "", ""},
		{"disallowed extension", "malware.exe", "x", ""},
		{"no extension", "noext", "x", ""},
		{"oversize file", "big.txt", strings.Repeat("x", api.MaxUploadBytes+1), ""},
		{"description too long", "ok.txt", "x", strings.Repeat("d", api.MaxDescriptionLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.filename, "text/plain", tt.content, tt.description)
			req := httptest.NewRequest(http.MethodPost, "/api/files", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+testToken)

			w := env.do(req)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.False(t, decodeResponse(t, w).Success)
		})
	}
}

func TestUpload_BodyOverReadLimit(t *testing.T) {
	env := setupHandlerTest(t)

	// Large enough that the request body cap trips during multipart
	// parsing, before the per-file size check is reached.
	body, contentType := multipartBody(t, "huge.txt", "text/plain",
		strings.Repeat("x", api.MaxUploadBytes+5<<20), "")
	req := httptest.NewRequest(http.MethodPost, "/api/files", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testToken)

	w := env.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "The file size must not exceed 10MB.", resp.Message)
}

func TestList(t *testing.T) {
	env := setupHandlerTest(t)
	env.upload(t, "notes.txt", "text/plain", strings.Repeat("a", 200))
	env.upload(t, "report.pdf", "application/pdf", strings.Repeat("b", 900))
	env.upload(t, "logo.png", "image/png", strings.Repeat("c", 2000))

	t.Run("unfiltered with meta", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files", nil))
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 3, resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.CurrentPage)
		assert.Equal(t, assetkit.DefaultPerPage, resp.Meta.PerPage)
		assert.Equal(t, 1, resp.Meta.LastPage)
	})

	t.Run("mime type filter", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files?filter[mime_type]=text/plain", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, decodeResponse(t, w).Meta.Total)
	})

	t.Run("size range filter", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files?filter[size_range]=100,1000", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, decodeResponse(t, w).Meta.Total)
	})

	t.Run("malformed size range is a no-op", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files?filter[size_range]=abc", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, decodeResponse(t, w).Meta.Total)
	})

	t.Run("pagination meta", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files?per_page=2&page=2", nil))
		require.Equal(t, http.StatusOK, w.Code)

		resp := decodeResponse(t, w)
		assert.Equal(t, 2, resp.Meta.CurrentPage)
		assert.Equal(t, 2, resp.Meta.PerPage)
		assert.Equal(t, 3, resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.LastPage)
	})

	t.Run("unknown filter key is rejected", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files?filter[owner]=bob", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unknown sort field is rejected", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files?sort=-path", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("invalid created_on is rejected", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files?filter[created_on]=notadate", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestShow(t *testing.T) {
	env := setupHandlerTest(t)
	asset := env.upload(t, "shown.txt", "text/plain", "content")

	t.Run("found", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files/"+asset.ID.String(), nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "File not found.", decodeResponse(t, w).Message)
	})

	t.Run("non-uuid id", func(t *testing.T) {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files/not-a-uuid", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("record without blob", func(t *testing.T) {
		orphan := &assetkit.Asset{ID: uuid.New(), Name: "lost.txt", Path: "lost.txt", MimeType: "text/plain"}
		require.NoError(t, env.repo.Create(context.Background(), orphan))

		w := env.do(httptest.NewRequest(http.MethodGet, "/api/files/"+orphan.ID.String(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "File not found in storage.", decodeResponse(t, w).Message)
	})
}

func TestDownload(t *testing.T) {
	env := setupHandlerTest(t)
	asset := env.upload(t, "paper.pdf", "application/pdf", "pdf bytes here")

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/files/"+asset.ID.String()+"/download", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="paper.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, fmt.Sprint(len("pdf bytes here")), w.Header().Get("Content-Length"))

	data, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes here", string(data))
}

func TestDelete(t *testing.T) {
	env := setupHandlerTest(t)

	authedDelete := func(id string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/files/"+id, nil)
		req.Header.Set("Authorization", "Bearer "+testToken)
		return env.do(req)
	}

	t.Run("success", func(t *testing.T) {
		asset := env.upload(t, "victim.txt", "text/plain", "bytes")

		w := authedDelete(asset.ID.String())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "File deleted successfully.", decodeResponse(t, w).Message)

		_, err := env.repo.Get(context.Background(), asset.ID)
		assert.ErrorIs(t, err, assetkit.ErrAssetNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		w := authedDelete(uuid.NewString())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("blob missing is a conflict", func(t *testing.T) {
		orphan := &assetkit.Asset{ID: uuid.New(), Name: "lost.txt", Path: "lost.txt", MimeType: "text/plain"}
		require.NoError(t, env.repo.Create(context.Background(), orphan))

		w := authedDelete(orphan.ID.String())
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "File not found in storage.", decodeResponse(t, w).Message)

		// Record survives the failed delete
		_, err := env.repo.Get(context.Background(), orphan.ID)
		assert.NoError(t, err)
	})

	t.Run("unauthorized", func(t *testing.T) {
		asset := env.upload(t, "keep.txt", "text/plain", "bytes")

		w := env.do(httptest.NewRequest(http.MethodDelete, "/api/files/"+asset.ID.String(), nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		_, err := env.repo.Get(context.Background(), asset.ID)
		assert.NoError(t, err)
	})
}

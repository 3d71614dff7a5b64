package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"interiorai/internal/imagegen"
)

var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 0x49, 0x48, 0x44, 0x52}

type recordingGenerator struct {
	imagegen.Generator
	lastImage string
	err       error
}

func (g *recordingGenerator) GenerateImage(ctx context.Context, req imagegen.GenerateRequest) (*imagegen.GenerateResponse, error) {
	g.lastImage = req.Image
	if g.err != nil {
		return nil, g.err
	}
	return g.Generator.GenerateImage(ctx, req)
}

func newTestApp(gen imagegen.Generator) *App {
	return NewApp(gen, zerolog.Nop(), 0)
}

func multipartBody(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	if file != nil {
		part, err := form.CreateFormFile("image", "room.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())
	return body, form.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestGenerateImageWithReference(t *testing.T) {
	app := newTestApp(imagegen.NewCannedClient(imagegen.CannedOptions{NewID: func() string { return "design_x" }}))
	body, ct := multipartBody(t, map[string]string{"image": "https://example.com/room.jpg", "style": "modern"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/generate-image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got imagegen.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Equal(t, "design_x", got.ID)
	require.Equal(t, imagegen.CannedImageURL, got.ImageURL)
}

func TestGenerateImageWithUpload(t *testing.T) {
	gen := &recordingGenerator{Generator: imagegen.NewCannedClient(imagegen.CannedOptions{})}
	app := newTestApp(gen)
	body, ct := multipartBody(t, map[string]string{"style": "rustic"}, pngHeader)

	req := httptest.NewRequest(http.MethodPost, "/generate-image", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(gen.lastImage, "data:image/png;base64,"))
}

func TestGenerateImageRejections(t *testing.T) {
	cases := []struct {
		name     string
		fields   map[string]string
		file     []byte
		gen      imagegen.Generator
		maxBytes int64
		want     int
		wantMsg  string
	}{
		{name: "missing style", fields: map[string]string{"image": "https://example.com/a.jpg"}, want: http.StatusBadRequest, wantMsg: "Image and style are required"},
		{name: "missing image", fields: map[string]string{"style": "modern"}, want: http.StatusBadRequest, wantMsg: "Image and style are required"},
		{name: "not an image", fields: map[string]string{"style": "modern"}, file: []byte("plain text, not a photo"), want: http.StatusUnsupportedMediaType, wantMsg: "Unsupported image type"},
		{name: "too large", fields: map[string]string{"style": "modern"}, file: bytes.Repeat(pngHeader, 512), maxBytes: 1024, want: http.StatusRequestEntityTooLarge, wantMsg: "Image too large"},
		{
			name:    "upstream failure",
			fields:  map[string]string{"image": "https://example.com/a.jpg", "style": "modern"},
			gen:     &recordingGenerator{err: &imagegen.APIError{Status: http.StatusServiceUnavailable, Message: "Model overloaded"}},
			want:    http.StatusServiceUnavailable,
			wantMsg: "Model overloaded",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := tc.gen
			if gen == nil {
				gen = imagegen.NewCannedClient(imagegen.CannedOptions{})
			}
			app := NewApp(gen, zerolog.Nop(), tc.maxBytes)
			body, ct := multipartBody(t, tc.fields, tc.file)
			req := httptest.NewRequest(http.MethodPost, "/generate-image", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			app.GenerateImage(rec, req)

			require.Equal(t, tc.want, rec.Code)
			require.Equal(t, tc.wantMsg, decodeError(t, rec))
		})
	}
}

func TestGenerateImageRequiresMultipart(t *testing.T) {
	app := newTestApp(imagegen.NewCannedClient(imagegen.CannedOptions{}))
	req := httptest.NewRequest(http.MethodPost, "/generate-image", strings.NewReader(`{"image":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid form data", decodeError(t, rec))
}

func TestStyleInfoHandler(t *testing.T) {
	app := newTestApp(imagegen.NewCannedClient(imagegen.CannedOptions{}))

	rec := httptest.NewRecorder()
	app.StyleInfo(rec, httptest.NewRequest(http.MethodPost, "/get-style-info", strings.NewReader(`{"style":"industrial"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var info imagegen.StyleInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&info))
	require.NotEmpty(t, info.Description)
	require.NotEmpty(t, info.Tips)

	rec = httptest.NewRecorder()
	app.StyleInfo(rec, httptest.NewRequest(http.MethodPost, "/get-style-info", strings.NewReader(`{`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid JSON body", decodeError(t, rec))

	rec = httptest.NewRecorder()
	app.StyleInfo(rec, httptest.NewRequest(http.MethodPost, "/get-style-info", strings.NewReader(`{"style":""}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStylesAndHealth(t *testing.T) {
	app := newTestApp(imagegen.NewCannedClient(imagegen.CannedOptions{}))

	rec := httptest.NewRecorder()
	app.Styles(rec, httptest.NewRequest(http.MethodGet, "/v1/styles", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"id":"scandinavian"`)

	rec = httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	var health map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	require.Equal(t, "ok", health["status"])
	require.Equal(t, "0s", health["uptime"])

	rec = httptest.NewRecorder()
	app.OpenAPIJSON(rec, httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, json.Valid(rec.Body.Bytes()))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	app.OpenAPIJSON(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Zero(t, rec.Body.Len())
}

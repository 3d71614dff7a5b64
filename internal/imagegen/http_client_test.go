package imagegen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"interiorai/internal/domain"
)

var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 0x49, 0x48, 0x44, 0x52}

func TestHTTPClientGenerateImageRemoteReference(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate-image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "https://example.com/room.jpg", r.FormValue("image"))
		require.Equal(t, "modern", r.FormValue("style"))
		require.Contains(t, r.FormValue("instruction"), "Modern interior style")
		_ = json.NewEncoder(w).Encode(GenerateResponse{ImageURL: "https://example.com/out.png", ID: "design_1"})
	}))
	defer ts.Close()

	client := NewHTTPClient(HTTPOptions{BaseURL: ts.URL + "/api/"})
	got, err := client.GenerateImage(context.Background(), GenerateRequest{Image: "https://example.com/room.jpg", Style: "modern"})
	require.NoError(t, err)
	require.Equal(t, "design_1", got.ID)
	require.Equal(t, "https://example.com/out.png", got.ImageURL)
}

func TestHTTPClientUploadsLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, pngHeader, data)
		require.Equal(t, "room.png", header.Filename)
		require.Equal(t, "image/png", header.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(GenerateResponse{ImageURL: "https://example.com/out.png", ID: "design_2"})
	}))
	defer ts.Close()

	client := NewHTTPClient(HTTPOptions{BaseURL: ts.URL})
	got, err := client.GenerateImage(context.Background(), GenerateRequest{Image: "file://" + path, Style: "rustic"})
	require.NoError(t, err)
	require.Equal(t, "design_2", got.ID)
}

func TestHTTPClientErrorStatusCarriesServiceMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"model overloaded"}`))
	}))
	defer ts.Close()

	client := NewHTTPClient(HTTPOptions{BaseURL: ts.URL})
	_, err := client.GenerateImage(context.Background(), GenerateRequest{Image: "https://example.com/a.jpg", Style: "modern"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	require.Equal(t, "model overloaded", apiErr.Message)
}

func TestHTTPClientErrorStatusFallbackMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	client := NewHTTPClient(HTTPOptions{BaseURL: ts.URL})
	_, err := client.StyleInfo(context.Background(), "modern")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "Failed to get style info", apiErr.Message)
}

func TestHTTPClientNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	client := NewHTTPClient(HTTPOptions{BaseURL: url})
	_, err := client.GenerateImage(context.Background(), GenerateRequest{Image: "https://example.com/a.jpg", Style: "modern"})
	require.Equal(t, http.StatusInternalServerError, StatusOf(err))
	require.Contains(t, err.Error(), "Network error occurred")
}

func TestHTTPClientValidatesBeforeSending(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer ts.Close()

	client := NewHTTPClient(HTTPOptions{BaseURL: ts.URL})
	_, err := client.GenerateImage(context.Background(), GenerateRequest{Style: "modern"})
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = client.StyleInfo(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	require.False(t, called)
}

func TestHTTPClientStyleInfo(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/get-style-info", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req StyleInfoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "bohemian", req.Style)
		_ = json.NewEncoder(w).Encode(StyleInfo{Description: "Eclectic", Tips: []string{"Mix patterns"}})
	}))
	defer ts.Close()

	got, err := NewHTTPClient(HTTPOptions{BaseURL: ts.URL}).StyleInfo(context.Background(), "bohemian")
	require.NoError(t, err)
	require.Equal(t, "Eclectic", got.Description)
	require.Equal(t, []string{"Mix patterns"}, got.Tips)
}

func TestHTTPClientRejectsEmptyGenerationResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	_, err := NewHTTPClient(HTTPOptions{BaseURL: ts.URL}).GenerateImage(context.Background(), GenerateRequest{Image: "https://example.com/a.jpg", Style: "modern"})
	require.Equal(t, http.StatusBadGateway, StatusOf(err))
}

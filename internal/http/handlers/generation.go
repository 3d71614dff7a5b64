package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"interiorai/internal/domain"
	"interiorai/internal/imagegen"
)

var errUnsupportedImage = errors.New("unsupported image type")

// GenerateImage accepts the multipart form the generation client sends. The
// image is either an uploaded file part or a plain reference field.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	log := a.requestLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUpload)
	if err := r.ParseMultipartForm(a.MaxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "Image too large")
			return
		}
		a.error(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	image, err := formImage(r)
	if err != nil {
		if errors.Is(err, errUnsupportedImage) {
			a.error(w, http.StatusUnsupportedMediaType, "Unsupported image type")
			return
		}
		a.error(w, http.StatusBadRequest, "Invalid image upload")
		return
	}
	style := strings.TrimSpace(r.FormValue("style"))

	resp, err := a.Generator.GenerateImage(r.Context(), imagegen.GenerateRequest{Image: image, Style: style})
	if err != nil {
		a.generatorError(w, log, err, "Failed to generate image")
		return
	}
	log.Info().Str("style", style).Str("design", resp.ID).Msg("image generated")
	a.json(w, http.StatusOK, resp)
}

// StyleInfo answers the JSON style lookup.
func (a *App) StyleInfo(w http.ResponseWriter, r *http.Request) {
	log := a.requestLogger(r)

	var req imagegen.StyleInfoRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 64<<10)).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	info, err := a.Generator.StyleInfo(r.Context(), strings.TrimSpace(req.Style))
	if err != nil {
		a.generatorError(w, log, err, "Failed to get style info")
		return
	}
	a.json(w, http.StatusOK, info)
}

// Styles lists the built-in style catalog.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"styles": domain.Styles})
}

func (a *App) generatorError(w http.ResponseWriter, log *zerolog.Logger, err error, fallback string) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		a.error(w, http.StatusBadRequest, "Image and style are required")
		return
	}
	var apiErr *imagegen.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 {
		log.Warn().Err(err).Int("status", apiErr.Status).Msg("upstream generator failed")
		a.error(w, apiErr.Status, apiErr.Message)
		return
	}
	log.Error().Err(err).Msg("generator failed")
	a.error(w, http.StatusInternalServerError, fallback)
}

func (a *App) requestLogger(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &a.Logger
}

// formImage returns the uploaded file as a data URI, or the plain image field
// when no file was attached.
func formImage(r *http.Request) (string, error) {
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return strings.TrimSpace(r.FormValue("image")), nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", errUnsupportedImage
	}
	return "data:" + mt.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

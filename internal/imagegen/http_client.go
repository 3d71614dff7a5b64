package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://your-proxy-server.com/api"

// HTTPOptions configures the proxy-backed client.
type HTTPOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zerolog.Logger
}

// HTTPClient talks to the generation proxy over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &HTTPClient{
		httpClient: client,
		baseURL:    base,
		logger:     logger.With().Str("component", "imagegen").Logger(),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// GenerateImage posts the image and style as a multipart form. Local images
// are uploaded as a file part; remote references are sent as a plain field.
func (c *HTTPClient) GenerateImage(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	if err := writeImagePart(form, req.Image); err != nil {
		return nil, err
	}
	_ = form.WriteField("style", req.Style)
	_ = form.WriteField("instruction", BuildInstruction(req.Style))
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("imagegen: close form: %w", err)
	}

	var out GenerateResponse
	if err := c.post(ctx, "/generate-image", form.FormDataContentType(), body, "Failed to generate image", &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" || strings.TrimSpace(out.ImageURL) == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "empty generation response"}
	}
	return &out, nil
}

// StyleInfo fetches descriptive metadata for style.
func (c *HTTPClient) StyleInfo(ctx context.Context, style string) (*StyleInfo, error) {
	req := StyleInfoRequest{Style: style}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var out StyleInfo
	if err := c.post(ctx, "/get-style-info", "application/json", bytes.NewReader(payload), "Failed to get style info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) post(ctx context.Context, path, contentType string, body io.Reader, fallback string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return networkError(err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("request failed")
		return networkError(err)
	}
	defer resp.Body.Close()
	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&eb)
		msg := strings.TrimSpace(eb.Error)
		if msg == "" {
			msg = fallback
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return networkError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// writeImagePart attaches ref to the form, uploading its bytes when it points
// at a readable local file.
func writeImagePart(form *multipart.Writer, ref string) error {
	path, local := localPath(ref)
	if !local {
		return form.WriteField("image", ref)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("imagegen: read image: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filepath.Base(path)))
	header.Set("Content-Type", mimetype.Detect(data).String())
	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("imagegen: create image part: %w", err)
	}
	_, err = part.Write(data)
	return err
}

// localPath resolves file:// URIs and bare paths of existing files.
func localPath(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", false
		}
		return u.Path, true
	}
	if strings.Contains(ref, "://") {
		return "", false
	}
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return ref, true
	}
	return "", false
}

var _ Generator = (*HTTPClient)(nil)

// Package client drives the upload-then-parse flow against the API,
// reporting elapsed-time progress while the parse is running and enforcing
// its own request-level timeout independent of the server's parser timeout.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobportal/resume-parser/internal/models"
)

const (
	// DefaultParseTimeout backstops against a hung parse request. It is
	// longer than the server's own 2-minute parser timeout, so it only
	// fires on transport-level hangs.
	DefaultParseTimeout = 3 * time.Minute

	progressInterval = time.Second
	maxFileSize      = 10 * 1024 * 1024
)

var timeoutErr = errors.New("Request timed out. The resume parsing is taking too long. Try a simpler resume format or try again later.")

type Client struct {
	baseURL      string
	httpClient   *http.Client
	parseTimeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{},
		parseTimeout: DefaultParseTimeout,
	}
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// UploadResume posts the file as multipart form data under the "resume"
// field. There is no cancellation path beyond the caller's context.
func (c *Client) UploadResume(ctx context.Context, path string) (*models.UploadResponse, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat resume: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file size should be less than 10MB")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("resume", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/upload-resume", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(decodeError(resp.Body, "Failed to upload file"))
	}

	var result models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &result, nil
}

// ParseResume requests a parse of a previously uploaded file. The call runs
// under the client's own deadline; on expiry the request is aborted and a
// retry suggestion is returned. A 200 response is returned as-is whatever
// its internal success flag says.
func (c *Client) ParseResume(ctx context.Context, filePath string) (models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.parseTimeout)
	defer cancel()

	payload, err := json.Marshal(models.ParseRequest{FilePath: filePath})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/parse-resume", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, timeoutErr
		}
		return nil, fmt.Errorf("parse request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(decodeError(resp.Body, "Failed to parse resume"))
	}

	var profile models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode parse response: %w", err)
	}

	return profile, nil
}

func decodeError(r io.Reader, fallback string) string {
	var apiErr apiError
	if err := json.NewDecoder(r).Decode(&apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return fallback
}

// ProcessingMessage selects the status line shown while a parse is running;
// longer waits get increasingly reassuring copy.
func ProcessingMessage(elapsed time.Duration) string {
	switch {
	case elapsed < 15*time.Second:
		return "Processing resume with AI..."
	case elapsed < 30*time.Second:
		return "Loading AI models (this may take a moment)..."
	case elapsed < time.Minute:
		return "Still processing... Parsing complex resumes may take up to a minute."
	case elapsed < 2*time.Minute:
		return "This is taking longer than usual. Processing complex documents with AI models can take time..."
	default:
		return "Still working... If this continues for much longer, you may want to try again with a simpler resume format."
	}
}

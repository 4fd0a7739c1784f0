// Package anythingllm is a thin typed client for the AnythingLLM
// developer REST API. It maps requests and responses only; retries and
// pass-level policy belong to the caller.
package anythingllm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrFolderNotFound reports that a server folder does not exist. Callers
// distinguish it from transport errors: a missing folder is an empty
// inventory, anything else aborts the pass.
var ErrFolderNotFound = errors.New("folder not found")

const (
	// httpClientTimeout is the timeout for the default HTTP client used
	// when no custom client is provided. Uploads of large notes can be
	// slow on first embedding, so this is generous.
	httpClientTimeout = 120 * time.Second

	// maxAPIResponseBytes caps response body reads to prevent a
	// misbehaving server from consuming unbounded memory.
	maxAPIResponseBytes = 8 * 1024 * 1024
)

// APIError is a non-200 response or an error reported in a response body.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API %s (%d): %s", e.Endpoint, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("API %s: %s", e.Endpoint, e.Message)
}

// Client talks to an AnythingLLM server.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates an API client for the given server. baseURL is the
// server root without the /api/v1 suffix. If httpClient is nil, a client
// with a 120-second timeout is created.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpClientTimeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/") + "/api/v1",
		apiKey:     apiKey,
	}
}

// sanitizeResponseBody truncates and sanitizes a response body for
// inclusion in error messages. Limits to 256 bytes and replaces
// non-printable characters to prevent log injection.
func sanitizeResponseBody(body []byte) string {
	const maxLen = 256
	if len(body) > maxLen {
		body = body[:maxLen]
	}

	var clean []byte

	for len(body) > 0 {
		r, size := utf8.DecodeRune(body)
		if r == utf8.RuneError && size <= 1 {
			clean = append(clean, '?')
			body = body[1:]

			continue
		}

		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			clean = append(clean, '?')
		} else {
			clean = append(clean, body[:size]...)
		}

		body = body[size:]
	}

	return string(clean)
}

// do sends a request with the API key attached and returns the raw body.
// Non-200 statuses come back as *APIError with the sanitized body as the
// message.
func (c *Client) do(ctx context.Context, method, endpoint string, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := sanitizeResponseBody(respBody)

		var op opResponse
		if json.Unmarshal(respBody, &op) == nil && op.Message != "" {
			msg = op.Message
		}

		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: msg}
	}

	return respBody, nil
}

// sendJSON sends a JSON request body and decodes the response into result
// when result is non-nil.
func (c *Client) sendJSON(ctx context.Context, method, endpoint string, body, result interface{}) error {
	var payload io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request body: %w", err)
		}

		payload = bytes.NewReader(data)
	}

	respBody, err := c.do(ctx, method, endpoint, "application/json", payload)
	if err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response from %s: %w", endpoint, err)
		}
	}

	return nil
}

// Verify checks that the configured API key is accepted by the server.
func (c *Client) Verify(ctx context.Context) error {
	var resp authResponse
	if err := c.sendJSON(ctx, http.MethodGet, "/auth", nil, &resp); err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}

	if !resp.Authenticated {
		return &APIError{Endpoint: "/auth", Message: "API key rejected"}
	}

	return nil
}

// ListWorkspaces returns all workspaces on the server.
func (c *Client) ListWorkspaces(ctx context.Context) ([]Workspace, error) {
	var resp workspacesResponse
	if err := c.sendJSON(ctx, http.MethodGet, "/workspaces", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}

	return resp.Workspaces, nil
}

// CreateFolder creates a server folder. Creating a folder that already
// exists is success, making the call idempotent for namespace bootstrap.
func (c *Client) CreateFolder(ctx context.Context, name string) error {
	req := map[string]string{"name": name}

	var resp opResponse

	err := c.sendJSON(ctx, http.MethodPost, "/document/create-folder", req, &resp)
	if err != nil {
		if isAlreadyExists(err) {
			return nil
		}

		return fmt.Errorf("creating folder %s: %w", name, err)
	}

	if !resp.Success && !messageSaysExists(resp.Message) {
		return &APIError{Endpoint: "/document/create-folder", Message: resp.Message}
	}

	return nil
}

// RemoveFolder permanently deletes a server folder and everything in it.
// Removing a folder that does not exist is success.
func (c *Client) RemoveFolder(ctx context.Context, name string) error {
	req := map[string]string{"name": name}

	var resp opResponse

	err := c.sendJSON(ctx, http.MethodDelete, "/document/remove-folder", req, &resp)
	if err != nil {
		if isNotFoundErr(err) {
			return nil
		}

		return fmt.Errorf("removing folder %s: %w", name, err)
	}

	if !resp.Success && !messageSaysMissing(resp.Message) {
		return &APIError{Endpoint: "/document/remove-folder", Message: resp.Message}
	}

	return nil
}

// MoveFiles relocates documents between server folders.
func (c *Client) MoveFiles(ctx context.Context, moves []Move) error {
	if len(moves) == 0 {
		return nil
	}

	req := map[string][]Move{"files": moves}

	var resp opResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/document/move-files", req, &resp); err != nil {
		return fmt.Errorf("moving %d files: %w", len(moves), err)
	}

	if !resp.Success && resp.Message != "" {
		return &APIError{Endpoint: "/document/move-files", Message: resp.Message}
	}

	return nil
}

// UpdateEmbeddings adds and removes documents from a workspace's
// embedding set. Paths are folder-qualified document names.
func (c *Client) UpdateEmbeddings(ctx context.Context, slug string, adds, deletes []string) error {
	if len(adds) == 0 && len(deletes) == 0 {
		return nil
	}

	endpoint := "/workspace/" + slug + "/update-embeddings"
	req := updateEmbeddingsRequest{Adds: adds, Deletes: deletes}

	if err := c.sendJSON(ctx, http.MethodPost, endpoint, req, nil); err != nil {
		return fmt.Errorf("updating embeddings for workspace %s: %w", slug, err)
	}

	return nil
}

// isAlreadyExists reports whether err is an APIError whose message says
// the folder already exists.
func isAlreadyExists(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return messageSaysExists(apiErr.Message)
}

// isNotFoundErr reports whether err is an APIError whose message says the
// folder does not exist.
func isNotFoundErr(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return messageSaysMissing(apiErr.Message)
}

func messageSaysExists(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "already exists")
}

func messageSaysMissing(msg string) bool {
	lower := strings.ToLower(msg)

	return strings.Contains(lower, "does not exist") ||
		strings.Contains(lower, "not found")
}

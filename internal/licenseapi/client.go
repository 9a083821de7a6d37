package licenseapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/ikkim/license-backend/internal/app/dto"
	"github.com/ikkim/license-backend/internal/app/model"
	"github.com/ikkim/license-backend/pkg/logger"
)

// Client talks to the license application HTTP API
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// ListAccountTypes fetches the account type catalog
func (c *Client) ListAccountTypes(ctx context.Context) ([]model.AccountTypeInfo, error) {
	var types []model.AccountTypeInfo
	if err := c.doJSON(ctx, http.MethodGet, "/accounttypes", nil, &types); err != nil {
		return nil, fmt.Errorf("failed to list account types: %w", err)
	}
	return types, nil
}

// CreateApplication submits a complete application
func (c *Client) CreateApplication(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error) {
	var app model.Application
	if err := c.doJSON(ctx, http.MethodPost, "/applications", req, &app); err != nil {
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}
	return &app, nil
}

// CreateDraft stores a partially filled application
func (c *Client) CreateDraft(ctx context.Context, req *dto.ApplicationRequest) (*model.Application, error) {
	var app model.Application
	if err := c.doJSON(ctx, http.MethodPost, "/applications/draft", req, &app); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return &app, nil
}

// UpdateDraft replaces the optional fields of an existing draft
func (c *Client) UpdateDraft(ctx context.Context, id string, req *dto.ApplicationRequest) (*model.Application, error) {
	var app model.Application
	if err := c.doJSON(ctx, http.MethodPut, "/applications/"+id+"/draft", req, &app); err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return &app, nil
}

// GetApplication fetches an application with its files
func (c *Client) GetApplication(ctx context.Context, id string) (*model.Application, error) {
	var app model.Application
	if err := c.doJSON(ctx, http.MethodGet, "/applications/"+id, nil, &app); err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

// UploadFile attaches a document to an application
func (c *Client) UploadFile(ctx context.Context, applicationID, fileName string, content io.Reader) (*model.FileMetadata, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("applicationId", applicationID); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(fileName)))
	header.Set("Content-Type", contentTypeFor(fileName))
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/files/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var metadata model.FileMetadata
	if err := c.do(req, &metadata); err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", fileName, err)
	}
	return &metadata, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// contentTypeFor guesses the MIME type of a document from its extension.
func contentTypeFor(fileName string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reqBody, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, out)
}

// do performs the request and decodes a 2xx body into out
func (c *Client) do(req *http.Request, out interface{}) error {
	logger.Debug("License API request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		logger.Warn("License API returned an error", map[string]interface{}{
			"url":         req.URL.String(),
			"status_code": resp.StatusCode,
			"code":        apiErr.Code,
		})
		return apiErr
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
	"github.com/dmitrijs2005/visionaq/internal/common"
	"github.com/dmitrijs2005/visionaq/internal/logging"
	"github.com/rs/xid"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 16 << 10
)

// HTTPClient talks JSON over HTTP to the auth and analysis services.
type HTTPClient struct {
	authURL string
	apiURL  string
	timeout time.Duration
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client. authURL is the auth service base
// (".../api/auth"), apiURL the analysis service root. A zero timeout selects
// the default.
func NewHTTPClient(authURL, apiURL string, timeout time.Duration, log logging.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		authURL: strings.TrimRight(authURL, "/"),
		apiURL:  strings.TrimRight(apiURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
		log:     log,
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func (c *HTTPClient) WithHTTPClient(h *http.Client) *HTTPClient {
	c.http = h
	return c
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyResponse struct {
	User *models.UserProfile `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Signup(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, c.authURL+"/signup", "", signupRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return AuthResponse{}, err
	}
	if err := checkAuthResponse(out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.doJSON(ctx, http.MethodPost, c.authURL+"/login", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return AuthResponse{}, err
	}
	if err := checkAuthResponse(out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

func (c *HTTPClient) Verify(ctx context.Context, token string) (models.UserProfile, error) {
	var out verifyResponse
	if err := c.doJSON(ctx, http.MethodGet, c.authURL+"/verify", token, nil, &out); err != nil {
		return models.UserProfile{}, err
	}
	if out.User == nil {
		return models.UserProfile{}, &APIError{Kind: ErrUnavailable, Status: http.StatusOK, Message: "verify response has no user"}
	}
	return *out.User, nil
}

func (c *HTTPClient) Analyze(ctx context.Context, filename string, image []byte) (AnalysisResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return AnalysisResponse{}, fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return AnalysisResponse{}, fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return AnalysisResponse{}, fmt.Errorf("build multipart body: %w", err)
	}

	var out analyzeResponse
	if err := c.do(ctx, http.MethodPost, c.apiURL+"/api/analyze", "", mw.FormDataContentType(), &body, &out); err != nil {
		return AnalysisResponse{}, err
	}
	return out.result()
}

// analyzeResponse is the raw analyze body. A 2xx may still carry an error
// or lack the aqi field.
type analyzeResponse struct {
	AQI      *int   `json:"aqi"`
	Category string `json:"category"`
	Error    string `json:"error"`
}

func (r analyzeResponse) result() (AnalysisResponse, error) {
	switch {
	case strings.TrimSpace(r.Error) != "":
		return AnalysisResponse{}, &APIError{Kind: ErrUnavailable, Status: http.StatusOK, Message: r.Error}
	case r.AQI == nil:
		return AnalysisResponse{}, &APIError{Kind: ErrUnavailable, Status: http.StatusOK, Message: "analysis response has no aqi"}
	case *r.AQI < 0:
		return AnalysisResponse{}, &APIError{Kind: ErrUnavailable, Status: http.StatusOK, Message: fmt.Sprintf("analysis response has negative aqi %d", *r.AQI)}
	}
	return AnalysisResponse{AQI: *r.AQI, Category: r.Category}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL+"/api/health", "", nil, &out); err != nil {
		return HealthStatus{}, err
	}
	return out, nil
}

func checkAuthResponse(r AuthResponse) error {
	if r.Token == "" || r.User.ID == "" {
		return &APIError{Kind: ErrUnavailable, Status: http.StatusOK, Message: "auth response is missing token or user"}
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, url, token string, in any, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, url, token, contentType, body, out)
}

func (c *HTTPClient) do(ctx context.Context, method, url, token, contentType string, body io.Reader, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := xid.New().String()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerHeader(token))
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "url", url, "request_id", requestID, "error", err)
		return &APIError{Kind: ErrUnavailable, Message: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Kind: ErrUnavailable, Status: resp.StatusCode, Message: "malformed response body", cause: err}
	}
	return nil
}

// mapError classifies a non-2xx response. A 4xx carrying {"error": "..."}
// is a rejection; anything else means the service is not usable right now.
func mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body errorResponse
	parsed := json.Unmarshal(raw, &body) == nil && strings.TrimSpace(body.Error) != ""

	if resp.StatusCode >= 500 || !parsed {
		msg := ""
		if parsed {
			msg = body.Error
		}
		return &APIError{Kind: ErrUnavailable, Status: resp.StatusCode, Message: msg}
	}
	return &APIError{Kind: ErrUnauthorized, Status: resp.StatusCode, Message: body.Error}
}

var (
	_ AuthAPI     = (*HTTPClient)(nil)
	_ AnalysisAPI = (*HTTPClient)(nil)
)

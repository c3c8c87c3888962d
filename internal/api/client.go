package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bar-access-app/internal/models"
	"bar-access-app/pkg/errors"
	"bar-access-app/pkg/logger"
)

// OTPRequestInfo is the server's reply to an OTP request. MaxAttempts is
// reported for display only and is never enforced locally.
type OTPRequestInfo struct {
	Message          string `json:"message"`
	MaxAttempts      int    `json:"max_attempts"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
}

// Requirements is the optional preflight reply describing what a token
// needs. Callers may use it to prime the UI but must never depend on it;
// the access protocol discovers requirements reactively.
type Requirements struct {
	RequireOtp  bool `json:"require_otp"`
	HasPassword bool `json:"has_password"`
}

// Client defines the interface for talking to the access endpoints
type Client interface {
	// AccessShare issues the access call for a remotely stored container
	AccessShare(ctx context.Context, token, password string) (*models.AccessResult, error)

	// RequestOTP asks the server to email a one-time passcode for the token
	RequestOTP(ctx context.Context, token string) (*OTPRequestInfo, error)

	// VerifyOTP submits a passcode for server-side verification
	VerifyOTP(ctx context.Context, token, code string) error

	// DecryptUpload submits an offline container for server-side decryption
	DecryptUpload(ctx context.Context, filename string, containerData []byte, password string) (*models.AccessResult, *models.ContainerMetadata, error)

	// CheckRequirements fetches the optional preflight info for a token
	CheckRequirements(ctx context.Context, token string) (*Requirements, error)

	// Health probes server liveness
	Health(ctx context.Context) error
}

// HTTPClient implements Client against the HTTP endpoint contract
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewHTTPClient creates a new API client for the given server base URL
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.NewWithComponent("api"),
	}
}

// AccessShare issues the access call for a remotely stored container.
// A 404 means the token is unknown or the container was already destroyed.
// A 403 means access was denied; the server's detail text is carried on the
// returned error so the caller can distinguish a wrong credential from a
// second-factor requirement.
func (c *HTTPClient) AccessShare(ctx context.Context, token, password string) (*models.AccessResult, error) {
	if token == "" {
		return nil, errors.NewAppError(errors.ErrValidationFailed, "share token cannot be empty", nil)
	}

	payload, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrUnknownError, "failed to encode access request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/share/"+url.PathEscape(token), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrUnknownError, "failed to build access request")
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.InfoWithFields("Requesting share access", map[string]interface{}{
		"token_prefix": logger.MaskToken(token),
		"has_password": password != "",
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ClassifyError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return ReadAccessResult(resp)
	case http.StatusNotFound:
		return nil, errors.NewAccessError(errors.ErrNotFound,
			"container not found or already destroyed", c.readDetail(resp))
	case http.StatusForbidden:
		return nil, errors.NewAccessError(errors.ErrAccessDenied,
			"access denied by server", c.readDetail(resp))
	default:
		return nil, c.statusError(resp)
	}
}

// RequestOTP asks the server to email a one-time passcode for the token
func (c *HTTPClient) RequestOTP(ctx context.Context, token string) (*OTPRequestInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/request-otp/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrUnknownError, "failed to build OTP request")
	}

	c.logger.InfoWithFields("Requesting OTP delivery", map[string]interface{}{
		"token_prefix": logger.MaskToken(token),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ClassifyError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var info OTPRequestInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return nil, errors.WrapError(err, errors.ErrServerError, "unreadable OTP request reply")
		}
		return &info, nil
	case http.StatusNotFound:
		return nil, errors.NewAccessError(errors.ErrNotFound,
			"container not found or already destroyed", c.readDetail(resp))
	default:
		return nil, c.statusError(resp)
	}
}

// VerifyOTP submits a passcode for server-side verification. The passcode is
// sent as a form field, matching the endpoint contract.
func (c *HTTPClient) VerifyOTP(ctx context.Context, token, code string) error {
	form := url.Values{"otp_code": {code}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/verify-otp/"+url.PathEscape(token), strings.NewReader(form.Encode()))
	if err != nil {
		return errors.WrapError(err, errors.ErrUnknownError, "failed to build OTP verification request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.InfoWithFields("Verifying OTP", map[string]interface{}{
		"token_prefix": logger.MaskToken(token),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.ClassifyError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusForbidden:
		return errors.NewAccessError(errors.ErrOtpRejected,
			"OTP verification failed", c.readDetail(resp))
	case http.StatusNotFound:
		return errors.NewAccessError(errors.ErrNotFound,
			"container not found or already destroyed", c.readDetail(resp))
	default:
		return c.statusError(resp)
	}
}

// DecryptUpload submits an offline container for server-side decryption and
// returns the decrypted result plus the container metadata the server
// reports via the metadata header.
func (c *HTTPClient) DecryptUpload(ctx context.Context, filename string, containerData []byte, password string) (*models.AccessResult, *models.ContainerMetadata, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrUnknownError, "failed to build upload body")
	}
	if _, err := part.Write(containerData); err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrUnknownError, "failed to write upload body")
	}
	if err := writer.WriteField("password", password); err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrUnknownError, "failed to write upload body")
	}
	if err := writer.Close(); err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrUnknownError, "failed to finish upload body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/decrypt-upload", &buf)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.ErrUnknownError, "failed to build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.logger.InfoWithFields("Uploading container for decryption", map[string]interface{}{
		"file_name": filename,
		"size":      len(containerData),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, errors.ClassifyError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		result, err := ReadAccessResult(resp)
		if err != nil {
			return nil, nil, err
		}
		return result, readMetadataHeader(resp), nil
	case http.StatusBadRequest:
		return nil, nil, errors.NewAccessError(errors.ErrValidationFailed,
			"server rejected the uploaded file", c.readDetail(resp))
	case http.StatusForbidden:
		return nil, nil, errors.NewAccessError(errors.ErrAccessDenied,
			"access denied by server", c.readDetail(resp))
	case http.StatusNotFound:
		return nil, nil, errors.NewAccessError(errors.ErrNotFound,
			"container not found or already destroyed", c.readDetail(resp))
	default:
		return nil, nil, c.statusError(resp)
	}
}

// CheckRequirements fetches the optional preflight info for a token.
// Failures here are expected on older servers; callers ignore them.
func (c *HTTPClient) CheckRequirements(ctx context.Context, token string) (*Requirements, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/check-2fa/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrUnknownError, "failed to build preflight request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.ClassifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(resp)
	}

	var reqs Requirements
	if err := json.NewDecoder(resp.Body).Decode(&reqs); err != nil {
		return nil, errors.WrapError(err, errors.ErrServerError, "unreadable preflight reply")
	}
	return &reqs, nil
}

// Health probes server liveness. Any 2xx status counts as healthy.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return errors.WrapError(err, errors.ErrUnknownError, "failed to build health request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.ClassifyError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAppError(errors.ErrServerError,
			fmt.Sprintf("health probe returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// readDetail extracts the server's free-text error detail, if any
func (c *HTTPClient) readDetail(resp *http.Response) string {
	var body struct {
		Detail string `json:"detail"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return ""
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return body.Detail
}

// statusError converts an unexpected HTTP status into an application error
func (c *HTTPClient) statusError(resp *http.Response) *errors.AppError {
	detail := c.readDetail(resp)
	code := errors.ErrServerError
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		code = errors.ErrValidationFailed
	}
	err := errors.NewAccessError(code,
		fmt.Sprintf("server returned status %d", resp.StatusCode), detail)
	c.logger.WarnWithFields("Unexpected server status", map[string]interface{}{
		"status": resp.StatusCode,
	})
	return err
}

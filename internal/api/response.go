package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"bar-access-app/internal/models"
	"bar-access-app/pkg/errors"
)

// Response headers forming the out-of-band signal contract of a successful
// access call. Matching is case-insensitive per HTTP semantics.
const (
	HeaderFilename       = "X-Bar-Filename"
	HeaderViewsRemaining = "X-Bar-Views-Remaining"
	HeaderShouldDestroy  = "X-Bar-Should-Destroy"
	HeaderViewOnly       = "X-Bar-View-Only"
	HeaderAutoRefresh    = "X-Bar-Auto-Refresh-Seconds"
	HeaderStorageMode    = "X-Bar-Storage-Mode"
	HeaderMetadata       = "X-Bar-Metadata"
)

// ReadAccessResult extracts the standardized signal fields from a
// successful access response and constructs an AccessResult. Every field
// has a defined fallback: views-remaining and auto-refresh default to 0,
// and a missing destroy flag is treated as false so a dropped header never
// falsely invalidates the session.
func ReadAccessResult(resp *http.Response) (*models.AccessResult, error) {
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrNetworkError, "failed to read response payload")
	}

	result := &models.AccessResult{
		Payload:            payload,
		ContentType:        resp.Header.Get("Content-Type"),
		Filename:           resp.Header.Get(HeaderFilename),
		ViewsRemaining:     headerInt(resp, HeaderViewsRemaining, 0),
		ShouldDestroy:      headerFlag(resp, HeaderShouldDestroy),
		ViewOnly:           headerFlag(resp, HeaderViewOnly),
		AutoRefreshSeconds: headerInt(resp, HeaderAutoRefresh, 0),
	}

	switch models.StorageMode(resp.Header.Get(HeaderStorageMode)) {
	case models.StorageModeServer:
		result.StorageMode = models.StorageModeServer
	case models.StorageModeClient:
		result.StorageMode = models.StorageModeClient
	}

	if result.Filename == "" {
		result.Filename = "decrypted_file"
	}

	return result, nil
}

// readMetadataHeader parses the metadata header present on decrypt-upload
// responses. A missing or unreadable header yields nil rather than an
// error; the decrypted result is still usable without it.
func readMetadataHeader(resp *http.Response) *models.ContainerMetadata {
	raw := resp.Header.Get(HeaderMetadata)
	if raw == "" {
		return nil
	}
	var meta models.ContainerMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil
	}
	return &meta
}

// headerFlag reads a boolean signal header; anything but "true" is false
func headerFlag(resp *http.Response, name string) bool {
	return strings.EqualFold(resp.Header.Get(name), "true")
}

// headerInt reads an integer signal header with a fallback
func headerInt(resp *http.Response, name string, fallback int) int {
	raw := resp.Header.Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

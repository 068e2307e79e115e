package api

import (
	"context"
	"strings"
)

// AdminSettings is one named settings document, such as "mail" or "general".
type AdminSettings struct {
	ID        *EntityID      `json:"id,omitempty"`
	Key       string         `json:"key"`
	JSONValue map[string]any `json:"jsonValue"`
}

// UpdateMessage reports whether a newer platform release exists.
type UpdateMessage struct {
	UpdateAvailable bool   `json:"updateAvailable"`
	CurrentVersion  string `json:"currentVersion,omitempty"`
	LatestVersion   string `json:"latestVersion,omitempty"`
	Message         string `json:"message,omitempty"`
}

// SystemInfo returns the server's node and resource report. The shape
// differs between monolith and microservice deployments, so it is left
// untyped.
func (s AdminService) SystemInfo(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := invokeInto(ctx, s, "getSystemInfo", Call{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Settings returns the settings stored under key. With systemByDefault a
// tenant falls back to the system value when it has none of its own.
func (s AdminService) Settings(ctx context.Context, key string, systemByDefault bool) (*AdminSettings, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, &MissingParameterError{Name: "key"}
	}
	params := map[string]any{"key": key}
	if systemByDefault {
		params["systemByDefault"] = true
	}
	var out AdminSettings
	if err := invokeInto(ctx, s, "getAdminSettings", Call{Params: params}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveSettings stores settings and returns the saved document.
func (s AdminService) SaveSettings(ctx context.Context, settings AdminSettings) (*AdminSettings, error) {
	var out AdminSettings
	if err := invokeInto(ctx, s, "saveAdminSettings", Call{Body: settings}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckUpdates asks the server whether a platform update is available.
func (s AdminService) CheckUpdates(ctx context.Context) (*UpdateMessage, error) {
	var out UpdateMessage
	if err := invokeInto(ctx, s, "checkUpdates", Call{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

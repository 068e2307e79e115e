package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Input limits mirrored from ThingsBoard's entity constraints.
const (
	MaxNameLength  = 255
	MaxEmailLength = 320
	MaxKeyLength   = 255
	MaxJSONPayload = 1 << 20
)

// IsEntityID reports whether s is a ThingsBoard entity id (a UUID).
func IsEntityID(s string) bool {
	_, err := uuid.Parse(strings.TrimSpace(s))
	return err == nil && len(strings.TrimSpace(s)) == 36
}

// ValidateEntityID returns an error naming field when s is not a UUID.
func ValidateEntityID(s, field string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if !IsEntityID(s) {
		return fmt.Errorf("invalid %s %q: expected a UUID", field, s)
	}
	return nil
}

// ValidateName checks an entity name or title.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return fmt.Errorf("name exceeds maximum length of %d characters (got %d)", MaxNameLength, n)
	}
	return nil
}

// ValidateEmail checks format and length. Empty is allowed.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if n := utf8.RuneCountInString(email); n > MaxEmailLength {
		return fmt.Errorf("email exceeds maximum length of %d characters (got %d)", MaxEmailLength, n)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// ValidateKeys checks telemetry or attribute keys.
func ValidateKeys(keys []string) error {
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("keys cannot contain empty values")
		}
		if strings.Contains(k, ",") {
			return fmt.Errorf("invalid key %q: commas separate keys", k)
		}
		if utf8.RuneCountInString(k) > MaxKeyLength {
			return fmt.Errorf("key %q exceeds maximum length of %d characters", k, MaxKeyLength)
		}
	}
	return nil
}

// ValidateJSONPayload checks a raw JSON body size.
func ValidateJSONPayload(payload string) error {
	if strings.TrimSpace(payload) == "" {
		return fmt.Errorf("JSON payload cannot be empty")
	}
	if len(payload) > MaxJSONPayload {
		return fmt.Errorf("JSON payload exceeds maximum size of %d bytes (got %d)", MaxJSONPayload, len(payload))
	}
	return nil
}

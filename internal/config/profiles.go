package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/99designs/keyring"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	accountKey        = "default"
	defaultProfile    = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"

	envBaseURL      = "TB_BASE_URL"
	envToken        = "TB_TOKEN"
	envRefreshToken = "TB_REFRESH_TOKEN"
	envProfile      = "TB_PROFILE"
)

// ErrNotConfigured is returned when no profile is stored.
var ErrNotConfigured = errors.New("thingsboard not configured - run 'tb auth login' first")

// Profile holds the connection details for one ThingsBoard server login.
// Token is the JWT from /api/auth/login; RefreshToken renews it.
type Profile struct {
	BaseURL      string `json:"base_url"`
	Username     string `json:"username,omitempty"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	TenantID     string `json:"tenant_id,omitempty"`
	Authority    string `json:"authority,omitempty"`
}

func open() (keyring.Keyring, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring, nil
}

func orDefault(name string) string {
	if name == "" {
		return defaultProfile
	}
	return name
}

func profileKey(name string) string {
	if orDefault(name) == defaultProfile {
		return accountKey
	}
	return profilePrefix + name
}

// getJSON decodes the item at key into dst. found is false when the key
// does not exist.
func getJSON(ring keyring.Keyring, key, what string, dst any) (found bool, err error) {
	item, err := ring.Get(key)
	switch {
	case errors.Is(err, keyring.ErrKeyNotFound):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to get %s: %w", what, err)
	}
	if err := json.Unmarshal(item.Data, dst); err != nil {
		return true, fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	return true, nil
}

func loadProfileIndex(ring keyring.Keyring) ([]string, error) {
	names := []string{}
	if _, err := getJSON(ring, profileIndexKey, "profile index", &names); err != nil {
		return nil, err
	}
	return names, nil
}

func saveProfileIndex(ring keyring.Keyring, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return ring.Set(keyring.Item{Key: profileIndexKey, Data: data})
}

// normalizeProfiles trims names and drops blanks and repeats, keeping order.
func normalizeProfiles(names []string) []string {
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// LoadActive returns the profile in effect and where it came from:
// TB_BASE_URL with TB_TOKEN ("env"), then TB_PROFILE, then the current
// keyring profile.
func LoadActive() (Profile, string, error) {
	if baseURL := strings.TrimSpace(os.Getenv(envBaseURL)); baseURL != "" {
		token := strings.TrimSpace(os.Getenv(envToken))
		if token == "" {
			return Profile{}, "", fmt.Errorf("%s is set but %s is empty", envBaseURL, envToken)
		}
		return Profile{
			BaseURL:      strings.TrimSuffix(baseURL, "/"),
			Token:        token,
			RefreshToken: strings.TrimSpace(os.Getenv(envRefreshToken)),
		}, "env", nil
	}

	name := strings.TrimSpace(os.Getenv(envProfile))
	if name == "" {
		var err error
		if name, err = CurrentProfile(); err != nil {
			return Profile{}, "", err
		}
	}
	p, err := LoadProfile(name)
	return p, name, err
}

// LoadProfile returns a stored profile.
func LoadProfile(name string) (Profile, error) {
	ring, err := open()
	if err != nil {
		return Profile{}, err
	}
	var p Profile
	found, err := getJSON(ring, profileKey(name), "profile", &p)
	if err != nil {
		return Profile{}, err
	}
	if !found {
		return Profile{}, ErrNotConfigured
	}
	return p, nil
}

// SaveProfile stores a profile, indexes it and makes it current.
func SaveProfile(name string, p Profile) error {
	name = orDefault(name)
	ring, err := open()
	if err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	err = ring.Set(keyring.Item{
		Key:         profileKey(name),
		Data:        data,
		Label:       serviceName + " " + name,
		Description: p.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	names, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	if err := saveProfileIndex(ring, normalizeProfiles(append(names, name))); err != nil {
		return err
	}
	return SetCurrentProfile(name)
}

// UpdateTokens swaps the tokens of a stored profile after a refresh. An
// empty refreshToken keeps the old one.
func UpdateTokens(name, token, refreshToken string) error {
	p, err := LoadProfile(name)
	if err != nil {
		return err
	}
	p.Token = token
	if refreshToken != "" {
		p.RefreshToken = refreshToken
	}
	return SaveProfile(name, p)
}

// DeleteProfile removes a stored profile. Deleting the current profile
// promotes the first remaining one.
func DeleteProfile(name string) error {
	name = orDefault(name)
	ring, err := open()
	if err != nil {
		return err
	}
	if err := ring.Remove(profileKey(name)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	names, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	names = slices.DeleteFunc(names, func(n string) bool { return n == name })
	if err := saveProfileIndex(ring, names); err != nil {
		return err
	}

	if current, err := CurrentProfile(); err == nil && current == name {
		next := defaultProfile
		if len(names) > 0 {
			next = names[0]
		}
		_ = SetCurrentProfile(next)
	}
	return nil
}

// ListProfiles returns the stored profile names. A keyring written before
// profiles were indexed reports its single "default" profile.
func ListProfiles() ([]string, error) {
	ring, err := open()
	if err != nil {
		return nil, err
	}
	names, err := loadProfileIndex(ring)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		if _, err := ring.Get(accountKey); err == nil {
			return []string{defaultProfile}, nil
		}
	}
	return names, nil
}

// CurrentProfile returns the active profile name.
func CurrentProfile() (string, error) {
	ring, err := open()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(currentProfileKey)
	switch {
	case errors.Is(err, keyring.ErrKeyNotFound):
		return defaultProfile, nil
	case err != nil:
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(item.Data), nil
}

// SetCurrentProfile sets the active profile name.
func SetCurrentProfile(name string) error {
	ring, err := open()
	if err != nil {
		return err
	}
	return ring.Set(keyring.Item{Key: currentProfileKey, Data: []byte(orDefault(name))})
}

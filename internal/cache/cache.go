// Package cache keeps short-lived entity listings on disk so name lookups
// (device "Boiler Pump" to its id) do not list the tenant on every call.
//
// Cache files are JSON, scoped per entity kind, server URL and user scope
// (the JWT userId claim). Default TTL is 5 minutes. Disable with
// TB_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultTTL = 5 * time.Minute

type entry struct {
	CachedAt time.Time           `json:"cached_at"`
	Items    jsoniter.RawMessage `json:"items"`
}

// Store reads and writes a single cache key.
type Store struct {
	path string
	ttl  time.Duration
}

// NewStore creates a Store with the default TTL. kind is the entity kind
// ("devices"), scope separates users sharing a server.
func NewStore(dir, kind, baseURL, scope string) *Store {
	return NewStoreWithTTL(dir, kind, baseURL, scope, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, kind, baseURL, scope string, ttl time.Duration) *Store {
	hash := sha1.Sum([]byte(baseURL + "\x00" + scope))
	filename := fmt.Sprintf("%s_%s.json", sanitizeKind(kind), hex.EncodeToString(hash[:6]))
	return &Store{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

// Path returns the cache file location.
func (s *Store) Path() string { return s.path }

// Get loads cached items into dst. It returns false on a miss: no file,
// expired entry, undecodable content or caching disabled.
func (s *Store) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Put writes items to the cache. Errors are ignored.
func (s *Store) Put(items any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Items:    raw,
	})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes every cache file in dir. Only files matching the cache
// naming scheme are touched. It returns the number of files removed.
func ClearAll(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}

// DefaultDir returns TB_CACHE_DIR when set, else "$XDG_CACHE_HOME/tb-cli"
// or the platform equivalent.
func DefaultDir() (string, error) {
	if dir := os.Getenv("TB_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tb-cli"), nil
}

func disabled() bool {
	v := os.Getenv("TB_NO_CACHE")
	return v != "" && v != "0" && !strings.EqualFold(v, "false")
}

func sanitizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return "cache"
	}
	return strings.NewReplacer("/", "-", "\\", "-", "_", "-", ".", "-").Replace(kind)
}

// isCacheFilename matches "<kind>_<12 hex>.json".
func isCacheFilename(name string) bool {
	if filepath.Ext(name) != ".json" {
		return false
	}
	kind, hash, ok := strings.Cut(strings.TrimSuffix(name, ".json"), "_")
	if !ok || kind == "" || len(hash) != 12 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

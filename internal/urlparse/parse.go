// Package urlparse extracts entity references from ThingsBoard web UI URLs.
package urlparse

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/thingsboard/tb-cli/internal/api"
)

// ParsedURL is an entity reference taken from a UI URL such as
// https://tb.example.com/entities/devices/<uuid>.
type ParsedURL struct {
	BaseURL    string
	EntityType string
	ID         string // empty for list pages
	GroupID    string // set for entity group pages
}

// UI path segments mapped to entity types.
var resourceTypes = map[string]string{
	"devices":     api.EntityDevice,
	"assets":      api.EntityAsset,
	"customers":   api.EntityCustomer,
	"tenants":     api.EntityTenant,
	"dashboards":  api.EntityDashboard,
	"ruleChains":  api.EntityRuleChain,
	"users":       api.EntityUser,
	"edges":       api.EntityEdge,
	"alarms":      api.EntityAlarm,
	"entityViews": "ENTITY_VIEW",
}

// LooksLikeURL reports whether s should be parsed as a URL rather than
// treated as an id or name.
func LooksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Parse extracts the entity type and id from a ThingsBoard UI URL. It
// understands plain pages (/entities/devices/<id>, /dashboards/<id>) and
// group pages (/entities/devices/groups/<group>/<id>, /customers/all/<id>).
func Parse(rawURL string) (*ParsedURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}

	segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
	if len(segments) > 0 && segments[0] == "entities" {
		segments = segments[1:]
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("URL %q does not point at an entity", rawURL)
	}
	entityType, ok := resourceTypes[segments[0]]
	if !ok {
		return nil, fmt.Errorf("unsupported resource %q: expected one of %s", segments[0], strings.Join(supported(), ", "))
	}

	out := &ParsedURL{
		BaseURL:    parsed.Scheme + "://" + parsed.Host,
		EntityType: entityType,
	}
	rest := segments[1:]
	switch {
	case len(rest) >= 2 && rest[0] == "groups":
		if !isUUID(rest[1]) {
			return nil, fmt.Errorf("invalid group id %q", rest[1])
		}
		out.GroupID = rest[1]
		rest = rest[2:]
	case len(rest) >= 1 && rest[0] == "all":
		rest = rest[1:]
	}
	if len(rest) > 0 {
		if !isUUID(rest[0]) {
			return nil, fmt.Errorf("invalid %s id %q: expected a UUID", strings.ToLower(entityType), rest[0])
		}
		out.ID = rest[0]
	}
	return out, nil
}

// HasID reports whether the URL names a single entity.
func (p *ParsedURL) HasID() bool {
	return p.ID != ""
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil && len(s) == 36
}

func supported() []string {
	out := make([]string, 0, len(resourceTypes))
	for k := range resourceTypes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

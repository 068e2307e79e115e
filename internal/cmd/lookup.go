package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thingsboard/tb-cli/internal/api"
	"github.com/thingsboard/tb-cli/internal/cache"
	"github.com/thingsboard/tb-cli/internal/resolve"
	"github.com/thingsboard/tb-cli/internal/urlparse"
	"github.com/thingsboard/tb-cli/internal/validation"
)

// lookupPageSize is the size of the first page names are matched against.
const lookupPageSize = 1000

// entityKind lists the entities of one kind as id/name pairs.
type entityKind struct {
	name       string
	entityType string
	fetch      func(ctx context.Context, client *api.Client) ([]resolve.Named, error)
}

func lookupPage() api.PageParams {
	return api.DefaultPage(lookupPageSize)
}

var (
	deviceKind = entityKind{name: "devices", entityType: api.EntityDevice, fetch: func(ctx context.Context, c *api.Client) ([]resolve.Named, error) {
		page, err := c.Devices().List(ctx, api.TypedPageParams{PageParams: lookupPage()})
		if err != nil {
			return nil, err
		}
		return namedFrom(page.Data, func(d api.Device) (string, string) { return idOf(d.ID), d.Name }), nil
	}}
	assetKind = entityKind{name: "assets", entityType: api.EntityAsset, fetch: func(ctx context.Context, c *api.Client) ([]resolve.Named, error) {
		page, err := c.Assets().List(ctx, api.TypedPageParams{PageParams: lookupPage()})
		if err != nil {
			return nil, err
		}
		return namedFrom(page.Data, func(a api.Asset) (string, string) { return idOf(a.ID), a.Name }), nil
	}}
	customerKind = entityKind{name: "customers", entityType: api.EntityCustomer, fetch: func(ctx context.Context, c *api.Client) ([]resolve.Named, error) {
		page, err := c.Customers().List(ctx, lookupPage())
		if err != nil {
			return nil, err
		}
		return namedFrom(page.Data, func(cu api.Customer) (string, string) { return idOf(cu.ID), cu.Title }), nil
	}}
	tenantKind = entityKind{name: "tenants", entityType: api.EntityTenant, fetch: func(ctx context.Context, c *api.Client) ([]resolve.Named, error) {
		page, err := c.Tenants().List(ctx, lookupPage())
		if err != nil {
			return nil, err
		}
		return namedFrom(page.Data, func(t api.Tenant) (string, string) { return t.ID.ID, t.Title }), nil
	}}
	dashboardKind = entityKind{name: "dashboards", entityType: api.EntityDashboard, fetch: func(ctx context.Context, c *api.Client) ([]resolve.Named, error) {
		page, err := c.Dashboards().ListForUser(ctx, lookupPage())
		if err != nil {
			return nil, err
		}
		return namedFrom(page.Data, func(d api.DashboardInfo) (string, string) { return d.ID.ID, d.Title }), nil
	}}
	ruleChainKind = entityKind{name: "rule-chains", entityType: api.EntityRuleChain, fetch: func(ctx context.Context, c *api.Client) ([]resolve.Named, error) {
		page, err := c.RuleChains().List(ctx, api.TypedPageParams{PageParams: lookupPage()})
		if err != nil {
			return nil, err
		}
		return namedFrom(page.Data, func(r api.RuleChain) (string, string) { return r.ID.ID, r.Name }), nil
	}}
	userKind = entityKind{name: "users", entityType: api.EntityUser, fetch: func(ctx context.Context, c *api.Client) ([]resolve.Named, error) {
		page, err := c.Users().List(ctx, lookupPage())
		if err != nil {
			return nil, err
		}
		return namedFrom(page.Data, func(u api.User) (string, string) { return u.ID.ID, u.Email }), nil
	}}
)

// kindsByEntityType maps entity types to their name lookup.
var kindsByEntityType = map[string]entityKind{
	api.EntityDevice:    deviceKind,
	api.EntityAsset:     assetKind,
	api.EntityCustomer:  customerKind,
	api.EntityTenant:    tenantKind,
	api.EntityDashboard: dashboardKind,
	api.EntityRuleChain: ruleChainKind,
	api.EntityUser:      userKind,
}

func namedFrom[T any](items []T, fn func(T) (string, string)) []resolve.Named {
	out := make([]resolve.Named, 0, len(items))
	for _, item := range items {
		id, name := fn(item)
		if id != "" {
			out = append(out, resolve.Named{ID: id, Name: name})
		}
	}
	return out
}

// resolveID turns a UUID or a name into an entity id. Names are matched
// against the cached first page of the kind's listing; a miss on cached
// data refetches once before failing.
func resolveID(ctx context.Context, client *api.Client, kind entityKind, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("%s id or name is required", strings.TrimSuffix(kind.name, "s"))
	}
	if validation.IsEntityID(arg) {
		return arg, nil
	}
	if urlparse.LooksLikeURL(arg) {
		entity, err := entityFromURL(arg)
		if err != nil {
			return "", err
		}
		if entity.EntityType != kind.entityType {
			return "", fmt.Errorf("URL points at a %s, expected a %s", entity.EntityType, kind.entityType)
		}
		return entity.ID, nil
	}

	store := entityCache(client, kind.name)
	var items []resolve.Named
	cached := store != nil && store.Get(&items)
	if !cached {
		fresh, err := kind.fetch(ctx, client)
		if err != nil {
			return "", err
		}
		items = fresh
		if store != nil {
			store.Put(items)
		}
	}

	id, err := resolve.FuzzyMatch(arg, items)
	var notFound *resolve.NotFoundError
	if cached && (errors.As(err, &notFound) || errors.Is(err, resolve.ErrEmptyItems)) {
		slog.Debug("cached names missed, refetching", "kind", kind.name, "query", arg)
		fresh, ferr := kind.fetch(ctx, client)
		if ferr != nil {
			return "", ferr
		}
		store.Put(fresh)
		id, err = resolve.FuzzyMatch(arg, fresh)
	}
	if err != nil {
		if errors.Is(err, resolve.ErrEmptyItems) {
			return "", fmt.Errorf("no %s found to match %q against", kind.name, arg)
		}
		return "", err
	}
	slog.Debug("resolved name", "kind", kind.name, "query", arg, "id", id)
	return id, nil
}

// resolveEntity parses "[TYPE:]idOrName" with defaultType used when no
// type prefix is given.
func resolveEntity(ctx context.Context, client *api.Client, arg, defaultType string) (api.EntityID, error) {
	if urlparse.LooksLikeURL(arg) {
		return entityFromURL(arg)
	}
	entityType := defaultType
	if prefix, rest, ok := strings.Cut(arg, ":"); ok {
		norm, err := api.NormalizeEntityType(prefix)
		if err != nil {
			return api.EntityID{}, err
		}
		entityType, arg = norm, rest
	}
	if entityType == "" {
		return api.EntityID{}, fmt.Errorf("entity type is required (use TYPE:id, e.g. DEVICE:%s)", arg)
	}
	if validation.IsEntityID(arg) {
		return api.EntityID{ID: strings.TrimSpace(arg), EntityType: entityType}, nil
	}
	kind, ok := kindsByEntityType[entityType]
	if !ok {
		return api.EntityID{}, fmt.Errorf("invalid %s id %q: expected a UUID", strings.ToLower(entityType), arg)
	}
	id, err := resolveID(ctx, client, kind, arg)
	if err != nil {
		return api.EntityID{}, err
	}
	return api.EntityID{ID: id, EntityType: entityType}, nil
}

// entityFromURL reads an entity reference out of a web UI link.
func entityFromURL(raw string) (api.EntityID, error) {
	parsed, err := urlparse.Parse(raw)
	if err != nil {
		return api.EntityID{}, err
	}
	if !parsed.HasID() {
		return api.EntityID{}, fmt.Errorf("URL %q is a list page, not a single entity", raw)
	}
	return api.EntityID{ID: parsed.ID, EntityType: parsed.EntityType}, nil
}

// entityCache is scoped per server and user, so a refreshed JWT keeps
// the same cache file.
func entityCache(client *api.Client, kind string) *cache.Store {
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil
	}
	scope := api.TokenUserID(client.Token)
	if scope == "" {
		scope = client.Token
	}
	return cache.NewStore(dir, kind, client.BaseURL, scope)
}

// forgetNames drops the cached names of kind after a create or delete.
func forgetNames(client *api.Client, kind entityKind) {
	if store := entityCache(client, kind.name); store != nil {
		store.Clear()
	}
}

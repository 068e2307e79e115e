package api

import (
	"context"
	"strings"
)

// Attribute scopes.
const (
	ScopeServer = "SERVER_SCOPE"
	ScopeShared = "SHARED_SCOPE"
	ScopeClient = "CLIENT_SCOPE"
)

// AttributeScopes lists the valid attribute scopes.
var AttributeScopes = []string{ScopeServer, ScopeShared, ScopeClient}

// timeseriesScope is the only scope the time series endpoints accept.
const timeseriesScope = "ANY"

func entityParams(entity EntityID) map[string]any {
	return map[string]any{"entityType": entity.EntityType, "entityId": entity.ID}
}

func checkScope(scope string) error {
	for _, s := range AttributeScopes {
		if s == scope {
			return nil
		}
	}
	return NewValidationError("scope", scope, AttributeScopes)
}

// AttributeKeys lists attribute keys of an entity across all scopes.
func (s TelemetryService) AttributeKeys(ctx context.Context, entity EntityID) ([]string, error) {
	var keys []string
	err := invokeInto(ctx, s, "getAttributeKeys", Call{Params: entityParams(entity)}, &keys)
	return keys, err
}

// TimeseriesKeys lists time series keys of an entity.
func (s TelemetryService) TimeseriesKeys(ctx context.Context, entity EntityID) ([]string, error) {
	var keys []string
	err := invokeInto(ctx, s, "getTimeseriesKeys", Call{Params: entityParams(entity)}, &keys)
	return keys, err
}

// Attributes returns attribute values. An empty scope reads all scopes and
// empty keys read every key.
func (s TelemetryService) Attributes(ctx context.Context, entity EntityID, scope string, keys []string) ([]AttributeKV, error) {
	params := entityParams(entity)
	operation := "getAttributes"
	if scope != "" {
		if err := checkScope(scope); err != nil {
			return nil, err
		}
		params["scope"] = scope
		operation = "getAttributesByScope"
	}
	if len(keys) > 0 {
		params["keys"] = strings.Join(keys, ",")
	}
	var out []AttributeKV
	if err := invokeInto(ctx, s, operation, Call{Params: params}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Latest returns the newest sample of each key. Empty keys read every key.
func (s TelemetryService) Latest(ctx context.Context, entity EntityID, keys []string, strictTypes bool) (map[string][]TsValue, error) {
	params := entityParams(entity)
	if len(keys) > 0 {
		params["keys"] = strings.Join(keys, ",")
	}
	if strictTypes {
		params["useStrictDataTypes"] = true
	}
	out := map[string][]TsValue{}
	if err := invokeInto(ctx, s, "getLatestTimeseries", Call{Params: params}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns samples in the window described by params.
func (s TelemetryService) History(ctx context.Context, entity EntityID, params TimeseriesParams) (map[string][]TsValue, error) {
	typed, err := toParams(params)
	if err != nil {
		return nil, err
	}
	out := map[string][]TsValue{}
	call := Call{Params: withParams(typed, entityParams(entity))}
	if err := invokeInto(ctx, s, "getTimeseries", call, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveTelemetry posts time series data: either a flat key/value object or
// {"ts": ..., "values": {...}} entries.
func (s TelemetryService) SaveTelemetry(ctx context.Context, entity EntityID, data any) error {
	params := entityParams(entity)
	params["scope"] = timeseriesScope
	return invokeInto(ctx, s, "saveEntityTelemetry", Call{Params: params, Body: data}, nil)
}

// SaveAttributes writes attributes into scope.
func (s TelemetryService) SaveAttributes(ctx context.Context, entity EntityID, scope string, data any) error {
	if err := checkScope(scope); err != nil {
		return err
	}
	params := entityParams(entity)
	params["scope"] = scope
	return invokeInto(ctx, s, "saveEntityAttributesV2", Call{Params: params, Body: data}, nil)
}

// DeleteTimeseries removes the given keys. Without a window every sample
// of the keys is removed.
func (s TelemetryService) DeleteTimeseries(ctx context.Context, entity EntityID, keys []string) error {
	params := entityParams(entity)
	params["keys"] = strings.Join(keys, ",")
	params["deleteAllDataForKeys"] = true
	return invokeInto(ctx, s, "deleteEntityTimeseries", Call{Params: params}, nil)
}

package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// SortOrder is the sortOrder query value of paged endpoints.
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// PageParams are shared by every paged listing.
type PageParams struct {
	PageSize     int       `mapstructure:"pageSize" validate:"min=1"`
	Page         int       `mapstructure:"page" validate:"min=0"`
	TextSearch   string    `mapstructure:"textSearch,omitempty"`
	SortProperty string    `mapstructure:"sortProperty,omitempty"`
	SortOrder    SortOrder `mapstructure:"sortOrder,omitempty" validate:"omitempty,oneof=ASC DESC"`
}

// DefaultPage returns the first page of size n.
func DefaultPage(n int) PageParams {
	return PageParams{PageSize: n}
}

// TypedPageParams adds the entity sub-type filter used by devices, assets
// and rule chains.
type TypedPageParams struct {
	PageParams `mapstructure:",squash"`
	Type       string `mapstructure:"type,omitempty"`
}

// AlarmQueryParams filter alarm listings.
type AlarmQueryParams struct {
	PageParams      `mapstructure:",squash"`
	SearchStatus    string `mapstructure:"searchStatus,omitempty" validate:"omitempty,oneof=ANY ACTIVE CLEARED ACK UNACK"`
	Status          string `mapstructure:"status,omitempty" validate:"omitempty,oneof=ACTIVE_UNACK ACTIVE_ACK CLEARED_UNACK CLEARED_ACK"`
	AssigneeID      string `mapstructure:"assigneeId,omitempty" validate:"omitempty,uuid"`
	StartTime       int64  `mapstructure:"startTime,omitempty" validate:"omitempty,min=0"`
	EndTime         int64  `mapstructure:"endTime,omitempty" validate:"omitempty,gtefield=StartTime"`
	FetchOriginator *bool  `mapstructure:"fetchOriginator,omitempty"`
}

// TimeseriesParams select a window of time series history.
type TimeseriesParams struct {
	Keys     string `mapstructure:"keys" validate:"required"`
	StartTs  int64  `mapstructure:"startTs" validate:"min=0"`
	EndTs    int64  `mapstructure:"endTs" validate:"gtefield=StartTs"`
	Interval int64  `mapstructure:"interval,omitempty" validate:"omitempty,min=1"`
	Limit    int    `mapstructure:"limit,omitempty" validate:"omitempty,min=1"`
	Agg      string `mapstructure:"agg,omitempty" validate:"omitempty,oneof=MIN MAX AVG SUM COUNT NONE"`
	OrderBy  string `mapstructure:"orderBy,omitempty" validate:"omitempty,oneof=ASC DESC"`
}

// ImageListParams filter image listings.
type ImageListParams struct {
	PageParams          `mapstructure:",squash"`
	ImageSubType        string `mapstructure:"imageSubType,omitempty" validate:"omitempty,oneof=IMAGE SCADA_SYMBOL"`
	IncludeSystemImages *bool  `mapstructure:"includeSystemImages,omitempty"`
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}()

// toParams validates a typed parameter struct and flattens it into the
// named-parameter map consumed by Endpoint.Build.
func toParams(v any) (map[string]any, error) {
	if err := validate.Struct(v); err != nil {
		return nil, validationError(err)
	}
	out := map[string]any{}
	if err := mapstructure.Decode(v, &out); err != nil {
		return nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	return out, nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	fe := fieldErrs[0]
	if fe.Tag() == "oneof" {
		return NewValidationError(fe.Field(), fmt.Sprint(fe.Value()), strings.Fields(fe.Param()))
	}
	msg := fmt.Sprintf("invalid %s %v: failed %q", fe.Field(), fe.Value(), fe.Tag())
	if fe.Param() != "" {
		msg = fmt.Sprintf("invalid %s %v: failed %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param())
	}
	se := NewStructuredError(ErrValidation, msg)
	se.Context = map[string]any{"field": fe.Field()}
	return se
}

// withParams merges extra named parameters over the typed ones.
func withParams(base map[string]any, extra map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(extra))
	}
	for k, v := range extra {
		base[k] = v
	}
	return base
}

package outfmt

import (
	"context"

	"github.com/thingsboard/tb-cli/internal/filter"
)

type queryKey struct{}

// WithQuery adds a jq expression to the context.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// GetQuery returns the jq expression from context.
func GetQuery(ctx context.Context) string {
	q, _ := ctx.Value(queryKey{}).(string)
	return q
}

// ApplyQuery runs query over v after converting v to plain JSON values.
func ApplyQuery(v any, query string) (any, error) {
	v = normalizeList(v)
	if query == "" {
		return v, nil
	}
	generic, err := toGeneric(v)
	if err != nil {
		return nil, err
	}
	return filter.Apply(generic, query)
}

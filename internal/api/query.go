package api

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// Query holds query-string parameters keyed by name. Values may be strings,
// numbers, booleans, pointers to those, or slices (one value per element).
type Query map[string]any

// MergeQuery copies every entry of extra into resolved and returns it.
// Keys present in both take the value from extra. A nil resolved map is
// allocated when extra has entries.
func MergeQuery(resolved, extra Query) Query {
	if len(extra) == 0 {
		return resolved
	}
	if resolved == nil {
		resolved = make(Query, len(extra))
	}
	for k, v := range extra {
		resolved[k] = v
	}
	return resolved
}

// Values converts the query into url.Values. Nil entries are skipped.
func (q Query) Values() url.Values {
	values := url.Values{}
	for k, v := range q {
		for _, s := range queryStrings(v) {
			values.Add(k, s)
		}
	}
	return values
}

// appendQuery adds q to the query already present on rawURL.
func appendQuery(rawURL string, q Query) (string, error) {
	if len(q) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}
	existing := u.Query()
	for k, vs := range q.Values() {
		existing.Del(k)
		for _, v := range vs {
			existing.Add(k, v)
		}
	}
	u.RawQuery = existing.Encode()
	return u.String(), nil
}

func queryStrings(v any) []string {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return []string{string(rv.Bytes())}
		}
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, queryStrings(rv.Index(i).Interface())...)
		}
		return out
	default:
		return []string{stringify(rv.Interface())}
	}
}

// stringify renders scalar parameter values the way they appear on the wire.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return stringify(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

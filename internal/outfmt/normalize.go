package outfmt

import "reflect"

// asRows returns the rows of a list value: a slice, or a ThingsBoard page
// object ({"data": [...], "totalPages": ...}) after a JSON round trip.
func asRows(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		if rows, ok := m["data"].([]any); ok {
			if _, paged := m["hasNext"]; paged {
				return rows, true
			}
		}
		return nil, false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
		rows := make([]any, rv.Len())
		for i := range rows {
			rows[i] = rv.Index(i).Interface()
		}
		return rows, true
	case reflect.Struct:
		if data := rv.FieldByName("Data"); data.IsValid() && data.Kind() == reflect.Slice && rv.FieldByName("HasNext").IsValid() {
			return asRows(data.Interface())
		}
	}
	return nil, false
}

// normalizeList turns nil slices into empty ones so lists render as [] rather
// than null.
func normalizeList(v any) any {
	if v == nil {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.IsNil() && rv.Type().Elem().Kind() != reflect.Uint8 {
		return []any{}
	}
	return v
}

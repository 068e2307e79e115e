package api

import (
	"errors"
	"testing"
)

func TestToParams_FlattensEmbeddedPage(t *testing.T) {
	fetch := true
	got, err := toParams(AlarmQueryParams{
		PageParams:      PageParams{PageSize: 50, Page: 2, SortOrder: SortDesc},
		SearchStatus:    "ACTIVE",
		FetchOriginator: &fetch,
	})
	if err != nil {
		t.Fatalf("toParams: %v", err)
	}
	if got["pageSize"] != 50 || got["page"] != 2 {
		t.Errorf("page fields = %v/%v", got["pageSize"], got["page"])
	}
	if got["sortOrder"] != SortDesc || got["searchStatus"] != "ACTIVE" {
		t.Errorf("got %v", got)
	}
	if _, ok := got["PageParams"]; ok {
		t.Error("embedded struct must be squashed")
	}
	for _, key := range []string{"textSearch", "status", "assigneeId", "startTime", "endTime"} {
		if _, ok := got[key]; ok {
			t.Errorf("zero %s should be omitted", key)
		}
	}
}

func TestToParams_ZeroPageKept(t *testing.T) {
	got, err := toParams(DefaultPage(10))
	if err != nil {
		t.Fatalf("toParams: %v", err)
	}
	if v, ok := got["page"]; !ok || v != 0 {
		t.Errorf("page = %v (present %v)", v, ok)
	}
}

func TestToParams_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params any
		code   ErrorCode
		field  string
	}{
		{"page size", PageParams{PageSize: 0}, ErrValidation, "pageSize"},
		{"sort order", PageParams{PageSize: 1, SortOrder: "UP"}, ErrValidation, "sortOrder"},
		{"search status", AlarmQueryParams{PageParams: DefaultPage(1), SearchStatus: "OPEN"}, ErrValidation, "searchStatus"},
		{"assignee uuid", AlarmQueryParams{PageParams: DefaultPage(1), AssigneeID: "bob"}, ErrValidation, "assigneeId"},
		{"end before start", TimeseriesParams{Keys: "t", StartTs: 10, EndTs: 5}, ErrValidation, "endTs"},
		{"keys required", TimeseriesParams{EndTs: 5}, ErrValidation, "keys"},
		{"image sub type", ImageListParams{PageParams: DefaultPage(1), ImageSubType: "GIF"}, ErrValidation, "imageSubType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := toParams(tt.params)
			var se *StructuredError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StructuredError, got %v", err)
			}
			if se.Code != tt.code {
				t.Errorf("Code = %s, want %s", se.Code, tt.code)
			}
			if se.Context["field"] != tt.field {
				t.Errorf("field = %v, want %s", se.Context["field"], tt.field)
			}
		})
	}
}

func TestWithParams(t *testing.T) {
	got := withParams(map[string]any{"a": 1, "b": 2}, map[string]any{"b": 3})
	if got["a"] != 1 || got["b"] != 3 {
		t.Errorf("withParams() = %v", got)
	}
	if got := withParams(nil, map[string]any{"x": "y"}); got["x"] != "y" {
		t.Errorf("withParams(nil) = %v", got)
	}
}

package conv

import (
	"reflect"
	"testing"
)

func TestSliceAnyToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "strings", in: []string{"c1"}, want: []string{"c1"}},
		{name: "yaml list with numbers", in: []any{"c1", 42, 7.0, true}, want: []string{"c1", "42", "7", "1"}},
		{name: "skip unsupported", in: []any{"c1", map[string]any{}}, want: []string{"c1"}},
		{name: "not a list", in: "c1", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SliceAnyToString(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SliceAnyToString(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfigGet(t *testing.T) {
	m := map[string]any{"label_key": "level", "backfill": true, "n": 3, "max": 2.0}
	if got := ConfigGet(m, "label_key", "category"); got != "level" {
		t.Errorf("ConfigGet(label_key) = %q", got)
	}
	if got := ConfigGet(m, "missing", "category"); got != "category" {
		t.Errorf("ConfigGet(missing) = %q", got)
	}
	if got := ConfigGet(m, "n", "x"); got != "x" {
		t.Errorf("ConfigGet with wrong type = %q, want default", got)
	}
	if got := ConfigGet(m, "backfill", false); !got {
		t.Error("ConfigGet(backfill) = false")
	}
	if got := ConfigGetInt64(m, "n", 0); got != 3 {
		t.Errorf("ConfigGetInt64(n) = %d", got)
	}
	if got := ConfigGetInt64(m, "max", 0); got != 2 {
		t.Errorf("ConfigGetInt64(max) = %d", got)
	}
	if got := ConfigGetInt64(nil, "n", 5); got != 5 {
		t.Errorf("ConfigGetInt64(nil) = %d", got)
	}
}

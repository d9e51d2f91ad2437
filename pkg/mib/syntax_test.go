package mib

import (
	"reflect"
	"testing"
)

func TestParseEnum(t *testing.T) {
	tests := []struct {
		name   string
		syntax string
		want   []EnumValue
		ok     bool
	}{
		{
			name:   "simple pair list",
			syntax: "INTEGER { up(1), down(2) }",
			want:   []EnumValue{{"up", "1"}, {"down", "2"}},
			ok:     true,
		},
		{
			name:   "whitespace tolerant",
			syntax: "  INTEGER {\n  enabled ( 1 ) ,\n  disabled ( 2 )\n}  ",
			want:   []EnumValue{{"enabled", "1"}, {"disabled", "2"}},
			ok:     true,
		},
		{
			name:   "duplicates preserved in source order",
			syntax: "INTEGER { on(1), off(2), on(1) }",
			want:   []EnumValue{{"on", "1"}, {"off", "2"}, {"on", "1"}},
			ok:     true,
		},
		{
			name:   "plain type is not an enum",
			syntax: "SEQUENCE OF IfEntry",
			ok:     false,
		},
		{
			name:   "sized integer is not an enum",
			syntax: "INTEGER (0..65535)",
			ok:     false,
		},
		{
			name:   "empty braces",
			syntax: "INTEGER { }",
			ok:     false,
		},
		{
			name:   "empty input",
			syntax: "",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEnum(tt.syntax)
			if ok != tt.ok {
				t.Fatalf("ParseEnum(%q) ok = %v, want %v", tt.syntax, ok, tt.ok)
			}
			if tt.ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseEnum(%q) = %v, want %v", tt.syntax, got, tt.want)
			}
		})
	}
}

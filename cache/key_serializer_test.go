package cache

import (
	"strings"
	"testing"
	"time"
)

func joinWithSeparator(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name   string
		method string
		args   []any
		want   string
	}{
		{
			name:   "no args",
			method: "getAll",
			args:   []any{},
			want:   "getAll",
		},
		{
			name:   "single int",
			method: "getById",
			args:   []any{42},
			want:   joinWithSeparator("getById", "42"),
		},
		{
			name:   "multiple basic types",
			method: "search",
			args:   []any{1, "hello", true, 3.14},
			want:   joinWithSeparator("search", "1", "hello", "true", "3.14"),
		},
		{
			name:   "nil values",
			method: "getAll",
			args:   []any{nil, (*string)(nil), []string(nil), map[string]any(nil)},
			want:   joinWithSeparator("getAll", "nil", "nil", "slice:nil", "map:nil"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.method, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_Collections(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name string
		arg  any
		want string
	}{
		{
			name: "string slice",
			arg:  []string{"a", "b"},
			want: "slice[2]:{a,b}",
		},
		{
			name: "empty slice",
			arg:  []int{},
			want: "slice[0]:{}",
		},
		{
			name: "array",
			arg:  [2]int{1, 2},
			want: "array[2]:{1,2}",
		},
		{
			name: "map keys are sorted",
			arg:  map[string]any{"status": "open", "priority": "high"},
			want: "map[2]:{priority=high,status=open}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey("m", tt.arg)
			want := joinWithSeparator("m", tt.want)
			if got != want {
				t.Errorf("SerializeKey() = %q, want %q", got, want)
			}
		})
	}
}

func TestDefaultKeySerializer_Structs(t *testing.T) {
	type pagination struct {
		Page   int
		Limit  int
		hidden string
	}

	serializer := NewDefaultKeySerializer()
	got := serializer.SerializeKey("getAll", pagination{Page: 2, Limit: 20, hidden: "x"})
	want := joinWithSeparator("getAll", "struct:{Page:2,Limit:20}")
	if got != want {
		t.Errorf("SerializeKey() = %q, want %q", got, want)
	}

	ptr := &pagination{Page: 1, Limit: 5}
	if serializer.SerializeKey("getAll", ptr) != serializer.SerializeKey("getAll", *ptr) {
		t.Error("expected pointer and value to serialize identically")
	}
}

func TestDefaultKeySerializer_TimeUsesTextForm(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	a := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	b := a.Add(time.Hour)

	keyA := serializer.SerializeKey("range", a)
	keyB := serializer.SerializeKey("range", b)
	if keyA == keyB {
		t.Fatalf("expected distinct times to produce distinct keys, got %q", keyA)
	}
	if keyA != joinWithSeparator("range", "2024-03-01T10:00:00Z") {
		t.Errorf("unexpected key %q", keyA)
	}

	var nilTime *time.Time
	if got := serializer.SerializeKey("range", nilTime); got != joinWithSeparator("range", "nil") {
		t.Errorf("expected nil time pointer to serialize as nil, got %q", got)
	}
}

func TestDefaultKeySerializer_Stability(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	filters := map[string]any{"a": 1, "b": []string{"x"}, "c": map[string]int{"z": 1, "y": 2}}

	first := serializer.SerializeKey("getAll", filters)
	for i := 0; i < 50; i++ {
		if got := serializer.SerializeKey("getAll", filters); got != first {
			t.Fatalf("iteration %d produced %q, expected %q", i, got, first)
		}
	}
}

package memstore

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-productivity/store"
)

// columnIndex maps bun column names to struct field index paths, per type.
var columnIndex = xsync.NewMapOf[reflect.Type, map[string][]int]()

func columnsOf(t reflect.Type) map[string][]int {
	if cols, ok := columnIndex.Load(t); ok {
		return cols
	}
	cols := make(map[string][]int)
	collectColumns(t, nil, cols)
	columnIndex.Store(t, cols)
	return cols
}

func collectColumns(t reflect.Type, prefix []int, cols map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			collectColumns(field.Type, path, cols)
			continue
		}
		if !field.IsExported() {
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("bun"), ",")
		if name == "-" || strings.Contains(name, ":") {
			continue
		}
		if name == "" {
			name = toColumnName(field.Name)
		}
		cols[name] = path
	}
}

func toColumnName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func columnValue(record any, column string) (any, error) {
	v := reflect.ValueOf(record)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("memstore: nil record")
		}
		v = v.Elem()
	}

	path, ok := columnsOf(v.Type())[column]
	if !ok {
		return nil, fmt.Errorf("memstore: unknown column %q on %s", column, v.Type())
	}
	return v.FieldByIndex(path).Interface(), nil
}

// normalize strips pointers and named types so values from records and
// filters compare by kind: strings, int64, float64, bool, time.Time or []any.
func normalize(value any) any {
	if value == nil {
		return nil
	}
	if t, ok := value.(time.Time); ok {
		return t
	}

	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if t, ok := v.Interface().(time.Time); ok {
		return t
	}

	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return []any(nil)
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = normalize(v.Index(i).Interface())
		}
		return out
	}
	return v.Interface()
}

// compare orders two normalized scalars. ok is false when they are not comparable.
func compare(a, b any) (int, bool) {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
	case int64:
		switch y := b.(type) {
		case int64:
			return cmpOrdered(x, y), true
		case float64:
			return cmpOrdered(float64(x), y), true
		}
	case float64:
		switch y := b.(type) {
		case float64:
			return cmpOrdered(x, y), true
		case int64:
			return cmpOrdered(x, float64(y)), true
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0, true
			case !x:
				return -1, true
			default:
				return 1, true
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), true
		}
	}
	return 0, false
}

func cmpOrdered[N int64 | float64](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareNullable sorts nulls after every value, matching ascending SQL order.
func compareNullable(a, b any) int {
	na, nb := normalize(a), normalize(b)
	switch {
	case na == nil && nb == nil:
		return 0
	case na == nil:
		return 1
	case nb == nil:
		return -1
	}
	c, _ := compare(na, nb)
	return c
}

func equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	c, ok := compare(a, b)
	return ok && c == 0
}

func evaluate(record any, f store.Filter) (bool, error) {
	raw, err := columnValue(record, f.Column)
	if err != nil {
		return false, err
	}
	field := normalize(raw)
	value := normalize(f.Value)

	switch f.Op {
	case store.OpEq:
		return equal(field, value), nil
	case store.OpNeq:
		return !equal(field, value), nil
	case store.OpLt, store.OpLte, store.OpGt, store.OpGte:
		if field == nil || value == nil {
			return false, nil
		}
		c, ok := compare(field, value)
		if !ok {
			return false, fmt.Errorf("memstore: cannot compare %s with %T", f.Column, f.Value)
		}
		switch f.Op {
		case store.OpLt:
			return c < 0, nil
		case store.OpLte:
			return c <= 0, nil
		case store.OpGt:
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case store.OpILike:
		s, _ := field.(string)
		term, _ := value.(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(term)), nil
	case store.OpIn:
		for _, candidate := range asList(value) {
			if equal(field, candidate) {
				return true, nil
			}
		}
		return false, nil
	case store.OpContains:
		for _, item := range asList(field) {
			if equal(item, value) {
				return true, nil
			}
		}
		return false, nil
	case store.OpOverlaps:
		for _, item := range asList(field) {
			for _, candidate := range asList(value) {
				if equal(item, candidate) {
					return true, nil
				}
			}
		}
		return false, nil
	case store.OpEmpty:
		return len(asList(field)) == 0, nil
	case store.OpNotEmpty:
		return len(asList(field)) > 0, nil
	case store.OpIsNull:
		return field == nil, nil
	case store.OpNotNull:
		return field != nil, nil
	}
	return false, fmt.Errorf("memstore: unsupported operator %q", f.Op)
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

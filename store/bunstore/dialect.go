package bunstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-productivity/store"
)

// sqlDialect renders filters for the connected database. Array columns are
// stored as JSON on both backends.
type sqlDialect struct {
	postgres bool
}

type predicate struct {
	expr string
	args []any
}

func dialectOf(db *bun.DB) sqlDialect {
	return sqlDialect{postgres: db.Dialect().Name() == dialect.PG}
}

func (d sqlDialect) predicates(q store.Query) ([]predicate, error) {
	var out []predicate

	if q.Owner != "" {
		out = append(out, predicate{"? = ?", []any{bun.Ident("created_by"), q.Owner}})
	}
	if q.IDs != nil {
		if len(q.IDs) == 0 {
			out = append(out, predicate{"1 = 0", nil})
		} else {
			out = append(out, predicate{"? IN (?)", []any{bun.Ident("id"), bun.In(q.IDs)}})
		}
	}

	for _, f := range q.Where {
		p, err := d.filter(f)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if len(q.AnyOf) > 0 {
		groups := make([]string, 0, len(q.AnyOf))
		var args []any
		for _, group := range q.AnyOf {
			parts := make([]string, 0, len(group))
			for _, f := range group {
				p, err := d.filter(f)
				if err != nil {
					return nil, err
				}
				parts = append(parts, "("+p.expr+")")
				args = append(args, p.args...)
			}
			if len(parts) == 0 {
				parts = append(parts, "1 = 1")
			}
			groups = append(groups, "("+strings.Join(parts, " AND ")+")")
		}
		out = append(out, predicate{strings.Join(groups, " OR "), args})
	}

	return out, nil
}

func (d sqlDialect) filter(f store.Filter) (predicate, error) {
	col := bun.Ident(f.Column)

	switch f.Op {
	case store.OpEq:
		if isNil(f.Value) {
			return predicate{"? IS NULL", []any{col}}, nil
		}
		return predicate{"? = ?", []any{col, f.Value}}, nil
	case store.OpNeq:
		if isNil(f.Value) {
			return predicate{"? IS NOT NULL", []any{col}}, nil
		}
		if d.postgres {
			return predicate{"? IS DISTINCT FROM ?", []any{col, f.Value}}, nil
		}
		return predicate{"? IS NOT ?", []any{col, f.Value}}, nil
	case store.OpLt:
		return predicate{"? < ?", []any{col, f.Value}}, nil
	case store.OpLte:
		return predicate{"? <= ?", []any{col, f.Value}}, nil
	case store.OpGt:
		return predicate{"? > ?", []any{col, f.Value}}, nil
	case store.OpGte:
		return predicate{"? >= ?", []any{col, f.Value}}, nil
	case store.OpILike:
		term, _ := f.Value.(string)
		pattern := "%" + escapeLike(term) + "%"
		if d.postgres {
			return predicate{"? ILIKE ? ESCAPE '!'", []any{col, pattern}}, nil
		}
		return predicate{"? LIKE ? ESCAPE '!'", []any{col, pattern}}, nil
	case store.OpIn:
		values := toSlice(f.Value)
		if len(values) == 0 {
			return predicate{"1 = 0", nil}, nil
		}
		return predicate{"? IN (?)", []any{col, bun.In(values)}}, nil
	case store.OpContains:
		return d.contains(col, f.Value)
	case store.OpOverlaps:
		values := toSlice(f.Value)
		if len(values) == 0 {
			return predicate{"1 = 0", nil}, nil
		}
		parts := make([]string, 0, len(values))
		var args []any
		for _, v := range values {
			p, err := d.contains(col, v)
			if err != nil {
				return predicate{}, err
			}
			parts = append(parts, p.expr)
			args = append(args, p.args...)
		}
		return predicate{strings.Join(parts, " OR "), args}, nil
	case store.OpEmpty:
		return predicate{fmt.Sprintf("COALESCE(%s(?), 0) = 0", d.arrayLength()), []any{col}}, nil
	case store.OpNotEmpty:
		return predicate{fmt.Sprintf("COALESCE(%s(?), 0) > 0", d.arrayLength()), []any{col}}, nil
	case store.OpIsNull:
		return predicate{"? IS NULL", []any{col}}, nil
	case store.OpNotNull:
		return predicate{"? IS NOT NULL", []any{col}}, nil
	}
	return predicate{}, fmt.Errorf("bunstore: unsupported operator %q", f.Op)
}

func (d sqlDialect) contains(col bun.Ident, value any) (predicate, error) {
	if d.postgres {
		raw, err := json.Marshal([]any{value})
		if err != nil {
			return predicate{}, err
		}
		return predicate{"? @> CAST(? AS jsonb)", []any{col, string(raw)}}, nil
	}
	return predicate{"EXISTS (SELECT 1 FROM json_each(?) WHERE json_each.value = ?)", []any{col, value}}, nil
}

func (d sqlDialect) arrayLength() string {
	if d.postgres {
		return "jsonb_array_length"
	}
	return "json_array_length"
}

func escapeLike(term string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(term)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

func toSlice(v any) []any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

package store

// Op is a filter operator.
type Op string

const (
	OpEq       Op = "eq"
	OpNeq      Op = "neq"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpILike    Op = "ilike"    // case-insensitive substring match
	OpIn       Op = "in"       // Value is a slice
	OpContains Op = "contains" // array column holds Value
	OpOverlaps Op = "overlaps" // array column holds any element of Value
	OpEmpty    Op = "empty"    // array column is null or empty
	OpNotEmpty Op = "not_empty"
	OpIsNull   Op = "is_null"
	OpNotNull  Op = "not_null"
)

// Filter is a single predicate on a column.
type Filter struct {
	Column string
	Op     Op
	Value  any
}

// Group is a conjunction of filters.
type Group []Filter

// Order sorts by one column.
type Order struct {
	Column string
	Desc   bool
}

// Query describes a select. Where and AnyOf are combined with AND; AnyOf
// matches when at least one of its groups matches.
type Query struct {
	Owner  string
	IDs    []string
	Where  []Filter
	AnyOf  []Group
	Order  []Order
	Limit  int
	Offset int
}

func Eq(column string, value any) Filter       { return Filter{Column: column, Op: OpEq, Value: value} }
func Neq(column string, value any) Filter      { return Filter{Column: column, Op: OpNeq, Value: value} }
func Lt(column string, value any) Filter       { return Filter{Column: column, Op: OpLt, Value: value} }
func Lte(column string, value any) Filter      { return Filter{Column: column, Op: OpLte, Value: value} }
func Gt(column string, value any) Filter       { return Filter{Column: column, Op: OpGt, Value: value} }
func Gte(column string, value any) Filter      { return Filter{Column: column, Op: OpGte, Value: value} }
func ILike(column, term string) Filter         { return Filter{Column: column, Op: OpILike, Value: term} }
func In(column string, values any) Filter      { return Filter{Column: column, Op: OpIn, Value: values} }
func Contains(column string, value any) Filter { return Filter{Column: column, Op: OpContains, Value: value} }
func Overlaps(column string, values any) Filter {
	return Filter{Column: column, Op: OpOverlaps, Value: values}
}
func Empty(column string) Filter    { return Filter{Column: column, Op: OpEmpty} }
func NotEmpty(column string) Filter { return Filter{Column: column, Op: OpNotEmpty} }
func IsNull(column string) Filter   { return Filter{Column: column, Op: OpIsNull} }
func NotNull(column string) Filter  { return Filter{Column: column, Op: OpNotNull} }

// Asc and Desc build orderings.
func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

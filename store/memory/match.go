package memory

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// matches evaluates a MongoDB filter document against doc. Supported:
// $and, $or, $nor, implicit equality (array fields match on any element),
// $eq, $ne, $in, $nin, $gt, $gte, $lt, $lte, $exists and $regex/$options.
func matches(doc bson.M, filter bson.M) (bool, error) {
	for key, cond := range filter {
		var (
			ok  bool
			err error
		)
		switch key {
		case "$and":
			ok, err = matchAll(doc, cond)
		case "$or":
			ok, err = matchAny(doc, cond)
		case "$nor":
			ok, err = matchAny(doc, cond)
			ok = !ok
		default:
			if strings.HasPrefix(key, "$") {
				return false, fmt.Errorf("unsupported operator %s", key)
			}
			ok, err = matchField(doc, key, cond)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchAll(doc bson.M, clauses any) (bool, error) {
	list, err := subFilters(clauses)
	if err != nil {
		return false, err
	}
	for _, f := range list {
		ok, err := matches(doc, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchAny(doc bson.M, clauses any) (bool, error) {
	list, err := subFilters(clauses)
	if err != nil {
		return false, err
	}
	for _, f := range list {
		ok, err := matches(doc, f)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func subFilters(clauses any) ([]bson.M, error) {
	items, ok := asSlice(clauses)
	if !ok {
		return nil, fmt.Errorf("logical operator expects an array, got %T", clauses)
	}
	out := make([]bson.M, 0, len(items))
	for _, it := range items {
		m, ok := asDoc(it)
		if !ok {
			return nil, fmt.Errorf("logical operator clause must be a document, got %T", it)
		}
		out = append(out, m)
	}
	return out, nil
}

func matchField(doc bson.M, field string, cond any) (bool, error) {
	val, present := lookup(doc, field)
	ops, isOps := operatorDoc(cond)
	if !isOps {
		return equalsField(val, present, cond), nil
	}

	for op, arg := range ops {
		var ok bool
		switch op {
		case "$eq":
			ok = equalsField(val, present, arg)
		case "$ne":
			ok = !equalsField(val, present, arg)
		case "$in":
			items, isArr := asSlice(arg)
			if !isArr {
				return false, fmt.Errorf("$in expects an array, got %T", arg)
			}
			ok = inField(val, present, items)
		case "$nin":
			items, isArr := asSlice(arg)
			if !isArr {
				return false, fmt.Errorf("$nin expects an array, got %T", arg)
			}
			ok = !inField(val, present, items)
		case "$gt", "$gte", "$lt", "$lte":
			ok = present && compareField(val, arg, op)
		case "$exists":
			want, _ := arg.(bool)
			ok = present == want
		case "$regex":
			re, err := compileRegex(arg, ops["$options"])
			if err != nil {
				return false, err
			}
			ok = present && regexField(val, re)
		case "$options":
			continue
		default:
			return false, fmt.Errorf("unsupported operator %s", op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func equalsField(val any, present bool, want any) bool {
	if !present {
		return want == nil
	}
	if items, ok := asSlice(val); ok {
		for _, it := range items {
			if equalValues(it, want) {
				return true
			}
		}
		return false
	}
	return equalValues(val, want)
}

func inField(val any, present bool, set []any) bool {
	for _, want := range set {
		if equalsField(val, present, want) {
			return true
		}
	}
	return false
}

func compareField(val, arg any, op string) bool {
	check := func(v any) bool {
		if rank(v) != rank(arg) {
			return false
		}
		c := compareAny(v, arg)
		switch op {
		case "$gt":
			return c > 0
		case "$gte":
			return c >= 0
		case "$lt":
			return c < 0
		default:
			return c <= 0
		}
	}
	if items, ok := asSlice(val); ok {
		for _, it := range items {
			if check(it) {
				return true
			}
		}
		return false
	}
	return check(val)
}

func compileRegex(pattern, options any) (*regexp.Regexp, error) {
	var expr, opts string
	switch p := pattern.(type) {
	case string:
		expr = p
	case bson.Regex:
		expr, opts = p.Pattern, p.Options
	default:
		return nil, fmt.Errorf("$regex expects a string, got %T", pattern)
	}
	if o, ok := options.(string); ok {
		opts += o
	}
	if strings.Contains(opts, "i") {
		expr = "(?i)" + expr
	}
	return regexp.Compile(expr)
}

func regexField(val any, re *regexp.Regexp) bool {
	if items, ok := asSlice(val); ok {
		for _, it := range items {
			if s, isStr := it.(string); isStr && re.MatchString(s) {
				return true
			}
		}
		return false
	}
	s, ok := val.(string)
	return ok && re.MatchString(s)
}

// ──────────────────────────────────────────────────
// Value helpers
// ──────────────────────────────────────────────────

// lookup resolves a dotted path through nested documents.
func lookup(doc bson.M, path string) (any, bool) {
	var cur any = doc
	for _, seg := range strings.Split(path, ".") {
		m, ok := asDoc(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asDoc(v any) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]any:
		return d, true
	case bson.D:
		m := make(bson.M, len(d))
		for _, e := range d {
			m[e.Key] = e.Value
		}
		return m, true
	default:
		return nil, false
	}
}

// operatorDoc reports whether cond is a document whose keys are all
// operators.
func operatorDoc(cond any) (bson.M, bool) {
	m, ok := asDoc(cond)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case bson.A:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []byte:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func normalize(v any) any {
	switch x := v.(type) {
	case bson.DateTime:
		return x.Time().UTC()
	case time.Time:
		return x.UTC()
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.UTC()
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// rank orders BSON types the way the server does for mixed comparisons.
func rank(v any) int {
	switch normalize(v).(type) {
	case nil:
		return 0
	case float64:
		return 1
	case string:
		return 2
	case bson.M, bson.D, map[string]any:
		return 3
	case bson.A, []any:
		return 4
	case bool:
		return 5
	case time.Time:
		return 6
	default:
		return 7
	}
}

func compareAny(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	na, nb := normalize(a), normalize(b)
	switch x := na.(type) {
	case float64:
		y := nb.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case string:
		return strings.Compare(x, nb.(string))
	case bool:
		y := nb.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case time.Time:
		return x.Compare(nb.(time.Time))
	}
	return 0
}

func equalValues(a, b any) bool {
	na, nb := normalize(a), normalize(b)
	if rank(na) != rank(nb) {
		return false
	}
	switch na.(type) {
	case float64, string, bool, time.Time, nil:
		return compareAny(na, nb) == 0
	}
	return reflect.DeepEqual(na, nb)
}

package llm

import (
	"fmt"
	"strconv"
)

// fillDefaults walks a decoded JSON value along the analysis shape and back-fills every
// lenient field that is missing, null or of the wrong JSON type. It returns a new value
// and leaves v untouched. Enum and range violations are not repaired: a value of the
// right type is kept as is so the strict re-check can reject it.
func fillDefaults(v any) (any, []string, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("top-level value is %s, want object", jsonType(v))
	}
	var filled []string
	out := analysisSchema.fillObject(m, "", &filled)
	return out, filled, nil
}

func (f field) fillObject(m map[string]any, path string, filled *[]string) map[string]any {
	out := make(map[string]any, len(m)+len(f.fields))
	for k, v := range m {
		out[k] = v
	}
	for _, c := range f.fields {
		p := joinPath(path, c.name)
		v, present := m[c.name]
		if present && c.matches(v) {
			out[c.name] = c.fillValue(v, p, filled)
			continue
		}
		if !c.lenient {
			continue
		}
		out[c.name] = c.defaultValue()
		*filled = append(*filled, p)
	}
	return out
}

// fillValue recurses into a value whose JSON type already matches.
func (f field) fillValue(v any, path string, filled *[]string) any {
	switch f.kind {
	case kindObject:
		return f.fillObject(v.(map[string]any), path, filled)
	case kindArray:
		in := v.([]any)
		out := make([]any, 0, len(in))
		for i, el := range in {
			p := path + "[" + strconv.Itoa(i) + "]"
			if el == nil || !f.items.matches(el) {
				*filled = append(*filled, p+" (dropped)")
				continue
			}
			out = append(out, f.items.fillValue(el, p, filled))
		}
		return out
	default:
		return v
	}
}

func (f field) defaultValue() any {
	switch {
	case f.nullable:
		return nil
	case f.kind == kindObject:
		var discard []string
		return f.fillObject(map[string]any{}, "", &discard)
	case f.kind == kindArray:
		return []any{}
	default:
		return f.def
	}
}

func (f field) matches(v any) bool {
	if v == nil {
		return f.nullable
	}
	switch f.kind {
	case kindString:
		_, ok := v.(string)
		return ok
	case kindNumber:
		_, ok := v.(float64)
		return ok
	case kindBool:
		_, ok := v.(bool)
		return ok
	case kindObject:
		_, ok := v.(map[string]any)
		return ok
	case kindArray:
		_, ok := v.([]any)
		return ok
	}
	return false
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

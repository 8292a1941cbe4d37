package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/signloop/constants"
)

// DefaultDisclaimer is filled in when the model omits the disclaimer.
const DefaultDisclaimer = "This is an AI analysis, not legal advice."

type kind int

const (
	kindString kind = iota
	kindNumber
	kindBool
	kindObject
	kindArray
)

// field describes one node of the analysis shape. Three views are derived from it:
// the strict JSON Schema, the lenient default-filler, and the prompt's shape description.
type field struct {
	name     string
	kind     kind
	nullable bool
	enum     []string
	min, max *float64
	hint     string // prompt-only annotation, e.g. "ISO"
	fields   []field
	items    *field

	// lenient is true when the lenient tier may back-fill this field.
	lenient bool
	def     any
}

func str(name string) field { return field{name: name, kind: kindString} }
func num(name string) field { return field{name: name, kind: kindNumber} }
func boolean(name string) field { return field{name: name, kind: kindBool} }
func nullStr(name string) field { return field{name: name, kind: kindString, nullable: true, lenient: true} }
func obj(name string, fs ...field) field { return field{name: name, kind: kindObject, fields: fs, lenient: true} }

func arr(name string, items field) field {
	return field{name: name, kind: kindArray, items: &items, lenient: true}
}

func enum(name string, values []string) field {
	return field{name: name, kind: kindString, enum: values}
}

func (f field) between(lo, hi float64) field {
	f.min, f.max = &lo, &hi
	return f
}

func (f field) withDefault(v any) field {
	f.lenient, f.def = true, v
	return f
}

func (f field) withHint(h string) field {
	f.hint = h
	return f
}

// analysisSchema is the single source of truth for AnalysisResult's wire shape.
var analysisSchema = field{name: "", kind: kindObject, fields: []field{
	enum("risk_badge", constants.RiskBadges()).withDefault(string(constants.RiskMedium)),
	arr("key_points", str("")),
	obj("summary",
		str("what_it_is").withDefault("Contract analysis"),
		obj("payments",
			nullStr("amount"),
			nullStr("frequency"),
			arr("fees", str("")),
		),
		obj("term",
			nullStr("start"),
			nullStr("end"),
			nullStr("minimum_term"),
		),
		obj("renewal",
			boolean("auto_renew").withDefault(false),
			nullStr("renewal_period"),
		),
		obj("cancellation",
			str("how").withDefault("Not specified"),
			num("notice_period_days").withDefault(0.0),
			arr("penalties", str("")),
		),
	),
	arr("red_flags", obj("",
		str("type"),
		num("severity").between(1, 10),
		str("explanation"),
		nullStr("where"),
		num("confidence").between(0, 100).withDefault(50.0),
	)),
	arr("normal_in_region", obj("",
		str("topic"),
		str("typical_range"),
		nullStr("yours"),
		enum("label", constants.RegionLabels()),
	)),
	obj("next_actions",
		arr("questions_to_ask", str("")),
		arr("email_templates", obj("",
			str("subject"),
			str("body"),
		)),
	),
	arr("key_dates", obj("",
		enum("type", constants.KeyDateTypes()),
		str("date").withHint("ISO"),
		nullStr("derived_from"),
	)),
	arr("obligations", str("")),
	arr("parties", str("")),
	str("disclaimer").withDefault(DefaultDisclaimer),
}}

// jsonSchema renders the strict view: every property required, exact types, enums and ranges.
// Unknown properties are tolerated and dropped when decoding.
func (f field) jsonSchema() map[string]any {
	var s map[string]any
	switch f.kind {
	case kindObject:
		props := make(map[string]any, len(f.fields))
		required := make([]string, 0, len(f.fields))
		for _, c := range f.fields {
			props[c.name] = c.jsonSchema()
			required = append(required, c.name)
		}
		s = map[string]any{"type": "object", "properties": props, "required": required}
	case kindArray:
		s = map[string]any{"type": "array", "items": f.items.jsonSchema()}
	case kindString:
		s = map[string]any{"type": "string"}
		if len(f.enum) > 0 {
			s["enum"] = f.enum
		}
	case kindNumber:
		s = map[string]any{"type": "number"}
		if f.min != nil {
			s["minimum"] = *f.min
		}
		if f.max != nil {
			s["maximum"] = *f.max
		}
	case kindBool:
		s = map[string]any{"type": "boolean"}
	}
	if f.nullable {
		s["type"] = []string{s["type"].(string), "null"}
		if e, ok := s["enum"].([]string); ok {
			s["enum"] = append(append([]any{}, toAny(e)...), nil)
		}
	}
	return s
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// AnalysisJSONSchema returns the strict JSON Schema as a generic map.
func AnalysisJSONSchema() map[string]any {
	return analysisSchema.jsonSchema()
}

var (
	compiledOnce sync.Once
	compiled     *jsonschema.Schema
	compileErr   error
)

func strictSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiled, compileErr = compileSchema(AnalysisJSONSchema())
	})
	return compiled, compileErr
}

func compileSchema(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("analysis.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateStrict checks a decoded JSON value (maps, slices, float64...) against the strict schema.
func ValidateStrict(v any) error {
	schema, err := strictSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

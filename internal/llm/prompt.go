package llm

import (
	"strconv"
	"strings"
)

// MaxExcerptRunes bounds how much contract text goes into one prompt.
const MaxExcerptRunes = 15000

const truncationMarker = "... (truncated)"

// BuildAnalysisPrompt renders the analysis instruction, the expected JSON shape,
// the caller's metadata and a capped excerpt of the contract text.
func BuildAnalysisPrompt(text string, meta *Metadata) string {
	contractType, region := "Unknown", "Unknown"
	if meta != nil {
		if t := strings.TrimSpace(meta.ContractType); t != "" {
			contractType = t
		}
		if r := strings.TrimSpace(meta.Region); r != "" {
			region = r
		}
	}

	var b strings.Builder
	b.WriteString("You are an expert legal contract analyst. Analyze the following contract text and provide a risk assessment and summary.\n\n")
	b.WriteString("Contract Metadata:\n")
	b.WriteString("Type: " + contractType + "\n")
	b.WriteString("Region: " + region + "\n\n")
	b.WriteString("Output must be strict JSON matching this structure:\n")
	analysisSchema.describe(&b, 0)
	b.WriteString("\n\n")
	b.WriteString("Analysis should be detailed but concise. Identify high risk clauses specifically for the region/type.\n\n")
	b.WriteString("Contract Text:\n")
	b.WriteString(excerpt(text))
	b.WriteString("\n")
	return b.String()
}

// excerpt caps text at MaxExcerptRunes and appends the marker only when it cut something.
func excerpt(text string) string {
	if len(text) <= MaxExcerptRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == MaxExcerptRunes {
			return text[:i] + " " + truncationMarker
		}
		n++
	}
	return text
}

// describe writes the prompt view of the shape, e.g. "severity": number (1-10).
func (f field) describe(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch f.kind {
	case kindObject:
		b.WriteString("{\n")
		for i, c := range f.fields {
			b.WriteString(indent + "  " + strconv.Quote(c.name) + ": ")
			if c.name == "disclaimer" {
				b.WriteString(strconv.Quote(DefaultDisclaimer))
			} else {
				c.describe(b, depth+1)
			}
			if i < len(f.fields)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(indent + "}")
	case kindArray:
		b.WriteString("[")
		f.items.describe(b, depth)
		b.WriteString("]")
	case kindString:
		switch {
		case len(f.enum) > 0:
			quoted := make([]string, len(f.enum))
			for i, e := range f.enum {
				quoted[i] = strconv.Quote(e)
			}
			b.WriteString(strings.Join(quoted, " | "))
		case f.nullable:
			b.WriteString(`"string|null"`)
		case f.hint != "":
			b.WriteString(`"string (` + f.hint + `)"`)
		default:
			b.WriteString(`"string"`)
		}
	case kindNumber:
		b.WriteString("number")
		if f.min != nil && f.max != nil {
			b.WriteString(" (" + formatNum(*f.min) + "-" + formatNum(*f.max) + ")")
		}
	case kindBool:
		b.WriteString("boolean")
	}
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

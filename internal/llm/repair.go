package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/signloop/internal/common"
)

var (
	reOpenFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	reCloseFence = regexp.MustCompile("\\s*```$")
)

// RecoverJSON pulls a JSON value out of a model answer. It tries, in order: the trimmed
// text as is, the text with a leading ```json / ``` fence and trailing ``` fence removed,
// and finally the span from the first '{' to the last '}' of the fence-stripped text.
// When every attempt fails the raw text travels back in *common.UnparsableResponseError.
func RecoverJSON(raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)

	v, err := decode(trimmed)
	if err == nil {
		return v, nil
	}

	unfenced := strings.TrimSpace(reCloseFence.ReplaceAllString(reOpenFence.ReplaceAllString(trimmed, ""), ""))
	if v, err = decode(unfenced); err == nil {
		return v, nil
	}

	first := strings.Index(unfenced, "{")
	last := strings.LastIndex(unfenced, "}")
	if first == -1 || last <= first {
		return nil, &common.UnparsableResponseError{RawText: raw, Cause: errors.New("no JSON object found in response")}
	}
	if v, err = decode(unfenced[first : last+1]); err != nil {
		return nil, &common.UnparsableResponseError{RawText: raw, Cause: err}
	}
	return v, nil
}

func decode(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

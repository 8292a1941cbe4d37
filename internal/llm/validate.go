package llm

import (
	"encoding/json"
	"fmt"

	"github.com/joseph-ayodele/signloop/constants"
	"github.com/joseph-ayodele/signloop/internal/common"
)

// Validation is the outcome of ValidateAnalysis.
type Validation struct {
	Result      AnalysisResult
	Tier        constants.ValidationTier
	FilledPaths []string
}

// ValidateAnalysis checks a recovered JSON value against the strict shape first. On
// failure it back-fills defaults and checks the filled copy against the same strict
// shape again, so defaults never paper over an out-of-range number or a bad enum.
// Failures return *common.SchemaValidationError holding the original value.
func ValidateAnalysis(parsed any) (Validation, error) {
	strictErr := ValidateStrict(parsed)
	if strictErr == nil {
		res, err := decodeResult(parsed)
		if err != nil {
			return Validation{}, &common.SchemaValidationError{Value: parsed, Cause: err}
		}
		return Validation{Result: res, Tier: constants.TierStrict}, nil
	}

	filled, paths, err := fillDefaults(parsed)
	if err != nil {
		return Validation{}, &common.SchemaValidationError{Value: parsed, Cause: err}
	}
	if err := ValidateStrict(filled); err != nil {
		return Validation{}, &common.SchemaValidationError{Value: parsed, Cause: err}
	}
	res, err := decodeResult(filled)
	if err != nil {
		return Validation{}, &common.SchemaValidationError{Value: parsed, Cause: err}
	}
	return Validation{Result: res, Tier: constants.TierLenient, FilledPaths: paths}, nil
}

func decodeResult(v any) (AnalysisResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("marshal: %w", err)
	}
	var res AnalysisResult
	if err := json.Unmarshal(b, &res); err != nil {
		return AnalysisResult{}, fmt.Errorf("decode analysis: %w", err)
	}
	return res, nil
}

package llm

import (
	"encoding/json"
	"testing"
)

const validAnalysisJSON = `{
  "risk_badge": "HIGH",
  "key_points": ["12 month term", "Auto-renews yearly"],
  "summary": {
    "what_it_is": "Software subscription agreement",
    "payments": {"amount": "$1,200", "frequency": "yearly", "fees": ["Late fee 5%"]},
    "term": {"start": "2025-01-01", "end": null, "minimum_term": "12 months"},
    "renewal": {"auto_renew": true, "renewal_period": "12 months"},
    "cancellation": {"how": "Written notice", "notice_period_days": 60, "penalties": []}
  },
  "red_flags": [
    {"type": "auto_renewal", "severity": 7, "explanation": "Renews unless cancelled 60 days ahead", "where": "Section 4.2", "confidence": 85}
  ],
  "normal_in_region": [
    {"topic": "Notice period", "typical_range": "30 days", "yours": "60 days", "label": "unusual"}
  ],
  "next_actions": {
    "questions_to_ask": ["Can the notice period be 30 days?"],
    "email_templates": [{"subject": "Notice period", "body": "Hello, ..."}]
  },
  "key_dates": [
    {"type": "NOTICE_CUTOFF", "date": "2025-11-02", "derived_from": "Section 4.2"}
  ],
  "obligations": ["Pay annually in advance"],
  "parties": ["Acme Ltd", "Customer"],
  "disclaimer": "This is an AI analysis, not legal advice."
}`

// decodeFixture returns a fresh generic copy of js so tests can mutate it.
func decodeFixture(t *testing.T, js string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(js), &m); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return m
}

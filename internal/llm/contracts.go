package llm

import (
	"context"

	"github.com/joseph-ayodele/signloop/constants"
)

// Metadata is optional caller context rendered into the prompt.
type Metadata struct {
	ContractType string `json:"contractType,omitempty"`
	Region       string `json:"region,omitempty"`
}

// AnalysisResult is the validated shape we want from the LLM.
// Nullable fields are pointers so null round-trips as null.
type AnalysisResult struct {
	RiskBadge      constants.RiskBadge `json:"risk_badge"`
	KeyPoints      []string            `json:"key_points"`
	Summary        Summary             `json:"summary"`
	RedFlags       []RedFlag           `json:"red_flags"`
	NormalInRegion []RegionNorm        `json:"normal_in_region"`
	NextActions    NextActions         `json:"next_actions"`
	KeyDates       []KeyDate           `json:"key_dates"`
	Obligations    []string            `json:"obligations"`
	Parties        []string            `json:"parties"`
	Disclaimer     string              `json:"disclaimer"`
}

type Summary struct {
	WhatItIs     string       `json:"what_it_is"`
	Payments     Payments     `json:"payments"`
	Term         Term         `json:"term"`
	Renewal      Renewal      `json:"renewal"`
	Cancellation Cancellation `json:"cancellation"`
}

type Payments struct {
	Amount    *string  `json:"amount"`
	Frequency *string  `json:"frequency"`
	Fees      []string `json:"fees"`
}

type Term struct {
	Start       *string `json:"start"`
	End         *string `json:"end"`
	MinimumTerm *string `json:"minimum_term"`
}

type Renewal struct {
	AutoRenew     bool    `json:"auto_renew"`
	RenewalPeriod *string `json:"renewal_period"`
}

type Cancellation struct {
	How              string   `json:"how"`
	NoticePeriodDays float64  `json:"notice_period_days"`
	Penalties        []string `json:"penalties"`
}

type RedFlag struct {
	Type        string  `json:"type"`
	Severity    float64 `json:"severity"` // 1..10
	Explanation string  `json:"explanation"`
	Where       *string `json:"where"`
	Confidence  float64 `json:"confidence"` // 0..100
}

type RegionNorm struct {
	Topic        string                `json:"topic"`
	TypicalRange string                `json:"typical_range"`
	Yours        *string               `json:"yours"`
	Label        constants.RegionLabel `json:"label"`
}

type NextActions struct {
	QuestionsToAsk []string        `json:"questions_to_ask"`
	EmailTemplates []EmailTemplate `json:"email_templates"`
}

type EmailTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type KeyDate struct {
	Type        constants.KeyDateType `json:"type"`
	Date        string                `json:"date"` // ISO
	DerivedFrom *string               `json:"derived_from"`
}

// Analysis is one validated model answer plus its provenance.
type Analysis struct {
	Result      AnalysisResult           `json:"result"`
	Provider    string                   `json:"provider"`
	Model       string                   `json:"model"`
	Tier        constants.ValidationTier `json:"validation_tier"`
	FilledPaths []string                 `json:"filled_paths,omitempty"`
	RawResponse string                   `json:"-"`
}

// Invoker sends one prompt to a completion endpoint and returns the first choice's text.
// Implementations must not retry; transport failures are *common.ProviderError and
// missing content is common.ErrEmptyResponse.
type Invoker interface {
	Invoke(ctx context.Context, prompt, model string) (string, error)
	Provider() string
}

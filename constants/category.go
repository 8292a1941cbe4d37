package constants

// RiskBadge is the overall contract risk level.
type RiskBadge string

const (
	RiskLow    RiskBadge = "LOW"
	RiskMedium RiskBadge = "MEDIUM"
	RiskHigh   RiskBadge = "HIGH"
)

// RegionLabel says whether a clause is typical for the contract's region.
type RegionLabel string

const (
	LabelTypical RegionLabel = "typical"
	LabelUnusual RegionLabel = "unusual"
)

// KeyDateType classifies a date worth putting in a calendar.
type KeyDateType string

const (
	DateRenewal      KeyDateType = "RENEWAL"
	DateNoticeCutoff KeyDateType = "NOTICE_CUTOFF"
	DatePriceReview  KeyDateType = "PRICE_REVIEW"
	DateOther        KeyDateType = "OTHER"
)

var (
	allRiskBadges   = []RiskBadge{RiskLow, RiskMedium, RiskHigh}
	allRegionLabels = []RegionLabel{LabelTypical, LabelUnusual}
	allKeyDateTypes = []KeyDateType{DateRenewal, DateNoticeCutoff, DatePriceReview, DateOther}
)

// RiskBadges returns the enum values as strings (schema + prompt order).
func RiskBadges() []string { return asStrings(allRiskBadges) }

// RegionLabels returns the enum values as strings.
func RegionLabels() []string { return asStrings(allRegionLabels) }

// KeyDateTypes returns the enum values as strings.
func KeyDateTypes() []string { return asStrings(allKeyDateTypes) }

func asStrings[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

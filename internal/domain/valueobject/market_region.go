package valueobject

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// MarketRegion – immutable value object
// ---------------------------------------------------------------------------

// MarketRegion classifies where a dealer operates. Each region carries an
// additive commission bonus on top of the dealer's tier base rate.
type MarketRegion struct {
	value string
}

const (
	marketRegionMajorProvince = "MAJOR_PROVINCE"
	marketRegionMaritime      = "MARITIME"
	marketRegionRural         = "RURAL"
	marketRegionFirstNations  = "FIRST_NATIONS"
	marketRegionStandard      = "STANDARD"
)

var (
	MarketRegionMajorProvince = MarketRegion{value: marketRegionMajorProvince}
	MarketRegionMaritime      = MarketRegion{value: marketRegionMaritime}
	MarketRegionRural         = MarketRegion{value: marketRegionRural}
	MarketRegionFirstNations  = MarketRegion{value: marketRegionFirstNations}
	MarketRegionStandard      = MarketRegion{value: marketRegionStandard}
)

var validMarketRegions = map[string]MarketRegion{
	marketRegionMajorProvince: MarketRegionMajorProvince,
	marketRegionMaritime:      MarketRegionMaritime,
	marketRegionRural:         MarketRegionRural,
	marketRegionFirstNations:  MarketRegionFirstNations,
	marketRegionStandard:      MarketRegionStandard,
}

// NewMarketRegion creates a MarketRegion from a raw string.
func NewMarketRegion(s string) (MarketRegion, error) {
	v, ok := validMarketRegions[s]
	if !ok {
		return MarketRegion{}, fmt.Errorf("invalid market region: %q", s)
	}
	return v, nil
}

// RegionForProvince classifies a two-letter Canadian province or territory
// code. Territories count as rural markets; anything unrecognised gets the
// standard (no-bonus) classification.
func RegionForProvince(code string) MarketRegion {
	switch code {
	case "ON", "QC", "BC", "AB", "SK", "MB":
		return MarketRegionMajorProvince
	case "NB", "NS", "PE", "NL":
		return MarketRegionMaritime
	case "YT", "NT", "NU":
		return MarketRegionRural
	default:
		return MarketRegionStandard
	}
}

// String returns the string representation.
func (r MarketRegion) String() string { return r.value }

// IsZero returns true when not initialised.
func (r MarketRegion) IsZero() bool { return r.value == "" }

// Equal returns true when both regions match.
func (r MarketRegion) Equal(other MarketRegion) bool { return r.value == other.value }

// CommissionBonus returns the additive percentage-point bonus for the region.
func (r MarketRegion) CommissionBonus() decimal.Decimal {
	switch r.value {
	case marketRegionMajorProvince:
		return decimal.RequireFromString("0.5")
	case marketRegionMaritime:
		return decimal.RequireFromString("0.75")
	case marketRegionRural:
		return decimal.RequireFromString("1.0")
	case marketRegionFirstNations:
		return decimal.RequireFromString("1.5")
	default:
		return decimal.Zero
	}
}

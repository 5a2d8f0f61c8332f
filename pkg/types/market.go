package types

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Market represents a Polymarket market from the Gamma API.
//
// The upstream payload ships liquidity and volume as numeric strings and
// outcomes/outcomePrices as JSON-encoded string arrays; UnmarshalJSON parses
// them into their natural Go types, so re-encoding a Market produces plain
// numbers and arrays.
type Market struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Question    string  `json:"question"`
	Description *string `json:"description"`
	Active      bool    `json:"active"`
	Closed      bool    `json:"closed"`
	Liquidity   float64 `json:"liquidity"`
	Volume      float64 `json:"volume"`
	EndDate     string  `json:"endDate"`
	Image       *string `json:"image"`
	Category    *string `json:"category"`

	// Parallel slices: OutcomePrices[i] is the price of Outcomes[i].
	Outcomes      []string `json:"outcomes"`
	OutcomePrices []string `json:"outcomePrices"`

	ConditionID      *string  `json:"conditionId"`
	MarketType       *string  `json:"marketType"`
	TwitterCardImage *string  `json:"twitterCardImage"`
	Icon             *string  `json:"icon"`
	StartDate        *string  `json:"startDate"`
	Volume24hr       *float64 `json:"volume24hr,omitempty"`
	Events           []Event  `json:"events"`
	Archived         *bool    `json:"archived"`
	EnableOrderBook  *bool    `json:"enableOrderBook"`
	GroupItemTitle   *string  `json:"groupItemTitle"`
	GroupItemSlug    *string  `json:"groupItemSlug"`
}

// UnmarshalJSON decodes the Gamma API wire format: liquidity/volume arrive as
// numeric strings and outcomes/outcomePrices as JSON-encoded string arrays.
func (m *Market) UnmarshalJSON(data []byte) error {
	type Alias Market
	aux := &struct {
		Liquidity     string `json:"liquidity"`
		Volume        string `json:"volume"`
		Outcomes      string `json:"outcomes"`
		OutcomePrices string `json:"outcomePrices"`
		*Alias
	}{
		Alias: (*Alias)(m),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	liquidity, err := strconv.ParseFloat(aux.Liquidity, 64)
	if err != nil {
		return fmt.Errorf("parse liquidity %q: %w", aux.Liquidity, err)
	}
	m.Liquidity = liquidity

	volume, err := strconv.ParseFloat(aux.Volume, 64)
	if err != nil {
		return fmt.Errorf("parse volume %q: %w", aux.Volume, err)
	}
	m.Volume = volume

	if err := json.Unmarshal([]byte(aux.Outcomes), &m.Outcomes); err != nil {
		return fmt.Errorf("parse outcomes %q: %w", aux.Outcomes, err)
	}
	if err := json.Unmarshal([]byte(aux.OutcomePrices), &m.OutcomePrices); err != nil {
		return fmt.Errorf("parse outcomePrices %q: %w", aux.OutcomePrices, err)
	}

	// Price lookup pairs the slices by index, so unequal lengths are a
	// malformed market, not a query-time condition.
	if len(m.Outcomes) != len(m.OutcomePrices) {
		return fmt.Errorf("outcomes/outcomePrices length mismatch: %d vs %d",
			len(m.Outcomes), len(m.OutcomePrices))
	}

	return nil
}

// MarketPrice is one outcome's price at a point in time.
type MarketPrice struct {
	MarketID  string  `json:"market_id"`
	OutcomeID string  `json:"outcome_id"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}

// Event is the grouping a market belongs to (e.g. an election) as embedded in
// the market payload.
type Event struct {
	ID          string    `json:"id"`
	Ticker      *string   `json:"ticker"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	Image       *string   `json:"image"`
	Active      *bool     `json:"active"`
	Volume      FlexFloat `json:"volume"`
	Slug        *string   `json:"slug"`
	Tags        []string  `json:"tags,omitempty"`
}

// FlexFloat decodes a float that the API sends inconsistently as a JSON
// number, a numeric string, or null. Unparseable values decode to zero
// rather than failing the whole market.
type FlexFloat float64

// UnmarshalJSON implements tolerant decoding for FlexFloat.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

package types

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// QueryParams holds the filter/sort surface of the Gamma /markets endpoint.
// Nil fields are absent: they are skipped by QueryString but still appear as
// null in CacheKey, so two queries differing only in an omitted field map to
// different keys.
type QueryParams struct {
	Limit           *int     `json:"limit"`
	Offset          *int     `json:"offset"`
	Order           *string  `json:"order"`
	Ascending       *bool    `json:"ascending"`
	Active          *bool    `json:"active"`
	Closed          *bool    `json:"closed"`
	Archived        *bool    `json:"archived"`
	LiquidityNumMin *float64 `json:"liquidity_num_min"`
	LiquidityNumMax *float64 `json:"liquidity_num_max"`
	VolumeNumMin    *float64 `json:"volume_num_min"`
	VolumeNumMax    *float64 `json:"volume_num_max"`
	StartDateMin    *string  `json:"start_date_min"`
	StartDateMax    *string  `json:"start_date_max"`
	EndDateMin      *string  `json:"end_date_min"`
	EndDateMax      *string  `json:"end_date_max"`
	TagID           *string  `json:"tag_id"`
	RelatedTags     *bool    `json:"related_tags"`
}

// DefaultQueryParams returns the standard markets page: top 20 active,
// non-archived markets ordered by liquidity descending.
func DefaultQueryParams() QueryParams {
	return QueryParams{
		Limit:     Ptr(20),
		Offset:    Ptr(0),
		Order:     Ptr("liquidity"),
		Ascending: Ptr(false),
		Active:    Ptr(true),
		Archived:  Ptr(false),
	}
}

// QueryString renders the present parameters as a "?"-prefixed query string.
// Absent parameters are omitted entirely, never serialized as empty or null.
func (p QueryParams) QueryString() string {
	var parts []string

	if p.Limit != nil {
		parts = append(parts, fmt.Sprintf("limit=%d", *p.Limit))
	}
	if p.Offset != nil {
		parts = append(parts, fmt.Sprintf("offset=%d", *p.Offset))
	}
	if p.Order != nil {
		parts = append(parts, "order="+*p.Order)
	}
	if p.Ascending != nil {
		parts = append(parts, fmt.Sprintf("ascending=%t", *p.Ascending))
	}
	if p.Active != nil {
		parts = append(parts, fmt.Sprintf("active=%t", *p.Active))
	}
	if p.Closed != nil {
		parts = append(parts, fmt.Sprintf("closed=%t", *p.Closed))
	}
	if p.Archived != nil {
		parts = append(parts, fmt.Sprintf("archived=%t", *p.Archived))
	}
	if p.LiquidityNumMin != nil {
		parts = append(parts, "liquidity_num_min="+formatFloat(*p.LiquidityNumMin))
	}
	if p.LiquidityNumMax != nil {
		parts = append(parts, "liquidity_num_max="+formatFloat(*p.LiquidityNumMax))
	}
	if p.VolumeNumMin != nil {
		parts = append(parts, "volume_num_min="+formatFloat(*p.VolumeNumMin))
	}
	if p.VolumeNumMax != nil {
		parts = append(parts, "volume_num_max="+formatFloat(*p.VolumeNumMax))
	}
	if p.StartDateMin != nil {
		parts = append(parts, "start_date_min="+*p.StartDateMin)
	}
	if p.StartDateMax != nil {
		parts = append(parts, "start_date_max="+*p.StartDateMax)
	}
	if p.EndDateMin != nil {
		parts = append(parts, "end_date_min="+*p.EndDateMin)
	}
	if p.EndDateMax != nil {
		parts = append(parts, "end_date_max="+*p.EndDateMax)
	}
	if p.TagID != nil {
		parts = append(parts, "tag_id="+*p.TagID)
	}
	if p.RelatedTags != nil {
		parts = append(parts, fmt.Sprintf("related_tags=%t", *p.RelatedTags))
	}

	if len(parts) == 0 {
		return ""
	}

	return "?" + strings.Join(parts, "&")
}

// CacheKey derives the deterministic cache key for a markets page: a fixed
// namespace prefix plus the canonical JSON of the full parameter set
// (including nulls, in declaration order).
func (p QueryParams) CacheKey() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal query params: %w", err)
	}

	return "markets_" + string(raw), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Ptr returns a pointer to v, for filling optional QueryParams fields.
func Ptr[T any](v T) *T {
	return &v
}

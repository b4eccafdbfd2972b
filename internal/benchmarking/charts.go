package benchmarking

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/ziadkadry99/benchdesk/internal/charts"
)

// ChartPage builds the two history chart anchors with their data attributes
// filled from the store.
func (s *Store) ChartPage(ctx context.Context, companyID string) (*charts.Page, error) {
	years, err := s.YearDistribution(ctx, companyID)
	if err != nil {
		return nil, err
	}
	src, err := s.EntrySource(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return NewChartPage(years, src)
}

// NewChartPage encodes a distribution and entry source as anchor attributes.
func NewChartPage(years []YearCount, src EntrySource) (*charts.Page, error) {
	labels := make([]string, len(years))
	counts := make([]int, len(years))
	for i, y := range years {
		labels[i] = y.Year
		counts[i] = y.Count
	}
	rawLabels, err := json.Marshal(labels)
	if err != nil {
		return nil, err
	}
	rawCounts, err := json.Marshal(counts)
	if err != nil {
		return nil, err
	}

	return charts.NewPage(
		charts.NewElement(charts.YearDistributionID, map[string]string{
			charts.AttrYearLabels: string(rawLabels),
			charts.AttrYearData:   string(rawCounts),
		}),
		charts.NewElement(charts.EntrySourceID, map[string]string{
			charts.AttrAdminCount:   strconv.Itoa(src.Admin),
			charts.AttrCompanyCount: strconv.Itoa(src.Company),
		}),
	), nil
}

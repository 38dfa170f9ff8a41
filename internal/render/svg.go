package render

import (
	"strconv"
	"strings"

	"github.com/couchcryptid/accident-map/internal/domain"
)

// RegionPath is one renderable map region: projected SVG path data plus the
// precomputed fills and tooltip fields the page script reads from data
// attributes. Both metric fills are materialized up front so a metric toggle
// is a pure attribute swap in the browser.
type RegionPath struct {
	Code         string // uppercase postal code, "" when unresolvable
	Name         string
	Path         string
	CountFill    string
	SeverityFill string
	HasData      bool
	CountLabel   string // comma-grouped total, e.g. "12,450"
	SevLabel     string // severity to two decimals, e.g. "2.67"
}

// BuildRegions projects every feature and resolves its fills against the
// summaries. Features with codes absent from the summaries fill as value 0,
// the bottom of each scale, and are flagged HasData=false for the "No data"
// tooltip.
func BuildRegions(features []domain.StateFeature, summaries map[string]domain.StateSummary, proj Projector, countScale, sevScale Scale) []RegionPath {
	regions := make([]RegionPath, 0, len(features))
	for _, f := range features {
		r := RegionPath{
			Code: f.Code,
			Name: f.Name,
			Path: proj.PathData(f),
		}
		if r.Name == "" {
			r.Name = r.Code
		}

		summary, ok := summaries[f.Code]
		r.HasData = ok && f.Code != ""
		r.CountFill = countScale.ColorFor(domain.MetricCount.Value(summary))
		r.SeverityFill = sevScale.ColorFor(domain.MetricSeverity.Value(summary))
		if r.HasData {
			r.CountLabel = GroupThousands(summary.TotalCount)
			r.SevLabel = strconv.FormatFloat(summary.AvgSeverity, 'f', 2, 64)
		}
		regions = append(regions, r)
	}
	return regions
}

// GroupThousands formats an integer with comma group separators.
func GroupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var sb strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

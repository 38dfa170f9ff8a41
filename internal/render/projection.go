package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/couchcryptid/accident-map/internal/domain"
)

// Canvas geometry shared by the SVG document and the projection fit.
const (
	CanvasWidth  = 900.0
	CanvasHeight = 500.0
	CanvasMargin = 10.0
)

// Projector turns a feature's polygon geometry into SVG path data in canvas
// coordinates. It is the only thing the renderer knows about map math, so
// scale and aggregation logic stay testable without a display surface.
type Projector interface {
	PathData(f domain.StateFeature) string
}

// albers is a spherical Albers equal-area conic projection. Output is in an
// abstract plane with y increasing northward; the fit transform flips it
// into screen orientation.
type albers struct {
	n, c, rho0 float64
	lon0       float64 // central meridian, degrees
}

func newAlbers(phi1, phi2, phi0, lon0 float64) albers {
	p1 := phi1 * math.Pi / 180
	p2 := phi2 * math.Pi / 180
	p0 := phi0 * math.Pi / 180

	n := (math.Sin(p1) + math.Sin(p2)) / 2
	c := math.Cos(p1)*math.Cos(p1) + 2*n*math.Sin(p1)

	return albers{
		n:    n,
		c:    c,
		rho0: math.Sqrt(c-2*n*math.Sin(p0)) / n,
		lon0: lon0,
	}
}

func (a albers) project(lon, lat float64) (x, y float64) {
	phi := lat * math.Pi / 180

	// Normalize the meridian offset to (-180, 180] so the Aleutian islands
	// west of the antimeridian project next to the rest of Alaska.
	dLon := math.Mod(lon-a.lon0+540, 360) - 180
	theta := a.n * dLon * math.Pi / 180

	rho := math.Sqrt(a.c-2*a.n*math.Sin(phi)) / a.n
	return rho * math.Sin(theta), a.rho0 - rho*math.Cos(theta)
}

// region routes a feature to one of the composite sub-projections.
type region int

const (
	regionLower48 region = iota
	regionAlaska
	regionHawaii
)

func classify(pt orb.Point) region {
	lon, lat := pt[0], pt[1]
	switch {
	case lat > 50 && (lon < -128 || lon > 170):
		return regionAlaska
	case lat < 25 && lon < -150:
		return regionHawaii
	default:
		return regionLower48
	}
}

// affine maps abstract projection coordinates into the canvas. The y scale
// is negative so that north ends up at the top of the screen.
type affine struct {
	sx, sy, tx, ty float64
}

func (t affine) apply(x, y float64) (float64, float64) {
	return t.sx*x + t.tx, t.sy*y + t.ty
}

// box is an axis-aligned canvas rectangle a region is fitted into.
type box struct {
	x0, y0, x1, y1 float64
}

// MapProjection is a composite Albers projection in the style of the usual
// US choropleth layout: the lower 48 fill the canvas, Alaska and Hawaii are
// rescaled into insets along the bottom-left edge. The fit is computed from
// the feature collection itself, so any state subset still fills the canvas.
type MapProjection struct {
	conics     [3]albers
	transforms [3]affine
}

// FitFeatures builds a MapProjection that fits the full feature collection
// into the canvas with the standard margin.
func FitFeatures(features []domain.StateFeature) *MapProjection {
	return FitFeaturesTo(features, CanvasWidth, CanvasHeight, CanvasMargin)
}

// FitFeaturesTo fits the collection into an arbitrary width/height/margin,
// used by tests to probe the fit math directly.
func FitFeaturesTo(features []domain.StateFeature, width, height, margin float64) *MapProjection {
	p := &MapProjection{
		conics: [3]albers{
			regionLower48: newAlbers(29.5, 45.5, 38.0, -96.0),
			regionAlaska:  newAlbers(55.0, 65.0, 60.0, -154.0),
			regionHawaii:  newAlbers(8.0, 18.0, 20.0, -157.0),
		},
	}

	boxes := [3]box{
		regionLower48: {margin, margin, width - margin, height - margin},
		regionAlaska:  {margin, height - 0.34*height, margin + 0.20*width, height - margin},
		regionHawaii:  {margin + 0.22*width, height - 0.22*height, margin + 0.36*width, height - margin},
	}

	var bounds [3]planarBound
	for _, f := range features {
		r := featureRegion(f)
		conic := p.conics[r]
		forEachPoint(f.Geometry, func(pt orb.Point) {
			x, y := conic.project(pt[0], pt[1])
			bounds[r].extend(x, y)
		})
	}

	for r := range p.transforms {
		p.transforms[r] = fitBound(bounds[r], boxes[r])
	}
	return p
}

// featureRegion routes a whole feature by its planar centroid so that a
// state never straddles two sub-projections.
func featureRegion(f domain.StateFeature) region {
	if f.Geometry == nil {
		return regionLower48
	}
	centroid, _ := planar.CentroidArea(f.Geometry)
	return classify(centroid)
}

// Project maps a single lon/lat point through the sub-projection that
// region r uses. Exposed for tests.
func (p *MapProjection) Project(r region, pt orb.Point) (float64, float64) {
	x, y := p.conics[r].project(pt[0], pt[1])
	return p.transforms[r].apply(x, y)
}

// PathData renders a feature's geometry as SVG path data in canvas
// coordinates. Returns "" for features with no polygon geometry.
func (p *MapProjection) PathData(f domain.StateFeature) string {
	r := featureRegion(f)
	conic := p.conics[r]
	t := p.transforms[r]

	var sb strings.Builder
	for _, ring := range rings(f.Geometry) {
		for j, pt := range ring {
			x, y := conic.project(pt[0], pt[1])
			x, y = t.apply(x, y)
			if j == 0 {
				sb.WriteByte('M')
			} else {
				sb.WriteByte('L')
			}
			writeCoord(&sb, x)
			sb.WriteByte(',')
			writeCoord(&sb, y)
		}
		if len(ring) > 0 {
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

// planarBound accumulates the projected extent of one region.
type planarBound struct {
	set                    bool
	minX, minY, maxX, maxY float64
}

func (b *planarBound) extend(x, y float64) {
	if !b.set {
		b.set = true
		b.minX, b.maxX = x, x
		b.minY, b.maxY = y, y
		return
	}
	b.minX = math.Min(b.minX, x)
	b.maxX = math.Max(b.maxX, x)
	b.minY = math.Min(b.minY, y)
	b.maxY = math.Max(b.maxY, y)
}

// fitBound computes a uniform-scale affine transform placing the projected
// extent centered inside the target box, flipping y into screen orientation.
func fitBound(b planarBound, target box) affine {
	w := b.maxX - b.minX
	h := b.maxY - b.minY
	if !b.set || w <= 0 && h <= 0 {
		return affine{sx: 1, sy: -1, tx: target.x0, ty: target.y1}
	}

	bw := target.x1 - target.x0
	bh := target.y1 - target.y0
	k := math.Min(safeRatio(bw, w), safeRatio(bh, h))

	// Center the scaled extent inside the box.
	tx := target.x0 + (bw-k*w)/2 - k*b.minX
	ty := target.y0 + (bh-k*h)/2 + k*b.maxY
	return affine{sx: k, sy: -k, tx: tx, ty: ty}
}

func safeRatio(a, b float64) float64 {
	if b <= 0 {
		return math.Inf(1)
	}
	return a / b
}

func rings(g orb.Geometry) []orb.Ring {
	switch geom := g.(type) {
	case orb.Polygon:
		return geom
	case orb.MultiPolygon:
		var out []orb.Ring
		for _, poly := range geom {
			out = append(out, poly...)
		}
		return out
	default:
		return nil
	}
}

func forEachPoint(g orb.Geometry, fn func(orb.Point)) {
	for _, ring := range rings(g) {
		for _, pt := range ring {
			fn(pt)
		}
	}
}

// writeCoord formats a canvas coordinate with one decimal, enough for
// sub-pixel accuracy without bloating the SVG.
func writeCoord(sb *strings.Builder, v float64) {
	sb.WriteString(strconv.FormatFloat(v, 'f', 1, 64))
}

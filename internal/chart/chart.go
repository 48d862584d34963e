// Package chart renders the per-ward report statistics as stacked
// bar-chart PNG images.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"hospital-sim-reporting/internal/models"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	blue   = color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff}
	green  = color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff}
	red    = color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff}
	purple = color.RGBA{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff}
)

const (
	tileWidth  = 7 * vg.Inch
	tileHeight = 4 * vg.Inch
	barWidth   = vg.Length(24)
)

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// ProlongedStays renders the three-panel prolonged-stay report for a
// ward: case counts with dual percentage annotations, norm-vs-actual
// length-of-stay comparison, and patient age mean with spread.
func (r *Renderer) ProlongedStays(ward string, stats []models.ProlongedStayStat) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("chart: no prolonged-stay data for ward %s", ward)
	}

	codes := make([]string, len(stats))
	counts := make(plotter.Values, len(stats))
	normLOS := make(plotter.Values, len(stats))
	actualLOS := make(plotter.Values, len(stats))
	ageMeans := make([]float64, len(stats))
	ageSDs := make([]float64, len(stats))
	countLabels := make([]string, len(stats))
	for i, st := range stats {
		codes[i] = st.DiagnosisCode
		counts[i] = float64(st.Cases)
		normLOS[i] = st.MeanNormLOS
		actualLOS[i] = st.MeanProlongedLOS
		ageMeans[i] = st.AgeMean
		ageSDs[i] = st.AgeSD
		countLabels[i] = fmt.Sprintf("%d (%.1f%%*|%.1f%%**)", st.Cases, st.PctOfWard, st.PctOfCode)
	}

	p1, err := countPlot(fmt.Sprintf("Prolonged stays - %s: case counts", ward), codes, counts, countLabels, blue)
	if err != nil {
		return nil, err
	}
	p1.Legend.Add("* share of all ward admissions")
	p1.Legend.Add("** share of admissions with this code")
	p1.Legend.Top = true

	p2, err := losComparisonPlot(fmt.Sprintf("Prolonged stays - %s: norm vs actual", ward), codes, normLOS, actualLOS)
	if err != nil {
		return nil, err
	}

	p3, err := agePlot(fmt.Sprintf("Prolonged stays - %s: patient age", ward), codes, ageMeans, ageSDs, false)
	if err != nil {
		return nil, err
	}

	return renderColumn(p1, p2, p3)
}

// Readmissions renders the two-panel 14-day readmission report for a
// ward: case counts per diagnosis code and the patient age profile.
func (r *Renderer) Readmissions(ward string, stats []models.ReadmissionStat) ([]byte, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("chart: no readmission data for ward %s", ward)
	}

	codes := make([]string, len(stats))
	counts := make(plotter.Values, len(stats))
	ageMeans := make([]float64, len(stats))
	ageSDs := make([]float64, len(stats))
	countLabels := make([]string, len(stats))
	for i, st := range stats {
		codes[i] = st.DiagnosisCode
		counts[i] = float64(st.Cases)
		ageMeans[i] = st.AgeMean
		ageSDs[i] = st.AgeSD
		countLabels[i] = fmt.Sprintf("%d", st.Cases)
	}

	p1, err := countPlot(fmt.Sprintf("Readmissions within 14 days - %s: case counts", ward), codes, counts, countLabels, red)
	if err != nil {
		return nil, err
	}

	p2, err := agePlot(fmt.Sprintf("Readmissions within 14 days - %s: patient age", ward), codes, ageMeans, ageSDs, true)
	if err != nil {
		return nil, err
	}

	return renderColumn(p1, p2)
}

func countPlot(title string, codes []string, counts plotter.Values, labels []string, fill color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Patients"

	bars, err := plotter.NewBarChart(counts, barWidth)
	if err != nil {
		return nil, err
	}
	bars.Color = fill
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(codes...)

	pts := make(plotter.XYs, len(counts))
	for i, v := range counts {
		pts[i] = plotter.XY{X: float64(i), Y: v}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return nil, err
	}
	p.Add(annotations)
	return p, nil
}

func losComparisonPlot(title string, codes []string, norm, actual plotter.Values) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Days"

	w := barWidth / 2
	normBars, err := plotter.NewBarChart(norm, w)
	if err != nil {
		return nil, err
	}
	normBars.Color = green
	normBars.LineStyle.Width = 0
	normBars.Offset = -w / 2

	actualBars, err := plotter.NewBarChart(actual, w)
	if err != nil {
		return nil, err
	}
	actualBars.Color = red
	actualBars.LineStyle.Width = 0
	actualBars.Offset = w / 2

	p.Add(normBars, actualBars)
	p.Legend.Add("Norm (P90)", normBars)
	p.Legend.Add("Actual", actualBars)
	p.Legend.Top = true
	p.NominalX(codes...)
	return p, nil
}

// ageErrs feeds bar positions and symmetric spreads to the error-bar
// plotter.
type ageErrs struct {
	plotter.XYs
	plotter.YErrors
}

func agePlot(title string, codes []string, means, sds []float64, capAxis bool) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Age (years)"

	vals := make(plotter.Values, len(means))
	copy(vals, means)
	bars, err := plotter.NewBarChart(vals, barWidth)
	if err != nil {
		return nil, err
	}
	bars.Color = purple
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(codes...)

	errData := ageErrs{
		XYs:     make(plotter.XYs, len(means)),
		YErrors: make(plotter.YErrors, len(means)),
	}
	for i := range means {
		errData.XYs[i] = plotter.XY{X: float64(i), Y: means[i]}
		errData.YErrors[i].Low = sds[i]
		errData.YErrors[i].High = sds[i]
	}
	errBars, err := plotter.NewYErrorBars(errData)
	if err != nil {
		return nil, err
	}
	p.Add(errBars)

	pts := make(plotter.XYs, len(means))
	labels := make([]string, len(means))
	for i := range means {
		pts[i] = plotter.XY{X: float64(i), Y: means[i] + sds[i]}
		labels[i] = fmt.Sprintf("%.0f±%.1f", means[i], sds[i])
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return nil, err
	}
	p.Add(annotations)

	if capAxis {
		maxTop := 0.0
		for i := range means {
			if top := means[i] + sds[i]; top > maxTop {
				maxTop = top
			}
		}
		p.Y.Min = 0
		p.Y.Max = maxTop * 1.15
	}
	return p, nil
}

// renderColumn stacks plots vertically onto one PNG canvas
func renderColumn(plots ...*plot.Plot) ([]byte, error) {
	rows := len(plots)
	img := vgimg.New(tileWidth, tileHeight*vg.Length(rows))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      1,
		PadX:      vg.Millimeter * 2,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	grid := make([][]*plot.Plot, rows)
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(grid, tiles, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode chart png: %w", err)
	}
	return buf.Bytes(), nil
}

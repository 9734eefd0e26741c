package render

import (
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/guttosm/stockplot/config"
	"github.com/guttosm/stockplot/internal/domain/models"
)

// fileSuffix is appended to the symbol to name the output file.
const fileSuffix = "_stock_data_chart.svg"

// lockStripes bounds the number of write locks no matter how many symbols
// are rendered. Symbols sharing a stripe are serialised with each other.
const lockStripes = 64

// Kind is a supported chart style.
type Kind int

const (
	KindBar Kind = iota + 1
	KindLine
)

// ParseKind reads a chart type case-insensitively.
func ParseKind(t models.ChartType) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(string(t))) {
	case "bar":
		return KindBar, nil
	case "line":
		return KindLine, nil
	default:
		return 0, models.NewChartError(models.KindUnsupportedChartType, string(t), nil)
	}
}

// SVGRenderer draws charts with gonum/plot and writes them as SVG files.
//
// Writes for the same symbol are serialised and go through a temporary file
// that is renamed into place, so a reader never sees a half-written chart.
// An SVGRenderer must not be copied after first use.
type SVGRenderer struct {
	dir    string
	width  vg.Length
	height vg.Length
	locks  [lockStripes]sync.Mutex
}

// NewSVGRenderer builds a renderer writing into cfg.OutputDir.
func NewSVGRenderer(cfg config.ChartConfig) *SVGRenderer {
	w, h := cfg.WidthIn, cfg.HeightIn
	if w <= 0 {
		w = 10
	}
	if h <= 0 {
		h = 6
	}
	return &SVGRenderer{
		dir:    cfg.OutputDir,
		width:  vg.Length(w) * vg.Inch,
		height: vg.Length(h) * vg.Inch,
	}
}

// ChartPath returns where the chart for symbol is written.
func (r *SVGRenderer) ChartPath(symbol string) (string, error) {
	if symbol == "" || symbol == "." || symbol == ".." || strings.ContainsAny(symbol, `/\`) {
		return "", models.NewChartError(models.KindRenderError, fmt.Sprintf("invalid symbol for file name %q", symbol), nil)
	}
	return filepath.Join(r.dir, symbol+fileSuffix), nil
}

// Render draws chart as chartType and writes it to ChartPath(symbol).
//
// Errors are UnsupportedChartType or RenderError.
func (r *SVGRenderer) Render(chart models.Chart, chartType models.ChartType, symbol string) (string, error) {
	kind, err := ParseKind(chartType)
	if err != nil {
		return "", err
	}
	dst, err := r.ChartPath(symbol)
	if err != nil {
		return "", err
	}

	mu := r.lockFor(symbol)
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", models.NewChartError(models.KindRenderError, "create output dir", err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+symbol+"-*.svg.tmp")
	if err != nil {
		return "", models.NewChartError(models.KindRenderError, "create temp file", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := r.Encode(tmp, chart, kind); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", models.NewChartError(models.KindRenderError, "close temp file", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return "", models.NewChartError(models.KindRenderError, "chmod", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return "", models.NewChartError(models.KindRenderError, "rename", err)
	}
	return dst, nil
}

// Encode writes chart as SVG to w.
func (r *SVGRenderer) Encode(w io.Writer, chart models.Chart, kind Kind) error {
	p, err := r.build(chart, kind)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(r.width, r.height, "svg")
	if err != nil {
		return models.NewChartError(models.KindRenderError, "svg canvas", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return models.NewChartError(models.KindRenderError, "write svg", err)
	}
	return nil
}

func (r *SVGRenderer) build(chart models.Chart, kind Kind) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.Legend.Top = true
	p.Y.Label.Text = "Price"

	if len(chart.Labels) > 0 {
		p.NominalX(chart.Labels...)
	}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	switch kind {
	case KindBar:
		return p, r.addBars(p, chart)
	case KindLine:
		return p, r.addLines(p, chart)
	default:
		return nil, models.NewChartError(models.KindUnsupportedChartType, fmt.Sprintf("kind %d", kind), nil)
	}
}

// addBars draws one bar group per label with the series side by side.
func (r *SVGRenderer) addBars(p *plot.Plot, chart models.Chart) error {
	n := len(chart.Series)
	if n == 0 || len(chart.Labels) == 0 {
		return nil
	}
	barWidth := r.width * 0.8 / vg.Length(len(chart.Labels)*(n+1))
	if barWidth < 0.5 {
		barWidth = 0.5
	}

	for i, s := range chart.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth)
		if err != nil {
			return models.NewChartError(models.KindRenderError, "bars "+s.Name, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = barWidth * vg.Length(2*i-n+1) / 2
		p.Add(bars)
		p.Legend.Add(s.Name, bars)
	}
	return nil
}

func (r *SVGRenderer) addLines(p *plot.Plot, chart models.Chart) error {
	for i, s := range chart.Series {
		pts := make(plotter.XYs, len(s.Values))
		for j, v := range s.Values {
			pts[j].X = float64(j)
			pts[j].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return models.NewChartError(models.KindRenderError, "line "+s.Name, err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	return nil
}

func lockStripe(symbol string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum32() % lockStripes
}

func (r *SVGRenderer) lockFor(symbol string) *sync.Mutex {
	return &r.locks[lockStripe(symbol)]
}

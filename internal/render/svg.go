// Package render draws laid-out bracket sides as SVG.
package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/models"
)

// ViewBox is an SVG user-space rectangle
type ViewBox struct {
	MinX, MinY, Width, Height float64
}

func (v ViewBox) String() string {
	return fmt.Sprintf("%g %g %g %g", v.MinX, v.MinY, v.Width, v.Height)
}

// Options sizes the drawn match boxes
type Options struct {
	BoxWidth     float64
	BoxHeight    float64
	Padding      float64
	HeaderOffset float64 // distance from a column's top box to its header baseline
	Fallback     ViewBox // used when content bounds cannot be measured
}

// DefaultOptions fit the default column pitch of 220
func DefaultOptions() Options {
	return Options{
		BoxWidth:     180,
		BoxHeight:    44,
		Padding:      20,
		HeaderOffset: 14,
		Fallback:     ViewBox{0, 0, 1280, 1080},
	}
}

// SVG renders bracket layouts. It holds no state between renders.
type SVG struct {
	opts Options
}

// New creates a renderer
func New(opts Options) *SVG {
	return &SVG{opts: opts}
}

// headerHeight approximates the rendered height of a header line
const headerHeight = 14

// FitViewBox returns the padded bounding box of every node box and header of
// sides. ok is false when there is nothing to measure or a coordinate is not finite.
func (r *SVG) FitViewBox(sides ...bracket.SideLayout) (vb ViewBox, ok bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	count := 0

	extend := func(x0, y0, x1, y1 float64) {
		minX = math.Min(minX, x0)
		minY = math.Min(minY, y0)
		maxX = math.Max(maxX, x1)
		maxY = math.Max(maxY, y1)
	}

	for _, side := range sides {
		for _, n := range side.Nodes {
			if !finite(n.X) || !finite(n.Y) {
				return r.opts.Fallback, false
			}
			extend(n.X, n.Y-r.opts.BoxHeight/2, n.X+r.opts.BoxWidth, n.Y+r.opts.BoxHeight/2)
			count++
		}
		if len(side.Nodes) > 0 {
			top := r.headerY(side)
			for _, h := range side.Headers {
				extend(h.X, top-headerHeight, h.X+r.opts.BoxWidth, top)
			}
		}
	}

	if count == 0 {
		return r.opts.Fallback, false
	}
	p := r.opts.Padding
	return ViewBox{
		MinX:   minX - p,
		MinY:   minY - p,
		Width:  maxX - minX + 2*p,
		Height: maxY - minY + 2*p,
	}, true
}

// headerY is the baseline of a side's round headers, just above its highest box
func (r *SVG) headerY(side bracket.SideLayout) float64 {
	top := math.Inf(1)
	for _, n := range side.Nodes {
		top = math.Min(top, n.Y)
	}
	return top - r.opts.BoxHeight/2 - r.opts.HeaderOffset
}

// Render writes a standalone SVG document containing sides
func (r *SVG) Render(w io.Writer, sides ...bracket.SideLayout) error {
	vb, _ := r.FitViewBox(sides...)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" preserveAspectRatio="xMidYMin meet" class="bracket">`, vb)
	bw.WriteString("\n")

	for _, side := range sides {
		r.renderSide(bw, side)
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func (r *SVG) renderSide(w *bufio.Writer, side bracket.SideLayout) {
	fmt.Fprintf(w, `<g class="side side-%s">`, side.Side)
	w.WriteString("\n")

	positions := make(map[string]models.LayoutNode, len(side.Nodes))
	for _, n := range side.Nodes {
		positions[n.ID] = n
	}
	records := make(map[string]models.MatchRecord, len(side.Records))
	for _, rec := range side.Records {
		records[rec.ID] = rec
	}

	if len(side.Nodes) > 0 {
		y := r.headerY(side)
		for _, h := range side.Headers {
			fmt.Fprintf(w, `<text class="round-header" x="%g" y="%g">%s</text>`, h.X, y, esc(h.Label))
			w.WriteString("\n")
		}
	}

	for _, c := range side.Connectors {
		from, okFrom := positions[c.From]
		to, okTo := positions[c.To]
		if !okFrom || !okTo {
			continue
		}
		x1 := from.X + r.opts.BoxWidth
		x2 := to.X
		mid := x1 + (x2-x1)/2
		fmt.Fprintf(w, `<path class="connector" d="M %g %g H %g V %g H %g" fill="none"/>`, x1, from.Y, mid, to.Y, x2)
		w.WriteString("\n")
	}

	for _, n := range side.Nodes {
		r.renderMatch(w, n, records[n.ID])
	}

	w.WriteString("</g>\n")
}

func (r *SVG) renderMatch(w *bufio.Writer, n models.LayoutNode, rec models.MatchRecord) {
	top := n.Y - r.opts.BoxHeight/2
	half := r.opts.BoxHeight / 2

	fmt.Fprintf(w, `<g class="set" data-id="%s">`, esc(n.ID))
	fmt.Fprintf(w, `<title>%s</title>`, esc(n.DisplayName))
	fmt.Fprintf(w, `<rect x="%g" y="%g" width="%g" height="%g" rx="4"/>`, n.X, top, r.opts.BoxWidth, r.opts.BoxHeight)
	fmt.Fprintf(w, `<line x1="%g" y1="%g" x2="%g" y2="%g"/>`, n.X, n.Y, n.X+r.opts.BoxWidth, n.Y)

	for i := 0; i < 2; i++ {
		name := bracket.ShortName(rec.EntrantName(i))
		if name == "" {
			name = bracket.TBD
		}
		class := "player"
		if rec.WinnerID != "" && rec.Slots[i].Entrant != nil && rec.Slots[i].Entrant.ID == rec.WinnerID {
			class += " winner"
		}
		fmt.Fprintf(w, `<text class="%s" x="%g" y="%g">%s</text>`, class, n.X+6, top+float64(i)*half+half*0.7, esc(name))
	}

	if rec.DisplayScore != "" {
		fmt.Fprintf(w, `<text class="score" x="%g" y="%g" text-anchor="end">%s</text>`,
			n.X+r.opts.BoxWidth-4, top+r.opts.BoxHeight+12, esc(rec.DisplayScore))
	}
	w.WriteString("</g>\n")
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func esc(s string) string {
	return html.EscapeString(s)
}

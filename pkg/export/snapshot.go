package export

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/hypercut/pkg/partition"
)

// Snapshot rendering: both blocks as vertical columns of cells, internal
// edges inside a column, cut edges drawn dashed across the gap.

const (
	snapColumnGap = 260
	snapMarginX   = 80
	snapMarginY   = 70
	snapRowPitch  = 46
	snapRadius    = 14
)

var (
	snapBackdrop = color.RGBA{R: 0xfa, G: 0xfa, B: 0xf7, A: 0xff}
	snapNode     = color.RGBA{R: 0x3b, G: 0x6e, B: 0xa5, A: 0xff}
	snapText     = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	snapEdge     = color.RGBA{R: 0xb0, G: 0xb0, B: 0xa8, A: 0xff}
	snapCutEdge  = color.RGBA{R: 0xc4, G: 0x3d, B: 0x3d, A: 0xff}
)

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type snapLayout struct {
	width, height int
	order         []int          // all ids, A column first, sorted within
	pos           map[int][2]int // id -> center
	cut           map[[2]int]bool
	title         string
}

func layoutSnapshot(res *partition.Result, g Graph) snapLayout {
	a := append([]int(nil), res.A...)
	b := append([]int(nil), res.B...)
	sort.Ints(a)
	sort.Ints(b)
	block := blockOf(res)

	rows := len(a)
	if len(b) > rows {
		rows = len(b)
	}
	if rows == 0 {
		rows = 1
	}
	l := snapLayout{
		width:  2*snapMarginX + snapColumnGap + 2*snapRadius,
		height: 2*snapMarginY + (rows-1)*snapRowPitch + 2*snapRadius,
		order:  append(append([]int(nil), a...), b...),
		pos:    make(map[int][2]int, len(a)+len(b)),
		cut:    make(map[[2]int]bool),
		title:  fmt.Sprintf("cutset %d  |A|=%d |B|=%d", res.Cutset, len(a), len(b)),
	}
	for i, id := range a {
		l.pos[id] = [2]int{snapMarginX + snapRadius, snapMarginY + snapRadius + i*snapRowPitch}
	}
	for i, id := range b {
		l.pos[id] = [2]int{snapMarginX + snapRadius + snapColumnGap, snapMarginY + snapRadius + i*snapRowPitch}
	}
	for _, e := range g.Edges {
		if block[e[0]] != block[e[1]] {
			l.cut[e] = true
		}
	}
	return l
}

// SnapshotSVG renders the partition as an SVG image.
func SnapshotSVG(res *partition.Result, g Graph) ([]byte, error) {
	l := layoutSnapshot(res, g)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(l.width, l.height)
	canvas.Rect(0, 0, l.width, l.height, fmt.Sprintf("fill:%s", css(snapBackdrop)))
	canvas.Text(snapMarginX, 34, l.title,
		fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;font-weight:bold", css(snapText)))

	for _, e := range g.Edges {
		p1, ok1 := l.pos[e[0]]
		p2, ok2 := l.pos[e[1]]
		if !ok1 || !ok2 {
			continue
		}
		style := fmt.Sprintf("stroke:%s;stroke-width:1.5", css(snapEdge))
		if l.cut[e] {
			style = fmt.Sprintf("stroke:%s;stroke-width:2;stroke-dasharray:4", css(snapCutEdge))
		}
		canvas.Line(p1[0], p1[1], p2[0], p2[1], style)
	}
	for _, id := range l.order {
		p := l.pos[id]
		canvas.Circle(p[0], p[1], snapRadius,
			fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(snapNode), css(snapText)))
		canvas.Text(p[0], p[1]+4, fmt.Sprintf("%d", id),
			"fill:#ffffff;font-size:12px;font-family:monospace;text-anchor:middle")
	}
	canvas.End()
	return buf.Bytes(), nil
}

// SnapshotPNG renders the same layout as a PNG image.
func SnapshotPNG(res *partition.Result, g Graph) ([]byte, error) {
	l := layoutSnapshot(res, g)

	dc := gg.NewContext(l.width, l.height)
	dc.SetColor(snapBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for _, e := range g.Edges {
		p1, ok1 := l.pos[e[0]]
		p2, ok2 := l.pos[e[1]]
		if !ok1 || !ok2 {
			continue
		}
		if l.cut[e] {
			dc.SetColor(snapCutEdge)
			dc.SetLineWidth(2)
		} else {
			dc.SetColor(snapEdge)
			dc.SetLineWidth(1.5)
		}
		dc.DrawLine(float64(p1[0]), float64(p1[1]), float64(p2[0]), float64(p2[1]))
		dc.Stroke()
	}
	for _, id := range l.order {
		p := l.pos[id]
		dc.SetColor(snapNode)
		dc.DrawCircle(float64(p[0]), float64(p[1]), snapRadius)
		dc.Fill()
		dc.SetColor(color.White)
		dc.DrawStringAnchored(fmt.Sprintf("%d", id), float64(p[0]), float64(p[1]), 0.5, 0.35)
	}
	dc.SetColor(snapText)
	dc.DrawString(l.title, snapMarginX, 30)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("export: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

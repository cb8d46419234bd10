package turtle

import "math"

// MaxWrapHops bounds the number of edge crossings a single forward move may
// make. The remainder is drawn in one stroke and the pen is folded back onto
// the viewport.
const MaxWrapHops = 1024

// MaxDistanceRatio caps the forward distance as a multiple of the shorter
// viewport side. At most 2*MaxDistanceRatio+2 edges can be crossed in one
// move, well under MaxWrapHops.
const MaxDistanceRatio = 64

// movement is one candidate hop of a forward move.
type movement struct {
	end    Point
	length float64
	wrapX  bool
	wrapY  bool
	newX   float64
	newY   float64
}

func (m movement) wraps() bool { return m.wrapX || m.wrapY }

// nextMovement picks the shortest of: the straight move over dist, the move
// to the crossed vertical edge, and the move to the crossed horizontal edge.
// An edge test is skipped when the heading runs parallel to that edge.
func (in *Interpreter) nextMovement(p Pose, dist float64) movement {
	cos, sin := math.Cos(p.Heading), math.Sin(p.Heading)
	w, h := in.Viewport.Width, in.Viewport.Height

	ex, ey := p.X+dist*cos, p.Y+dist*sin
	best := movement{end: Point{X: ex, Y: ey}, length: dist}

	if cos != 0 && (ex < 0 || ex > w) {
		edge, opposite := w, 0.0
		if ex < 0 {
			edge, opposite = 0, w
		}
		l := max((edge-p.X)/cos, 0)
		if l < best.length {
			best = movement{end: Point{X: edge, Y: p.Y + l*sin}, length: l, wrapX: true, newX: opposite}
		}
	}

	if sin != 0 && (ey < 0 || ey > h) {
		edge, opposite := h, 0.0
		if ey < 0 {
			edge, opposite = 0, h
		}
		l := max((edge-p.Y)/sin, 0)
		if l < best.length {
			best = movement{end: Point{X: p.X + l*cos, Y: edge}, length: l, wrapY: true, newY: opposite}
		}
	}
	return best
}

// forward moves the pen by the configured distance, wrapping at the edges,
// and appends the drawn segments to segs.
func (in *Interpreter) forward(pen *Pen, segs []Segment) []Segment {
	remaining := in.Params.Distance
	for hop := 0; hop < MaxWrapHops; hop++ {
		m := in.nextMovement(pen.Pose, remaining)
		if !m.wraps() {
			break
		}
		if m.length > 0 {
			segs = append(segs, Segment{
				From:    pen.Point(),
				To:      m.end,
				Width:   in.Params.PreviewWidth,
				Color:   pen.Color,
				Preview: true,
			})
		}
		pen.X, pen.Y = m.end.X, m.end.Y
		if m.wrapX {
			pen.X = m.newX
		}
		if m.wrapY {
			pen.Y = m.newY
		}
		remaining -= m.length
	}

	from := pen.Point()
	pen.X += remaining * math.Cos(pen.Heading)
	pen.Y += remaining * math.Sin(pen.Heading)
	segs = append(segs, Segment{
		From:  from,
		To:    pen.Point(),
		Width: in.Params.StrokeWidth,
		Color: pen.Color,
	})
	pen.X = wrapCoord(pen.X, in.Viewport.Width)
	pen.Y = wrapCoord(pen.Y, in.Viewport.Height)
	return segs
}

// wrapCoord folds v back into [0, size]. Values already inside are returned
// unchanged, so only a move cut short by MaxWrapHops is affected.
func wrapCoord(v, size float64) float64 {
	if v >= 0 && v <= size {
		return v
	}
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

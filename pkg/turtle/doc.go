// Package turtle interprets L-system command strings as pen movements.
//
// A [Pen] carries the current [Pose], the branch stack and the stroke colour.
// [Interpreter.Interpret] executes one command string against a pen, mutating
// it in place, and returns the line segments that were drawn:
//
//	in := turtle.NewInterpreter(turtle.Viewport{Width: 2560, Height: 1440}, turtle.DefaultParams())
//	pen := &turtle.Pen{Color: turtle.RGBA(1, 1, 1, 1)}
//	segs := in.Interpret("F[+F]-F", 0.5, pen)
//
// # Wrapping
//
// The viewport is a torus. A forward move that would leave the viewport is
// split into hops: each hop runs to the nearest crossed edge and is drawn as
// a thin preview line, then the pen reappears on the opposite edge. The last
// hop is drawn at the full stroke width.
package turtle

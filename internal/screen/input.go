package screen

// Activity thresholds before the window closes.
const (
	maxPointerMoves = 20
	maxKeyPresses   = 1
)

// exitWatcher counts user activity. The first observed cursor position only
// primes the watcher so the window opening under the pointer does not count.
type exitWatcher struct {
	moves   int
	presses int

	lastX, lastY int
	primed       bool
}

func newExitWatcher() *exitWatcher {
	return &exitWatcher{}
}

// observe records one update's input and reports whether the session should end.
func (w *exitWatcher) observe(x, y, pressed int) bool {
	if !w.primed {
		w.lastX, w.lastY, w.primed = x, y, true
	} else if x != w.lastX || y != w.lastY {
		w.moves++
		w.lastX, w.lastY = x, y
	}
	w.presses += pressed
	return w.moves > maxPointerMoves || w.presses > maxKeyPresses
}

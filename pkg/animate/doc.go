// Package animate drives an L-system drawing over time.
//
// A [Scheduler] owns the pen, the current grammar and its segmenter, and two
// countdown timers. Each call to [Scheduler.Tick] advances the timers by the
// elapsed seconds. When the move timer expires the next chunk batch is
// interpreted; when the segmenter is exhausted a fresh grammar is generated
// and the pen gets a new colour but keeps its pose. When the fade timer
// expires the returned [Frame] asks the renderer to dim everything drawn so far.
//
// Schedulers are not safe for concurrent use. Two schedulers built from the
// same seed and options produce identical frames for identical tick sequences.
package animate

// Package pkg provides the core libraries for lsaver, a screensaver that
// draws random Lindenmayer systems.
//
// # Overview
//
// lsaver invents a small L-system, rewrites its axiom until the string is
// long enough, and feeds the result to a turtle a few moves at a time. When
// the string is used up a new grammar takes over from where the pen stopped.
// The pkg directory is organized into these areas:
//
//  1. [lsystem] - Grammar synthesis, rewriting and batch segmentation
//  2. [turtle] - Command interpretation on a toroidal canvas
//  3. [animate] - Move and fade timers driving the regeneration cycle
//  4. [pipeline] - Headless simulate → render runs with caching
//  5. [render] - SVG, JSON, PNG and PDF output plus grammar diagrams
//
// # Architecture
//
// The data flow of one drawing:
//
//	Generator (seeded PCG)
//	     ↓
//	Grammar ──Rewrite──→ expanded string
//	                          ↓
//	                     Segmenter (5 forwards per batch)
//	                          ↓
//	                     Interpreter ──→ []Segment (wrapping at the edges)
//	                          ↓
//	Scheduler frames ──→ window | terminal | SVG/JSON/PNG/PDF
//
// # Supporting Packages
//
//   - [config] - TOML configuration with LSAVER_* environment overrides
//   - [cache] - Artifact cache backends (file, redis, null)
//   - [errors] - Coded errors shared by the CLI and HTTP service
//   - [observability] - Optional hooks for metrics and tracing
//   - [buildinfo] - Version information set at build time
//
// # Determinism
//
// Every random choice flows from one seed through an explicit *rand.Rand, so
// a seed and a configuration always reproduce the same drawing.
package pkg

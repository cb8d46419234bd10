// Package lsystem synthesizes random L-system grammars and expands them into
// turtle command strings.
//
// # Overview
//
// Generation runs in three stages, each owned by a distinct type:
//
//  1. [Generator] builds a random, self-consistent [Grammar]: an axiom, one
//     production per symbol, and a single turn angle in radians.
//  2. [Rewrite] substitutes every production into the axiom, cycle after cycle,
//     until the string reaches a length threshold, stops changing, or hits
//     [MaxGrowthCycles].
//  3. [Segmenter] hands the expanded string out in small batches of [Chunk]s so a
//     drawing can be animated a few strokes at a time.
//
// # Alphabet
//
// Command strings are built from [Forward] ('F'), [TurnLeft] ('+'),
// [TurnRight] ('-'), two inert placeholders ('A', 'B') and the branch brackets
// [Push] ('[') and [Pop] (']'). Brackets are never used as production keys.
//
// # Randomness
//
// Every random decision draws from the *rand.Rand handed to [NewGenerator].
// Seeding it with [NewRand] makes a grammar reproducible:
//
//	rng := lsystem.NewRand(42)
//	gen := lsystem.NewGenerator(lsystem.DefaultParams(), rng)
//	g, err := gen.Generate()
//	if err != nil {
//	    return err
//	}
//	exp := lsystem.Rewrite(g, 2000)
//	seg := lsystem.NewSegmenter(exp.String, g.Angle)
//	for batch, ok := seg.Next(); ok; batch, ok = seg.Next() {
//	    // draw batch
//	}
package lsystem

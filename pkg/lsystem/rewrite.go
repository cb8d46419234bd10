package lsystem

import "strings"

// MaxGrowthCycles caps rewriting for grammars that never settle or grow slowly.
const MaxGrowthCycles = 200

// StopReason records why [Rewrite] stopped.
type StopReason int

const (
	StopLength     StopReason = iota // reached the length threshold
	StopFixedPoint                   // a cycle left the string unchanged
	StopCycleCap                     // hit MaxGrowthCycles
)

func (r StopReason) String() string {
	switch r {
	case StopLength:
		return "length"
	case StopFixedPoint:
		return "fixed-point"
	case StopCycleCap:
		return "cycle-cap"
	default:
		return "unknown"
	}
}

// Expansion is the result of rewriting a grammar's axiom.
type Expansion struct {
	String string
	Cycles int
	Stop   StopReason
}

// Rewrite expands g's axiom by parallel substitution until the string is at
// least maxLen bytes long, stops changing, or MaxGrowthCycles have run.
// The string that crossed the threshold is returned as is.
func Rewrite(g *Grammar, maxLen int) Expansion {
	var table [256]string
	var has [256]bool
	for _, r := range g.Rules {
		table[r.Symbol] = r.Body
		has[r.Symbol] = true
	}

	cur := g.Axiom
	if len(cur) >= maxLen {
		return Expansion{String: cur, Stop: StopLength}
	}

	var b strings.Builder
	for cycle := 1; cycle <= MaxGrowthCycles; cycle++ {
		b.Reset()
		for i := 0; i < len(cur); i++ {
			if c := cur[i]; has[c] {
				b.WriteString(table[c])
			} else {
				b.WriteByte(c)
			}
		}

		next := b.String()
		if next == cur {
			return Expansion{String: cur, Cycles: cycle, Stop: StopFixedPoint}
		}
		cur = next
		if len(cur) >= maxLen {
			return Expansion{String: cur, Cycles: cycle, Stop: StopLength}
		}
	}
	return Expansion{String: cur, Cycles: MaxGrowthCycles, Stop: StopCycleCap}
}

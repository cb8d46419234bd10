package lsystem

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/lsaver/pkg/errors"
)

// Command symbols understood by the turtle.
const (
	Forward   byte = 'F'
	TurnLeft  byte = '+'
	TurnRight byte = '-'
	Push      byte = '['
	Pop       byte = ']'
)

// Alphabet is the set of non-bracket symbols random command strings are drawn
// from. 'A' and 'B' draw nothing; they only give productions something to grow.
var Alphabet = [...]byte{Forward, TurnLeft, TurnRight, 'A', 'B'}

// NewRand returns a PCG-backed source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Rule is a single production: every occurrence of Symbol is replaced by Body.
type Rule struct {
	Symbol byte
	Body   string
}

// MarshalJSON renders the symbol as a one-character string.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Symbol string `json:"symbol"`
		Body   string `json:"body"`
	}{string(r.Symbol), r.Body})
}

// Grammar is a deterministic, context-free L-system with a single turn angle.
// Rules are kept in the order their symbols were assigned.
type Grammar struct {
	Axiom string  `json:"axiom"`
	Rules []Rule  `json:"rules"`
	Angle float64 `json:"angle"`
}

// Production returns the body for symbol c, if c has a rule.
func (g *Grammar) Production(c byte) (string, bool) {
	for _, r := range g.Rules {
		if r.Symbol == c {
			return r.Body, true
		}
	}
	return "", false
}

// Validate checks the structural invariants every generated grammar satisfies:
// keys are distinct non-bracket symbols, each key was seen in the axiom or an
// earlier rule body before it was assigned, and something draws.
func (g *Grammar) Validate() error {
	var seen, assigned [256]bool
	mark := func(s string) {
		for i := 0; i < len(s); i++ {
			seen[s[i]] = true
		}
	}

	mark(g.Axiom)
	for i, r := range g.Rules {
		switch {
		case r.Symbol == Push || r.Symbol == Pop:
			return errors.New(errors.ErrCodeInvalidInput, "rule %d: bracket %q cannot be a key", i, r.Symbol)
		case assigned[r.Symbol]:
			return errors.New(errors.ErrCodeInvalidInput, "rule %d: symbol %q assigned twice", i, r.Symbol)
		case !seen[r.Symbol]:
			return errors.New(errors.ErrCodeInvalidInput, "rule %d: symbol %q not observed before assignment", i, r.Symbol)
		case r.Body == "":
			return errors.New(errors.ErrCodeInvalidInput, "rule %d: empty body", i)
		}
		assigned[r.Symbol] = true
		mark(r.Body)
	}

	if !g.draws() {
		return errors.New(errors.ErrCodeInvalidInput, "grammar never moves the turtle forward")
	}
	return nil
}

func (g *Grammar) draws() bool {
	if strings.IndexByte(g.Axiom, Forward) >= 0 {
		return true
	}
	for _, r := range g.Rules {
		if strings.IndexByte(r.Body, Forward) >= 0 {
			return true
		}
	}
	return false
}

// String formats the grammar one production per line.
func (g *Grammar) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "axiom: %s\n", g.Axiom)
	fmt.Fprintf(&b, "angle: %.4f rad\n", g.Angle)
	for _, r := range g.Rules {
		fmt.Fprintf(&b, "%c -> %s\n", r.Symbol, r.Body)
	}
	return b.String()
}

package lsystem

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/lsaver/pkg/errors"
)

// bracketChance is the per-two-characters probability of inserting a bracket pair.
const bracketChance = 1.0 / float64(len(Alphabet)+1)

// Generator synthesizes random grammars. It is not safe for concurrent use:
// it consumes its random source sequentially.
type Generator struct {
	params   Params
	rng      *rand.Rand
	attempts int
}

// NewGenerator creates a generator drawing from rng.
// Params are assumed to have passed [Params.Validate].
func NewGenerator(p Params, rng *rand.Rand) *Generator {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	return &Generator{params: p, rng: rng}
}

// Attempts returns how many attempts the most recent Generate call used.
func (g *Generator) Attempts() int { return g.attempts }

// Generate builds a grammar, restarting with fresh randomness whenever the
// symbol pool runs dry before every rule body has a key. Restarts are routine;
// an error is only returned once Params.MaxAttempts is exhausted.
func (g *Generator) Generate() (*Grammar, error) {
	for g.attempts = 1; g.attempts <= g.params.MaxAttempts; g.attempts++ {
		angle := g.angle()
		bodies := g.ruleBodies(g.params.Rules.pick(g.rng))
		axiom := randomCommands(g.rng, g.params.AxiomLength.pick(g.rng))

		if rules, ok := assignSymbols(g.rng, axiom, bodies); ok {
			return &Grammar{Axiom: axiom, Rules: rules, Angle: angle}, nil
		}
	}
	g.attempts = g.params.MaxAttempts
	return nil, errors.New(errors.ErrCodeGenerationExhausted,
		"no consistent grammar after %d attempts", g.params.MaxAttempts)
}

func (g *Generator) angle() float64 {
	p := g.params
	if len(p.PresetAngles) == 0 || chance(g.rng, p.RandomAngleChance) {
		return p.AngleMin + g.rng.Float64()*(p.AngleMax-p.AngleMin)
	}
	return p.PresetAngles[g.rng.IntN(len(p.PresetAngles))]
}

// ruleBodies generates n bodies and, if none of them moves forward, splices a
// Forward into one so the grammar eventually draws something.
func (g *Generator) ruleBodies(n int) []string {
	bodies := make([]string, n)
	for i := range bodies {
		bodies[i] = randomCommands(g.rng, g.params.RuleLength.pick(g.rng))
	}
	if n == 0 || slices.ContainsFunc(bodies, func(b string) bool { return strings.IndexByte(b, Forward) >= 0 }) {
		return bodies
	}

	i := g.rng.IntN(n)
	at := g.rng.IntN(len(bodies[i]))
	bodies[i] = bodies[i][:at] + string(Forward) + bodies[i][at:]
	return bodies
}

// assignSymbols gives each body a key drawn from the symbols observed so far.
// It reports false when the pool empties with bodies still unassigned.
func assignSymbols(rng *rand.Rand, axiom string, bodies []string) ([]Rule, bool) {
	pool := newSymbolPool()
	pool.add(axiom)

	rules := make([]Rule, 0, len(bodies))
	for _, body := range bodies {
		key, ok := pool.pick(rng)
		if !ok {
			return nil, false
		}
		pool.ban(key)
		pool.add(body)
		rules = append(rules, Rule{Symbol: key, Body: body})
	}
	return rules, true
}

// randomCommands returns a command string of exactly n bytes (n >= 1): a core
// of random alphabet symbols with bracket pairs spliced in one pair at a time.
func randomCommands(rng *rand.Rand, n int) string {
	n = max(n, 1)
	for {
		pairs := 0
		for range n / 2 {
			if chance(rng, bracketChance) {
				pairs++
			}
		}

		s := make([]byte, n-2*pairs, n)
		if len(s) == 0 {
			continue
		}
		for i := range s {
			s[i] = Alphabet[rng.IntN(len(Alphabet))]
		}

		for range pairs {
			open := rng.IntN(len(s))
			closing := open + rng.IntN(len(s)-open)
			s = slices.Insert(s, open, Push)
			s = slices.Insert(s, closing+1, Pop)
		}
		return string(s)
	}
}

func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// symbolPool is the multiset of symbols available as production keys. A symbol
// occurring more often is proportionally more likely to be picked.
type symbolPool struct {
	banned [256]bool
	pool   []byte
}

func newSymbolPool() *symbolPool {
	p := &symbolPool{}
	p.banned[Push] = true
	p.banned[Pop] = true
	return p
}

func (p *symbolPool) add(s string) {
	for i := 0; i < len(s); i++ {
		if !p.banned[s[i]] {
			p.pool = append(p.pool, s[i])
		}
	}
}

func (p *symbolPool) ban(c byte) {
	p.pool = slices.DeleteFunc(p.pool, func(x byte) bool { return x == c })
	p.banned[c] = true
}

func (p *symbolPool) pick(rng *rand.Rand) (byte, bool) {
	if len(p.pool) == 0 {
		return 0, false
	}
	return p.pool[rng.IntN(len(p.pool))], true
}

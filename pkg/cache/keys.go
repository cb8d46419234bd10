package cache

import "fmt"

// Keyer derives cache keys.
type Keyer interface {
	// GrammarKey identifies the first grammar generated from seed under the
	// parameters hashed into paramsHash.
	GrammarKey(seed uint64, paramsHash string) string

	// ArtifactKey identifies one rendered output of a simulation run.
	ArtifactKey(runHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render settings that change artifact bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// RunKeyOpts are the inputs that fully determine a simulation run.
type RunKeyOpts struct {
	Seed       uint64  `json:"seed"`
	Duration   float64 `json:"duration"`
	TickRate   int     `json:"tick_rate"`
	ParamsHash string  `json:"params_hash"`
}

// RunHash returns the content hash of a simulation run.
func RunHash(opts RunKeyOpts) string {
	return hashKey("run", opts)[len("run:"):]
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) GrammarKey(seed uint64, paramsHash string) string {
	return fmt.Sprintf("grammar:%d:%s", seed, paramsHash)
}

func (DefaultKeyer) ArtifactKey(runHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", runHash, opts)
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/lsaver/pkg/buildinfo"
	"github.com/matzehuels/lsaver/pkg/cache"
	"github.com/matzehuels/lsaver/pkg/errors"
	"github.com/matzehuels/lsaver/pkg/lsystem"
	"github.com/matzehuels/lsaver/pkg/observability"
	"github.com/matzehuels/lsaver/pkg/pipeline"
)

// contentTypes maps output formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	seed, err := errors.ParseSeed(q.Get("seed"))
	if err != nil {
		writeError(w, err)
		return
	}

	duration := pipeline.DefaultDuration
	if raw := q.Get("duration"); raw != "" {
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "duration must be a number: %q", raw))
			return
		}
	}
	if err := errors.ValidateDuration(duration); err != nil {
		writeError(w, err)
		return
	}

	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}

	params := s.params
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Seed:       seed,
		Duration:   duration,
		Formats:    []string{format},
		Params:     &params,
		NoPreviews: q.Get("previews") == "false",
	})
	if err != nil {
		writeError(w, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-ID", result.RunID)
	w.Header().Set("X-Run-Hash", result.RunHash)
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// grammarResponse describes the first grammar a seed produces.
type grammarResponse struct {
	Seed           uint64           `json:"seed"`
	Grammar        *lsystem.Grammar `json:"grammar"`
	ExpandedLength int              `json:"expanded_length"`
	Cycles         int              `json:"cycles"`
	Stop           string           `json:"stop"`
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	seed, err := errors.ParseSeed(r.URL.Query().Get("seed"))
	if err != nil {
		writeError(w, err)
		return
	}

	key := s.runner.Keyer.GrammarKey(seed, s.params.Hash())
	if data, hit, err := s.runner.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "grammar")
		w.Header().Set("X-Cache", "hit")
		writeRaw(w, http.StatusOK, data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "grammar")

	sched, err := s.params.NewScheduler(seed)
	if err != nil {
		writeError(w, err)
		return
	}
	exp := sched.Expansion()
	data, err := json.Marshal(grammarResponse{
		Seed:           seed,
		Grammar:        sched.Grammar(),
		ExpandedLength: len(exp.String),
		Cycles:         exp.Cycles,
		Stop:           exp.Stop.String(),
	})
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode grammar"))
		return
	}

	if err := s.runner.Cache.Set(ctx, key, data, cache.TTLGrammar); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "grammar", len(data))
	}
	w.Header().Set("X-Cache", "miss")
	writeRaw(w, http.StatusOK, data)
}

package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/lsaver/pkg/config"
	"github.com/matzehuels/lsaver/pkg/pipeline"
)

func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return New(io.Discard, LogInfo)
}

func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"render", "grammar", "watch", "screen", "serve", "config", "cache", "completion"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, name := range want {
		if !slices.Contains(got, name) {
			t.Errorf("missing subcommand %q (have %v)", name, got)
		}
	}
}

func TestOutputBase(t *testing.T) {
	opts := pipeline.Options{Seed: 42}
	tests := []struct {
		output string
		want   string
	}{
		{"", "lsaver-42"},
		{"out/forest", "out/forest"},
		{"out/forest.svg", "out/forest"},
		{"forest.png", "forest"},
		{"forest.v2", "forest.v2"},
	}
	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			if got := outputBase(tt.output, opts); got != tt.want {
				t.Errorf("outputBase(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	t.Run("multiple formats use base", func(t *testing.T) {
		base := filepath.Join(dir, "nested", "run")
		paths, err := writeArtifacts(artifacts, base, "", []string{"svg", "json"})
		if err != nil {
			t.Fatal(err)
		}
		want := []string{base + ".json", base + ".svg"}
		if !slices.Equal(paths, want) {
			t.Errorf("paths = %v, want %v", paths, want)
		}
	})

	t.Run("single format keeps explicit path", func(t *testing.T) {
		out := filepath.Join(dir, "picture.svg")
		paths, err := writeArtifacts(artifacts, filepath.Join(dir, "picture"), out, []string{"svg"})
		if err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(out)
		if err != nil || string(data) != "<svg/>" {
			t.Errorf("read %s = %q, %v", out, data, err)
		}
		if len(paths) != 1 || paths[0] != out {
			t.Errorf("paths = %v", paths)
		}
	})
}

func TestRenderCommand(t *testing.T) {
	c := newTestCLI(t)
	base := filepath.Join(t.TempDir(), "run")

	if _, err := execute(t, c, "render", "--seed", "5", "--duration", "1", "-f", "svg,json", "-o", base); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".json"} {
		data, err := os.ReadFile(base + ext)
		if err != nil {
			t.Fatalf("missing %s output: %v", ext, err)
		}
		if len(data) == 0 {
			t.Errorf("%s output is empty", ext)
		}
	}
}

func TestRenderCommandRejectsBadFormat(t *testing.T) {
	c := newTestCLI(t)
	if _, err := execute(t, c, "render", "--seed", "1", "-f", "gif"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigCommands(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "lsaver.toml")

	if _, err := execute(t, c, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	// A second init leaves the file alone without failing.
	if _, err := execute(t, c, "--config", path, "config", "init"); err != nil {
		t.Fatalf("second config init: %v", err)
	}

	out, err := execute(t, c, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, section := range []string{"[grammar]", "[turtle]", "[animation]", "[viewport]"} {
		if !strings.Contains(out, section) {
			t.Errorf("config show missing %s:\n%s", section, out)
		}
	}

	out, err = execute(t, c, "--config", path, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(out) != path {
		t.Errorf("config path = %q, want %q", out, path)
	}
}

func TestConfigShowAppliesEnv(t *testing.T) {
	c := newTestCLI(t)
	t.Setenv("LSAVER_TURTLE_DISTANCE", "12.5")

	out, err := execute(t, c, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "distance = 12.5") {
		t.Errorf("env override not applied:\n%s", out)
	}
}

func TestRunStatsLine(t *testing.T) {
	tests := []struct {
		name   string
		stats  pipeline.Stats
		cached bool
		want   []string
	}{
		{"fresh", pipeline.Stats{Ticks: 60, Segments: 12, Generations: 1}, false, []string{"60 ticks", "12 segments", "1 grammars"}},
		{"cached", pipeline.Stats{}, true, []string{"stats unavailable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := runStatsLine(tt.stats, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Errorf("runStatsLine() = %q, missing %q", line, w)
				}
			}
		})
	}
}

func TestCachePath(t *testing.T) {
	c := newTestCLI(t)
	out, err := execute(t, c, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), appName) {
		t.Errorf("cache path = %q, want suffix %q", out, appName)
	}
}

func TestCollectGenerations(t *testing.T) {
	sched, err := config.Default().NewScheduler(9)
	if err != nil {
		t.Fatal(err)
	}
	gens, err := collectGenerations(context.Background(), sched, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(gens) != 3 {
		t.Fatalf("got %d generations, want 3", len(gens))
	}
	for i, g := range gens {
		if g.Index != i+1 {
			t.Errorf("generation %d has index %d", i, g.Index)
		}
		if g.Grammar == nil || g.Length != len(g.Expansion.String) {
			t.Errorf("generation %d incomplete: %+v", i, g)
		}
	}
}

func TestWatchModel(t *testing.T) {
	m, err := newWatchModel(context.Background(), config.Default(), 4, 30, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}

	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	if m.canvas.cols != 40 || m.canvas.rows != 12-statusLines {
		t.Errorf("canvas = %dx%d after resize", m.canvas.cols, m.canvas.rows)
	}

	m.Update(tickMsg{})
	drawn := false
	for _, c := range m.canvas.cells {
		drawn = drawn || c.intensity > 0
	}
	if !drawn {
		t.Error("first tick drew nothing")
	}
	if !strings.Contains(m.View(), "seed 4") || !strings.Contains(m.View(), " left") {
		t.Errorf("view missing seed:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.paused {
		t.Error("space should pause")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	if m.seed != 5 || m.sched.Generation() != 1 {
		t.Errorf("next seed: seed=%d generation=%d", m.seed, m.sched.Generation())
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd == nil {
		t.Error("q should return a quit command")
	}
}

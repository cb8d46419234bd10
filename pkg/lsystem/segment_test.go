package lsystem

import (
	"reflect"
	"strings"
	"testing"
)

func collect(seg *Segmenter) [][]string {
	var out [][]string
	for batch, ok := seg.Next(); ok; batch, ok = seg.Next() {
		var cmds []string
		for _, c := range batch {
			cmds = append(cmds, c.Commands)
		}
		out = append(out, cmds)
	}
	return out
}

func TestSegmenter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{"empty", "", nil},
		{"single forward", "F", [][]string{{"F"}}},
		{"no forward", "+A-", [][]string{{"+A-"}}},
		{"trailing tail", "+F-A", [][]string{{"+F", "-A"}}},
		{
			name: "two batches",
			in:   "FFFFFFF",
			want: [][]string{{"F", "F", "F", "F", "F"}, {"F", "F"}},
		},
		{
			name: "branches",
			in:   "[+F]F[-F]FF+FA",
			want: [][]string{{"[+F", "]F", "[-F", "]F", "F"}, {"+F", "A"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(NewSegmenter(tt.in, 0.5))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("batches = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegmenterStaysExhausted(t *testing.T) {
	seg := NewSegmenter("FF", 1)
	if seg.Exhausted() {
		t.Fatal("fresh segmenter should not be exhausted")
	}
	if _, ok := seg.Next(); !ok {
		t.Fatal("first Next() should yield a batch")
	}
	if !seg.Exhausted() || seg.Remaining() != 0 {
		t.Fatalf("Exhausted() = %v, Remaining() = %d after consuming everything", seg.Exhausted(), seg.Remaining())
	}
	for range 3 {
		if batch, ok := seg.Next(); ok || batch != nil {
			t.Fatalf("Next() after exhaustion = %v, %v", batch, ok)
		}
	}
}

func TestSegmenterReconstructsExpansion(t *testing.T) {
	p := DefaultParams()
	for seed := uint64(0); seed < 100; seed++ {
		g, err := NewGenerator(p, NewRand(seed)).Generate()
		if err != nil {
			t.Fatal(err)
		}
		exp := Rewrite(g, p.MaxLength)
		seg := NewSegmenter(exp.String, g.Angle)

		var b strings.Builder
		var chunks []Chunk
		for batch, ok := seg.Next(); ok; batch, ok = seg.Next() {
			forwards := 0
			for _, c := range batch {
				if c.Angle != g.Angle {
					t.Fatalf("seed %d: chunk angle %g, want %g", seed, c.Angle, g.Angle)
				}
				forwards += strings.Count(c.Commands, string(Forward))
				b.WriteString(c.Commands)
			}
			if forwards > ForwardsPerBatch {
				t.Fatalf("seed %d: batch with %d forwards", seed, forwards)
			}
			chunks = append(chunks, batch...)
		}

		if b.String() != exp.String {
			t.Fatalf("seed %d: concatenated chunks differ from expansion", seed)
		}
		for i, c := range chunks[:len(chunks)-1] {
			if !strings.HasSuffix(c.Commands, string(Forward)) {
				t.Fatalf("seed %d: chunk %d %q does not end on a forward", seed, i, c.Commands)
			}
			if strings.Count(c.Commands, string(Forward)) != 1 {
				t.Fatalf("seed %d: chunk %d %q spans several forwards", seed, i, c.Commands)
			}
		}
	}
}

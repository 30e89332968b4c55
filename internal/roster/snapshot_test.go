// internal/roster/snapshot_test.go
package roster

import (
	"context"
	"reflect"
	"testing"

	"github.com/user/meetscribe/internal/selector"
)

type fakePanel struct {
	panelOpens bool
	texts      []string
	textsOK    bool

	clicks     []string
	textProbes []string
}

func (f *fakePanel) ClickFirst(_ context.Context, chain selector.Chain) (selector.Candidate, bool) {
	f.clicks = append(f.clicks, chain.Action)
	if f.panelOpens {
		return chain.Candidates[0], true
	}
	return selector.Candidate{}, false
}

func (f *fakePanel) Texts(_ context.Context, chain selector.Chain) ([]string, bool) {
	f.textProbes = append(f.textProbes, chain.Action)
	return f.texts, f.textsOK
}

func testChains() (open, names selector.Chain) {
	open = selector.Chain{
		Action:     "open participants panel",
		Candidates: []selector.Candidate{{Desc: "people button", By: selector.ByCSS, Query: `[aria-label="People"]`}},
	}
	names = selector.Chain{
		Action:     "participant names",
		Candidates: []selector.Candidate{{Desc: "name span", By: selector.ByCSS, Query: `span.name`}},
	}
	return open, names
}

func newTestSnapshot(p Panel) *Snapshot {
	open, names := testChains()
	s := New(p, open, names)
	s.settle = 0
	return s
}

func TestCapture(t *testing.T) {
	p := &fakePanel{panelOpens: true, texts: []string{" Alice ", "Bob", "Alice"}, textsOK: true}
	got := newTestSnapshot(p).Capture(context.Background())

	want := []string{"Alice", "Bob"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCapture_PanelMissingIsEmptyNotError(t *testing.T) {
	p := &fakePanel{panelOpens: false}
	got := newTestSnapshot(p).Capture(context.Background())

	if got == nil || len(got) != 0 {
		t.Errorf("expected empty (non-nil) roster, got %v", got)
	}
	if len(p.textProbes) != 0 {
		t.Error("name strategies must not be probed when the panel is closed")
	}
}

func TestCapture_NoStrategyMatchesIsEmpty(t *testing.T) {
	p := &fakePanel{panelOpens: true, textsOK: false}
	got := newTestSnapshot(p).Capture(context.Background())
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty roster, got %v", got)
	}
}

func TestDedupe(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"duplicates removed", []string{"Alice", "Bob", "Alice"}, []string{"Alice", "Bob"}},
		{"trim then match", []string{" Alice", "Alice ", "Alice"}, []string{"Alice"}},
		{"blank entries dropped", []string{"", "  ", "Alice"}, []string{"Alice"}},
		{"discovery order kept", []string{"Zoe", "Alice", "Zoe", "Bob"}, []string{"Zoe", "Alice", "Bob"}},
		{"no alias merging", []string{"Alice S.", "Alice Smith"}, []string{"Alice S.", "Alice Smith"}},
		{"empty input", nil, []string{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Dedupe(c.in)
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestDedupe_NeverEmitsDuplicates(t *testing.T) {
	got := Dedupe([]string{"a", " a", "a ", "b", "b", " b ", "c"})
	seen := make(map[string]bool)
	for _, n := range got {
		if seen[n] {
			t.Fatalf("duplicate %q in output %v", n, got)
		}
		seen[n] = true
	}
}

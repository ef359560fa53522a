package pipeline

import (
	"reflect"
	"testing"
)

func TestPairGrouper_Group(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a b c d e", []string{"a b", "c d", "e"}},
		{"a b c d", []string{"a b", "c d"}},
		{"single", []string{"single"}},
		{"  spaced   out\twords ", []string{"spaced out", "words"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := PairGrouper{}.Group(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("PairGrouper.Group(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSmartGrouper_Group(t *testing.T) {
	g := NewSmartGrouper()
	tests := []struct {
		in   string
		want []string
	}{
		{"I am so very happy today", []string{"I am", "so", "very", "happy", "today"}},
		{"to be or not to be", []string{"to be", "or not", "to be"}},
		{"a b c", []string{"a b", "c"}},
		{"extraordinary is it", []string{"extraordinary", "is it"}},
		{"the elephant and a cat", []string{"the", "elephant", "and a", "cat"}},
		{"one", []string{"one"}},
		{"doubled  space", []string{"doubled", "space"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := g.Group(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SmartGrouper.Group(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSmartGrouper_CountsRunes(t *testing.T) {
	got := NewSmartGrouper().Group("été déjà")
	want := []string{"été", "déjà"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Group = %q, want %q", got, want)
	}
	got = NewSmartGrouper().Group("été ça")
	want = []string{"été ça"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Group = %q, want %q", got, want)
	}
}

func TestGroupers_ReconstructText(t *testing.T) {
	text := "we were at the top of a very tall hill and it was so cold"
	for _, g := range []Grouper{PairGrouper{}, NewSmartGrouper()} {
		chunks := g.Group(text)
		joined := ""
		for i, c := range chunks {
			if c == "" {
				t.Fatalf("%T produced an empty chunk", g)
			}
			if i > 0 {
				joined += " "
			}
			joined += c
		}
		if joined != text {
			t.Errorf("%T chunks joined = %q, want %q", g, joined, text)
		}
	}
}

func TestGrouperFor(t *testing.T) {
	if g, err := GrouperFor("pair"); err != nil || reflect.TypeOf(g) != reflect.TypeOf(PairGrouper{}) {
		t.Errorf("GrouperFor(pair) = %T, %v", g, err)
	}
	if g, err := GrouperFor(""); err != nil || reflect.TypeOf(g) != reflect.TypeOf(PairGrouper{}) {
		t.Errorf("GrouperFor(\"\") = %T, %v", g, err)
	}
	if g, err := GrouperFor("Smart"); err != nil || reflect.TypeOf(g) != reflect.TypeOf(SmartGrouper{}) {
		t.Errorf("GrouperFor(Smart) = %T, %v", g, err)
	}
	if _, err := GrouperFor("triples"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

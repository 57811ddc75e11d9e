package loc

import "testing"

func TestAddAndLoc(t *testing.T) {
	var fs Files
	fs.Add("a.vlm", "one\ntwo\nthree")
	if got, want := fs.Len(), len("one\ntwo\nthree"); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	l := fs.Loc(Range{4, 7})
	if l == nil {
		t.Fatal("expected a resolvable Loc")
	}
	if l.Path != "a.vlm" {
		t.Fatalf("Path = %q, want a.vlm", l.Path)
	}
	if l.Line[0] != 2 {
		t.Fatalf("Line[0] = %d, want 2", l.Line[0])
	}
}

func TestLocOutOfRange(t *testing.T) {
	var fs Files
	fs.Add("a.vlm", "abc")
	if l := fs.Loc(Range{0, 100}); l != nil {
		t.Fatal("expected an out-of-range range to resolve to nil")
	}
}

func TestLocStringSinglePoint(t *testing.T) {
	l := Loc{Path: "a.vlm", Line: [2]int{3, 3}, Col: [2]int{5, 5}}
	if got, want := l.String(), "a.vlm:3.5"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestLocStringSpan(t *testing.T) {
	l := Loc{Path: "a.vlm", Line: [2]int{3, 4}, Col: [2]int{5, 1}}
	if got, want := l.String(), "a.vlm:3.5-4.1"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestAddMultipleFilesOffsets(t *testing.T) {
	var fs Files
	fs.Add("a.vlm", "abc")
	fs.Add("b.vlm", "xyz")
	if got, want := fs.Len(), 6; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	l := fs.Loc(Range{3, 4})
	if l == nil || l.Path != "b.vlm" {
		t.Fatalf("expected the second range to resolve into b.vlm, got %#v", l)
	}
}

package sandboxclient

import "testing"

func TestDiffStrictRequiresExactMatch(t *testing.T) {
	c := New("http://unused")
	if !c.DiffStrict([]byte("abc\n"), []byte("abc\n")) {
		t.Error("expected identical buffers to match")
	}
	if c.DiffStrict([]byte("abc \n"), []byte("abc\n")) {
		t.Error("expected trailing space to break a strict match")
	}
}

func TestDiffIgnoreTrailingSpaceTolerantOfWhitespace(t *testing.T) {
	c := New("http://unused")
	a := []byte("1 2 3  \n4 5 6\n\n")
	b := []byte("1 2 3\n4 5 6")
	if !c.DiffIgnoreTrailingSpace(a, b) {
		t.Error("expected trailing whitespace and blank lines to be ignored")
	}
}

func TestDiffIgnoreTrailingSpaceDetectsRealDifference(t *testing.T) {
	c := New("http://unused")
	if c.DiffIgnoreTrailingSpace([]byte("1 2 3\n"), []byte("1 2 4\n")) {
		t.Error("expected a genuine content difference to be detected")
	}
}

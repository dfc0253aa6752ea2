package occurrence

import "testing"

func TestNot(t *testing.T) {
	if o := New(12, false).Not(); o != New(12, true) {
		t.Fatalf("Not() failed, got: %d", o.Index())
	}
}

func TestSign(t *testing.T) {
	if o := New(12, true); o.Sign() != true {
		t.Fatalf("Sign() failed, got: %v", o.Sign())
	}
	if o := New(12, false); o.Sign() != false {
		t.Fatalf("Sign() failed, got: %v", o.Sign())
	}
}

func TestIndex(t *testing.T) {
	if o := New(23, false); o.Index() != 23 {
		t.Fatalf("Index() failed: %d", o.Index())
	}
	if o := New(23, true); o.Index() != 23 {
		t.Fatalf("Index() failed: %d", o.Index())
	}
}

func TestPos(t *testing.T) {
	o := New(4, true)
	if p := o.Pos(); p != New(4, false) {
		t.Fatalf("Pos() failed, got: %d", p)
	}
}

func TestReserved(t *testing.T) {
	if TrueOccurrence.Not() != FalseOccurrence {
		t.Fatalf("expected TrueOccurrence.Not() == FalseOccurrence")
	}
}

package bitutil

import "testing"

func TestBitMatrixGetSet(t *testing.T) {
	bm := NewBitMatrix(10)
	bm.Set(3, 5, true, false)
	if !bm.Get(3, 5) {
		t.Error("module (3,5) should be dark")
	}
	if bm.Get(5, 3) {
		t.Error("module (5,3) should be light")
	}
	if bm.IsReserved(3, 5) {
		t.Error("module (3,5) should not be reserved")
	}
}

func TestBitMatrixReservedIsSticky(t *testing.T) {
	bm := NewBitMatrix(4)
	bm.Set(1, 1, true, true)
	bm.Set(1, 1, false, false)
	if !bm.Get(1, 1) {
		t.Error("unreserved write changed a reserved module")
	}
	bm.Xor(1, 1, true)
	if !bm.Get(1, 1) {
		t.Error("xor changed a reserved module")
	}
	bm.Set(1, 1, false, true)
	if bm.Get(1, 1) {
		t.Error("reserved write should update the module")
	}
	if !bm.IsReserved(1, 1) {
		t.Error("reserved flag was cleared")
	}
}

func TestBitMatrixXor(t *testing.T) {
	bm := NewBitMatrix(4)
	bm.Xor(2, 3, true)
	if !bm.Get(2, 3) {
		t.Error("module should be dark after xor")
	}
	bm.Xor(2, 3, false)
	if !bm.Get(2, 3) {
		t.Error("xor with false should not change the module")
	}
	bm.Xor(2, 3, true)
	if bm.Get(2, 3) {
		t.Error("module should be light after double xor")
	}
}

func TestBitMatrixParseAndString(t *testing.T) {
	repr := "X . X \n. X . \nX . X \n"
	bm := ParseStringMatrix(repr, "X ", ". ")
	if bm.Size() != 3 {
		t.Fatalf("size = %d, want 3", bm.Size())
	}
	if bm.DarkCount() != 5 {
		t.Errorf("DarkCount = %d, want 5", bm.DarkCount())
	}
	if got := bm.StringWithChars("X", "."); got != "X.X\n.X.\nX.X\n" {
		t.Errorf("StringWithChars = %q", got)
	}
}

func TestBitMatrixCloneEquals(t *testing.T) {
	bm := NewBitMatrix(5)
	bm.Set(0, 0, true, true)
	bm.Set(4, 2, true, false)
	clone := bm.Clone()
	if !bm.Equals(clone) {
		t.Error("clone should equal original")
	}
	if !clone.IsReserved(0, 0) {
		t.Error("clone lost reserved flag")
	}
	clone.Xor(3, 3, true)
	if bm.Equals(clone) {
		t.Error("modifying clone should not affect original")
	}
}

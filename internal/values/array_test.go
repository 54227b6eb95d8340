package values

import "testing"

func TestArraySetGrowsAndLeavesHoles(t *testing.T) {
	a := NewArray(Number(1), Number(2))
	if !a.Set(4, Number(5)) {
		t.Fatal("Set beyond length should succeed")
	}
	if a.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", a.Len())
	}
	if v, ok := a.Get(2); ok || v != (Undefined{}) {
		t.Errorf("Get(2) (hole) = %v, %v; want Undefined, false", v, ok)
	}
	if a.Has(2) {
		t.Error("Has(2) should be false for a hole")
	}
	if v, ok := a.Get(4); !ok || v != Number(5) {
		t.Errorf("Get(4) = %v, %v; want 5, true", v, ok)
	}
}

func TestArrayDeleteLeavesHoleWithoutShrinking(t *testing.T) {
	a := NewArray(Number(1), Number(2), Number(3))
	if !a.Delete(1) {
		t.Fatal("Delete should succeed")
	}
	if a.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (delete must not shrink)", a.Len())
	}
	if a.Has(1) {
		t.Error("Has(1) should be false after Delete")
	}
}

func TestArrayPushPop(t *testing.T) {
	a := NewArray()
	if n := a.Push(Number(1)); n != 1 {
		t.Errorf("Push returned %d, want 1", n)
	}
	a.Push(Number(2))
	v, ok := a.Pop()
	if !ok || v != Number(2) {
		t.Errorf("Pop() = %v, %v; want 2, true", v, ok)
	}
	if a.Len() != 1 {
		t.Errorf("Len() after Pop = %d, want 1", a.Len())
	}
	if _, ok := NewArray().Pop(); ok {
		t.Error("Pop on empty array should return ok=false")
	}
}

func TestArraySetLength(t *testing.T) {
	a := NewArray(Number(1), Number(2), Number(3))
	a.SetLength(1)
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	a.SetLength(3)
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if a.Has(1) || a.Has(2) {
		t.Error("elements grown by SetLength should be holes")
	}
}

func TestArrayFrozenRejectsMutation(t *testing.T) {
	a := NewArray(Number(1))
	a.Freeze()
	if !a.Frozen() {
		t.Fatal("Frozen() should report true after Freeze")
	}
	if a.Set(0, Number(2)) {
		t.Error("Set should fail on a frozen array")
	}
	if a.Delete(0) {
		t.Error("Delete should fail on a frozen array")
	}
	if a.SetLength(5) {
		t.Error("SetLength should fail on a frozen array")
	}
}

func TestArrayValuesRendersHolesAsUndefined(t *testing.T) {
	a := NewArrayOfLength(3)
	a.Set(1, String("mid"))
	vals := a.Values()
	if vals[0] != (Undefined{}) || vals[2] != (Undefined{}) {
		t.Errorf("hole values should render as Undefined, got %v", vals)
	}
	if vals[1] != String("mid") {
		t.Errorf("vals[1] = %v, want \"mid\"", vals[1])
	}
}

func TestArrayRawCompanion(t *testing.T) {
	a := NewArray(String("cooked"))
	if a.Raw() != nil {
		t.Fatal("Raw() should start nil")
	}
	raw := NewArray(String("raw"))
	a.SetRaw(raw)
	if a.Raw() != raw {
		t.Error("Raw() should return the array set by SetRaw")
	}
}

package dynamo

import "testing"

func TestVars_InsertionOrder(t *testing.T) {
	v := NewVars()
	v.Set("c", 3)
	v.Set("a", 1)
	v.Set("b", 2)
	v.Set("a", 10)

	keys := v.Keys()
	want := []string{"c", "a", "b"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], k)
		}
	}
	if v.Get("a") != 10 {
		t.Errorf("overwrite lost: a = %f", v.Get("a"))
	}
}

func TestVars_MissingIsZero(t *testing.T) {
	v := NewVars()
	if v.Get("nothing") != 0 {
		t.Error("missing name should read as zero")
	}
	if v.Has("nothing") {
		t.Error("missing name should not be present")
	}
}

func TestVars_Add(t *testing.T) {
	v := NewVars()
	v.Add("x", 1.5)
	v.Add("x", 2.5)
	if v.Get("x") != 4 {
		t.Errorf("x = %f, want 4", v.Get("x"))
	}
	if len(v.Keys()) != 1 {
		t.Errorf("expected 1 key, got %d", len(v.Keys()))
	}
}

func TestVars_Total(t *testing.T) {
	v := NewVars()
	v.Set("a", 1)
	v.Set("b", 2)
	v.Set("c", 3.5)
	if v.Total() != 6.5 {
		t.Errorf("total = %f, want 6.5", v.Total())
	}
}

func TestVars_Clear(t *testing.T) {
	v := NewVars()
	v.Set("a", 1)
	v.Clear()
	if v.Len() != 0 {
		t.Errorf("expected empty store, got %d keys", v.Len())
	}
	v.Set("b", 2)
	if v.Keys()[0] != "b" {
		t.Error("order should restart after clear")
	}
}

func TestVars_Clone(t *testing.T) {
	v := NewVars()
	v.Set("a", 1)
	v.Set("b", 2)

	c := v.Clone()
	c.Set("a", 100)

	if v.Get("a") != 1 {
		t.Error("clone should not share storage")
	}
	if c.Get("b") != 2 {
		t.Error("clone should carry values")
	}
}

package pegparser

import "testing"

func keys(m *SliceMap) []string {
	var out []string
	for _, item := range m.Items() {
		out = append(out, item.Key())
	}
	return out
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSliceMapKeepsInsertionOrder(t *testing.T) {
	m := NewSliceMap()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("c", 3)
	m.Set("a", 4)

	if got := keys(m); !equalKeys(got, []string{"b", "a", "c"}) {
		t.Fatalf("keys = %v", got)
	}
	if v, _ := m.Get("a"); v != 4 {
		t.Errorf("a = %v, want 4", v)
	}
	if v, _ := m.GetAt(1); v != 4 {
		t.Errorf("GetAt(1) = %v, want 4", v)
	}
}

func TestSliceMapDeleteReindexes(t *testing.T) {
	m := NewSliceMap()
	for i, k := range []string{"a", "b", "c", "d"} {
		m.Set(k, i)
	}
	m.Delete("b")
	m.Set("c", 30)
	m.Delete("a")

	if got := keys(m); !equalKeys(got, []string{"c", "d"}) {
		t.Fatalf("keys = %v", got)
	}
	if v, _ := m.GetAt(0); v != 30 {
		t.Errorf("GetAt(0) = %v, want 30", v)
	}
	if m.Has("a") || m.Size() != 2 {
		t.Errorf("Has(a) = %v, Size = %d", m.Has("a"), m.Size())
	}
	if _, ok := m.GetAt(5); ok {
		t.Error("GetAt out of range reported ok")
	}
}

func TestSliceMapInsertAt(t *testing.T) {
	m := NewSliceMap()
	m.Set("a", 1)
	m.Set("c", 3)
	m.InsertAt(1, "b", 2)
	m.InsertAt(99, "d", 4)
	m.InsertAt(-1, "_", 0)

	if got := keys(m); !equalKeys(got, []string{"_", "a", "b", "c", "d"}) {
		t.Fatalf("keys = %v", got)
	}
	m.Delete("a")
	m.Set("d", 40)
	if v, _ := m.GetAt(3); v != 40 {
		t.Errorf("GetAt(3) = %v, want 40", v)
	}
}

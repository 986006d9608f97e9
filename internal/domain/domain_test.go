package domain

import "testing"

func TestIdentityMapAppendOnly(t *testing.T) {
	m := NewIdentityMap("customer")
	if err := m.Add("C1", 101); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add("C2", 102); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add("C1", 999); err == nil {
		t.Fatal("remapping C1 should fail")
	}
	if id, ok := m.Lookup("C1"); !ok || id != 101 {
		t.Fatalf("Lookup(C1) = %d,%v", id, ok)
	}
	if _, ok := m.Lookup("C9"); ok {
		t.Fatal("Lookup(C9) should miss")
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
}

func TestRound2(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{3 * 33.335, 100.01},
		{2 * 499.50, 999.00},
		{0.005, 0.01},
		{10, 10},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

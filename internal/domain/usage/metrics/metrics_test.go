package metrics

import "testing"

func TestNew(t *testing.T) {
	m := New(7)
	if m.Searches() != 7 {
		t.Errorf("Searches() = %d", m.Searches())
	}
}

func TestNew_Zero(t *testing.T) {
	var m Metrics
	if m.Searches() != 0 {
		t.Error("zero metrics should have zero values")
	}
}

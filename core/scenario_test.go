package core

import (
	"strings"
	"testing"
)

func TestLoadScenario(t *testing.T) {
	const doc = `{
	  "units": [
	    {"position": [1, 5, 0]},
	    {"position": [1, 8, 0], "velocity": [0.001, 0, 0], "destination": [7, 2, 0]}
	  ]
	}`
	s, err := LoadScenario(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if len(s.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(s.Units))
	}
	if got := s.Units[0].PositionVec(); got != (Vec3{X: 1, Y: 5}) {
		t.Fatalf("unit 0 position = %v", got)
	}
	if _, ok := s.Units[0].DestinationVec(); ok {
		t.Fatalf("unit 0 has a destination, want none")
	}
	if got := s.Units[1].VelocityVec(); got != (Vec3{X: 0.001}) {
		t.Fatalf("unit 1 velocity = %v", got)
	}
	dest, ok := s.Units[1].DestinationVec()
	if !ok || dest != (Vec3{X: 7, Y: 2}) {
		t.Fatalf("unit 1 destination = %v ok=%v, want {7 2 0}", dest, ok)
	}
}

func TestLoadScenarioRejectsMalformedJSON(t *testing.T) {
	if _, err := LoadScenario(strings.NewReader(`{"units": [`)); err == nil {
		t.Fatalf("malformed JSON accepted")
	}
}

func TestLoadScenarioRejectsEmptyUnits(t *testing.T) {
	if _, err := LoadScenario(strings.NewReader(`{"units": []}`)); err == nil {
		t.Fatalf("empty scenario accepted")
	}
}

func TestDefaultScenarioUnitsAreMutuallyVisible(t *testing.T) {
	s := DefaultScenario()
	if len(s.Units) != 2 {
		t.Fatalf("units = %d, want 2", len(s.Units))
	}
	a, b := s.Units[0].PositionVec(), s.Units[1].PositionVec()
	if !VisibleOverHorizon(a, b) || !VisibleOverHorizon(b, a) {
		t.Fatalf("default units at %v and %v are not mutually visible", a, b)
	}
}

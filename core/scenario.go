package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// Scenario lists the units placed on the board before the first tick.
type Scenario struct {
	Units []ScenarioUnit `json:"units"`
}

// ScenarioUnit is one carrier to add, with an optional standing order.
type ScenarioUnit struct {
	Position    [3]float64  `json:"position"`
	Velocity    [3]float64  `json:"velocity"`
	Destination *[3]float64 `json:"destination,omitempty"`
}

// PositionVec returns the unit's starting position.
func (u ScenarioUnit) PositionVec() Vec3 {
	return Vec3{X: u.Position[0], Y: u.Position[1], Z: u.Position[2]}
}

// VelocityVec returns the unit's starting velocity.
func (u ScenarioUnit) VelocityVec() Vec3 {
	return Vec3{X: u.Velocity[0], Y: u.Velocity[1], Z: u.Velocity[2]}
}

// DestinationVec returns the unit's standing order, if any.
func (u ScenarioUnit) DestinationVec() (Vec3, bool) {
	if u.Destination == nil {
		return Vec3{}, false
	}
	d := *u.Destination
	return Vec3{X: d[0], Y: d[1], Z: d[2]}, true
}

// LoadScenario reads a JSON scenario from r. It fails on JSON and
// structural errors; board-level validation (bounds, occupancy) happens
// when the units are applied through the command path.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("load scenario: decode failed: %w", err)
	}
	if len(s.Units) == 0 {
		return nil, fmt.Errorf("load scenario: no units")
	}
	return &s, nil
}

// DefaultScenario returns the bootstrap board: two stationary carriers
// in sight of each other across the equatorial row.
func DefaultScenario() *Scenario {
	return &Scenario{
		Units: []ScenarioUnit{
			{Position: [3]float64{1, 5, 0}},
			{Position: [3]float64{8, 5, 0}},
		},
	}
}

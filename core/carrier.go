package core

import "fmt"

// Carrier motion defaults, in board units per tick.
const (
	defaultCarrierAcceleration = 0.0001
	defaultCarrierTopSpeed     = 0.001
)

// Carrier is a mobile surface unit. It follows move orders under a
// two-regime velocity law and carries exactly one Sensor whose position
// and velocity mirror its own.
type Carrier struct {
	unit
	velocity     Vec3
	acceleration float64
	topSpeed     float64
	sensor       *Sensor
}

// NewCarrier constructs a carrier and its attached sensor.
func NewCarrier(id int, position, velocity Vec3) *Carrier {
	return &Carrier{
		unit:         unit{id: id, position: position},
		velocity:     velocity,
		acceleration: defaultCarrierAcceleration,
		topSpeed:     defaultCarrierTopSpeed,
		sensor:       NewSensor(id, position, velocity),
	}
}

// Velocity returns the carrier's current velocity.
func (c *Carrier) Velocity() Vec3 {
	return c.velocity
}

// TopSpeed returns the clamp applied in the saturated regime.
func (c *Carrier) TopSpeed() float64 {
	return c.topSpeed
}

// Sensor returns the attached sensor.
func (c *Carrier) Sensor() *Sensor {
	return c.sensor
}

// Update advances the carrier one tick: steer toward any standing
// order, integrate position by explicit Euler on a unit timestep,
// mirror the sensor, run the sensor's own update, then publish the
// occupancy move under the world guard.
//
// Steering regimes: below top speed the carrier accelerates along the
// L1-normalized direction to the destination; at or above it the
// velocity is hard-clamped to top speed along that direction. There is
// no arrival detection, so a carrier sitting on its destination keeps
// holding top speed.
func (c *Carrier) Update(w *World) error {
	oldCell := CellOf(c.position)

	if c.hasDestination {
		direction := c.destination.Sub(c.position)
		if sum := direction.L1Norm(); sum > 0 {
			direction = direction.Scale(1 / sum)
			if c.velocity.Norm() < c.topSpeed {
				c.velocity = c.velocity.Add(direction.Scale(c.acceleration))
			} else {
				c.velocity = direction.Scale(c.topSpeed)
			}
		}
	}
	c.position = c.position.Add(c.velocity)

	c.sensor.mirror(c.position, c.velocity)
	if err := c.sensor.Update(w); err != nil {
		return fmt.Errorf("carrier %d sensor update: %w", c.id, err)
	}

	if err := w.moveOccupant(c.id, oldCell, CellOf(c.position)); err != nil {
		return fmt.Errorf("carrier %d: %w", c.id, err)
	}
	return nil
}

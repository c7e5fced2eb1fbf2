package core

// defaultSensorLaunches is the launch budget a sensor starts with.
const defaultSensorLaunches = 1

// Sensor detects other units over the planet's horizon and launches
// projectiles at them. It shares its carrier's id and never appears in
// the world arena or the occupancy grid.
type Sensor struct {
	unit
	velocity          Vec3
	visible           []Entity
	remainingLaunches int
	projectiles       []*Projectile
}

// NewSensor constructs a sensor at the carrier's position.
func NewSensor(id int, position, velocity Vec3) *Sensor {
	return &Sensor{
		unit:              unit{id: id, position: position},
		velocity:          velocity,
		remainingLaunches: defaultSensorLaunches,
	}
}

// mirror copies the carrier's position and velocity onto the sensor.
func (s *Sensor) mirror(position, velocity Vec3) {
	s.position = position
	s.velocity = velocity
}

// RemainingLaunches returns the launch counter. It only ever decreases
// and may run negative; see Update.
func (s *Sensor) RemainingLaunches() int {
	return s.remainingLaunches
}

// VisibleEntities returns the targets seen on the most recent tick. The
// list is rebuilt from scratch every update and is not meaningful
// between ticks.
func (s *Sensor) VisibleEntities() []Entity {
	return s.visible
}

// Projectiles returns every projectile launched so far, in launch
// order. Projectiles are never removed.
func (s *Sensor) Projectiles() []*Projectile {
	return s.projectiles
}

// Update rebuilds the visible set against every other live entity,
// engages each visible target, then steps all launched projectiles.
//
// Engagement burns one unit of the launch counter per considered
// target whether or not a projectile was actually created; only a
// counter that was still positive at the moment of consideration
// produces a launch. Projectiles are fire-and-forget: the destination
// is the target's position at launch time and is never retargeted.
func (s *Sensor) Update(w *World) error {
	s.visible = nil
	for _, other := range w.LiveEntities() {
		if other.ID() == s.id {
			continue
		}
		if VisibleOverHorizon(s.position, other.Position()) {
			s.visible = append(s.visible, other)
		}
	}

	for _, target := range s.visible {
		if s.remainingLaunches > 0 {
			p := NewProjectile(s.id, s.position, s.velocity)
			p.MoveOrder(target.Position())
			s.projectiles = append(s.projectiles, p)
			w.notifyLaunch(LaunchEvent{SensorID: s.id, Target: target.Position()})
		}
		s.remainingLaunches--
	}

	for _, p := range s.projectiles {
		if err := p.Update(w); err != nil {
			return err
		}
	}
	return nil
}

package core

import (
	"fmt"
	"math"
)

// Projectile ballistics defaults.
const (
	defaultProjectileMass            = 1.0
	defaultProjectileDryMass         = 0.1
	defaultProjectileExhaustVelocity = 1.0
	defaultProjectileMassFlowRate    = 0.001
)

// FuelPreconditionError reports a projectile whose mass flow rate fell
// outside (0, mass). It signals a construction-time programming error,
// so projectile updates panic with it rather than returning it.
type FuelPreconditionError struct {
	ProjectileID int
	MassFlowRate float64
	Mass         float64
}

func (e *FuelPreconditionError) Error() string {
	return fmt.Sprintf("projectile %d: mass flow rate %g outside (0, %g)",
		e.ProjectileID, e.MassFlowRate, e.Mass)
}

// Projectile is a guided, fuel-limited munition. Thrust accelerates it
// toward a fixed destination while propellant lasts; after burnout the
// position keeps integrating ballistically.
//
// A projectile carries the id of the sensor that launched it, which is
// what keeps the collision scan from scoring the launcher.
type Projectile struct {
	unit
	velocity        Vec3
	mass            float64
	dryMass         float64
	exhaustVelocity float64
	massFlowRate    float64
}

// NewProjectile constructs a projectile with the default ballistics.
func NewProjectile(id int, position, velocity Vec3) *Projectile {
	return NewProjectileWithBallistics(id, position, velocity,
		defaultProjectileMass,
		defaultProjectileDryMass,
		defaultProjectileExhaustVelocity,
		defaultProjectileMassFlowRate,
	)
}

// NewProjectileWithBallistics constructs a projectile with explicit
// mass and thrust parameters.
func NewProjectileWithBallistics(id int, position, velocity Vec3, mass, dryMass, exhaustVelocity, massFlowRate float64) *Projectile {
	return &Projectile{
		unit:            unit{id: id, position: position},
		velocity:        velocity,
		mass:            mass,
		dryMass:         dryMass,
		exhaustVelocity: exhaustVelocity,
		massFlowRate:    massFlowRate,
	}
}

// Velocity returns the projectile's current velocity.
func (p *Projectile) Velocity() Vec3 {
	return p.velocity
}

// Mass returns the current total mass, bounded below by the dry mass.
func (p *Projectile) Mass() float64 {
	return p.mass
}

// DryMass returns the propellant-exhausted lower bound on mass.
func (p *Projectile) DryMass() float64 {
	return p.dryMass
}

// Update advances the projectile one tick and then scans every other
// live entity for a hit inside the blast radius. A hit only raises a
// kill event; no damage or removal follows.
func (p *Projectile) Update(w *World) error {
	p.integrate()
	for _, other := range w.LiveEntities() {
		if other.ID() == p.id {
			continue
		}
		p.detectCollision(w, other)
	}
	return nil
}

// integrate applies one tick of variable-mass guidance followed by
// explicit Euler integration on a unit timestep. Acceleration grows as
// propellant burns off; both guidance and burn stop permanently once
// the dry mass is reached.
func (p *Projectile) integrate() {
	if p.massFlowRate <= 0 || p.massFlowRate >= p.mass {
		panic(&FuelPreconditionError{
			ProjectileID: p.id,
			MassFlowRate: p.massFlowRate,
			Mass:         p.mass,
		})
	}
	thrust := p.exhaustVelocity * p.massFlowRate
	acceleration := thrust / p.mass

	if p.hasDestination {
		direction := p.destination.Sub(p.position)
		if sum := direction.L1Norm(); sum > 0 {
			direction = direction.Scale(1 / sum)
			if p.mass > p.dryMass {
				p.velocity = p.velocity.Add(direction.Scale(acceleration))
				p.mass -= p.massFlowRate
			}
		}
	}
	p.position = p.position.Add(p.velocity)
}

func (p *Projectile) detectCollision(w *World, other Entity) {
	sq := p.position.SquaredDistanceTo(other.Position())
	if sq < BlastRadius*BlastRadius {
		w.notifyKill(KillEvent{
			ProjectileID: p.id,
			TargetID:     other.ID(),
			Separation:   math.Sqrt(sq),
		})
	}
}

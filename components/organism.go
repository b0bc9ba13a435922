package components

// AntState is the behavior state of an ant.
type AntState uint8

const (
	StateForaging AntState = iota
	StateReturning
	StateResting
	StateDigging
	StateCarryingFood
)

// NumAntStates is the number of behavior states.
const NumAntStates = 5

// AntBehavior drives an ant's movement.
// Speed is derived from BaseSpeed and the colony's phase modifiers; it is
// recomputed rather than compounded.
type AntBehavior struct {
	State      AntState
	Target     Position
	HasTarget  bool
	Speed      float32 // effective units per second
	BaseSpeed  float32 // innate speed drawn at birth
	Home       Position
	StateTimer float32 // seconds left in a timed state (Resting, Digging)
}

// SetTarget points the ant at p.
func (b *AntBehavior) SetTarget(p Position) {
	b.Target = p
	b.HasTarget = true
}

// ClearTarget drops the current target.
func (b *AntBehavior) ClearTarget() {
	b.Target = Position{}
	b.HasTarget = false
}

// Lifecycle tracks age and energy. Energy stays within [0, MaxEnergy].
type Lifecycle struct {
	Age       float32 // seconds alive
	MaxAge    float32
	Energy    float32
	MaxEnergy float32
}

// Expired reports whether the ant has reached the end of its life.
func (l *Lifecycle) Expired() bool {
	return l.Age >= l.MaxAge || l.Energy <= 0
}

// AddEnergy adds delta and clamps to [0, MaxEnergy].
func (l *Lifecycle) AddEnergy(delta float32) {
	l.Energy += delta
	if l.Energy > l.MaxEnergy {
		l.Energy = l.MaxEnergy
	}
	if l.Energy < 0 {
		l.Energy = 0
	}
}

// EnergyRatio returns Energy/MaxEnergy, or 0 for a zero capacity.
func (l *Lifecycle) EnergyRatio() float32 {
	if l.MaxEnergy <= 0 {
		return 0
	}
	return l.Energy / l.MaxEnergy
}

// Inventory holds food an ant is carrying home.
type Inventory struct {
	CarriedFood float32
}

// Worker tags non-queen ants.
type Worker struct{}

// Queen holds reproduction state. At most one queen is alive at a time.
type Queen struct {
	ReproductiveCapacity float32 // [0, 1]
	TimeSinceLastEgg     float32
	EggLayingInterval    float32
	EggsLaid             int
}

// Egg hatches into a worker when IncubationTime reaches zero.
type Egg struct {
	IncubationTime float32
}

package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/antnest/components"
	"github.com/pthm-cable/antnest/config"
)

// Phase is a colony development phase.
type Phase uint8

const (
	PhaseQueenFounding Phase = iota
	PhaseFirstWorkers
	PhaseColonyExpansion
	PhaseMatureColony
)

// NumPhases is the number of development phases.
const NumPhases = 4

var phaseNames = [...]string{"QueenFounding", "FirstWorkers", "ColonyExpansion", "MatureColony"}

// String returns the display name of the phase.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "Unknown"
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(name string) (Phase, bool) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), true
		}
	}
	return 0, false
}

// Next returns the following phase, or false at the terminal phase.
func (p Phase) Next() (Phase, bool) {
	if p >= PhaseMatureColony {
		return p, false
	}
	return p + 1, true
}

// ColonyTraits are per-colony multipliers drawn once at colony creation.
type ColonyTraits struct {
	QueenVigor              float32
	WorkerEfficiency        float32
	ArchitecturalSkill      float32
	EnvironmentalAdaptation float32
}

// NeutralTraits returns traits that leave phase constants unchanged.
func NeutralTraits() ColonyTraits {
	return ColonyTraits{QueenVigor: 1, WorkerEfficiency: 1, ArchitecturalSkill: 1, EnvironmentalAdaptation: 1}
}

// RandomTraits draws traits from the configured ranges.
func RandomTraits(tc config.TraitsConfig, rng *rand.Rand) ColonyTraits {
	draw := func(r config.TraitRange) float32 {
		return uniform(rng, float32(r.Min), float32(r.Max))
	}
	return ColonyTraits{
		QueenVigor:              draw(tc.QueenVigor),
		WorkerEfficiency:        draw(tc.WorkerEfficiency),
		ArchitecturalSkill:      draw(tc.ArchitecturalSkill),
		EnvironmentalAdaptation: draw(tc.EnvironmentalAdaptation),
	}
}

// PhaseConditions gate advancement out of a phase. Infinite MinDays and
// negative counts mean the criterion is not required.
type PhaseConditions struct {
	MinDays            float64
	TargetWorkers      int
	RequiredComplexity int
	StabilityThreshold float64
}

// PhaseConditionsFromConfig converts configured conditions. Negative
// min_days become +Inf.
func PhaseConditionsFromConfig(cfg *config.Config) [NumPhases]PhaseConditions {
	var out [NumPhases]PhaseConditions
	for i := 0; i < NumPhases && i < len(cfg.Colony.Phases); i++ {
		pc := cfg.Colony.Phases[i]
		minDays := pc.MinDays
		if minDays < 0 {
			minDays = math.Inf(1)
		}
		out[i] = PhaseConditions{
			MinDays:            minDays,
			TargetWorkers:      pc.TargetWorkers,
			RequiredComplexity: pc.RequiredComplexity,
			StabilityThreshold: pc.StabilityThreshold,
		}
	}
	return out
}

// PhaseProgress breaks overall progress into its four criteria.
type PhaseProgress struct {
	Time       float64
	Population float64
	Complexity float64
	Stability  float64
}

// Overall returns the bottleneck of the four criteria.
func (p PhaseProgress) Overall() float64 {
	return min(p.Time, p.Population, p.Complexity, p.Stability)
}

// ColonyStatus is the colony summary the controller reads each tick.
type ColonyStatus struct {
	Workers       int
	NestStructure int
	QueenAlive    bool
}

// ColonyDevelopment is the colony's phase state. Only the development
// controller writes it.
type ColonyDevelopment struct {
	Phase          Phase
	TimeInPhase    float64 // colony days since the phase began
	Progress       float64
	Breakdown      PhaseProgress
	Conditions     PhaseConditions
	Traits         ColonyTraits
	StabilityScore float64

	table [NumPhases]PhaseConditions
}

// NewColonyDevelopment starts a colony in the founding phase.
func NewColonyDevelopment(table [NumPhases]PhaseConditions, traits ColonyTraits, stabilityScore float64) *ColonyDevelopment {
	return &ColonyDevelopment{
		Phase:          PhaseQueenFounding,
		Conditions:     table[PhaseQueenFounding],
		Traits:         traits,
		StabilityScore: stabilityScore,
		table:          table,
	}
}

// Table returns the conditions of every phase.
func (d *ColonyDevelopment) Table() [NumPhases]PhaseConditions {
	return d.table
}

// SetPhase moves directly to phase p, resetting time and progress.
func (d *ColonyDevelopment) SetPhase(p Phase) {
	d.Phase = p
	d.TimeInPhase = 0
	d.Progress = 0
	d.Breakdown = PhaseProgress{}
	d.Conditions = d.table[p]
}

// Evaluate computes the progress criteria for the current phase.
func (d *ColonyDevelopment) Evaluate(st ColonyStatus) PhaseProgress {
	c := d.Conditions
	return PhaseProgress{
		Time:       ratio(d.TimeInPhase, c.MinDays),
		Population: countRatio(st.Workers, c.TargetWorkers),
		Complexity: countRatio(st.NestStructure, c.RequiredComplexity),
		Stability:  d.stability(st),
	}
}

func (d *ColonyDevelopment) stability(st ColonyStatus) float64 {
	if d.Phase == PhaseQueenFounding {
		if st.QueenAlive {
			return 1
		}
		return 0
	}
	score := 0.0
	if st.QueenAlive && st.Workers > 0 {
		score = d.StabilityScore
	}
	threshold := d.Conditions.StabilityThreshold
	if threshold <= 0 || score >= threshold {
		return 1
	}
	return score / threshold
}

// Update advances the phase clock by days and recomputes progress. It returns
// true when the colony moved into the next phase this call.
func (d *ColonyDevelopment) Update(days float64, st ColonyStatus) bool {
	if days > 0 {
		d.TimeInPhase += days
	}
	d.Breakdown = d.Evaluate(st)
	d.Progress = d.Breakdown.Overall()

	if d.Progress < 1 {
		return false
	}
	next, ok := d.Phase.Next()
	if !ok {
		return false
	}
	d.SetPhase(next)
	return true
}

// Modifiers returns the behavior multipliers for the current phase.
func (d *ColonyDevelopment) Modifiers() components.BehaviorModifiers {
	return PhaseModifiers(d.Phase, d.Traits)
}

// PhaseModifiers is the fixed table of phase constants scaled by colony
// traits.
func PhaseModifiers(p Phase, t ColonyTraits) components.BehaviorModifiers {
	switch p {
	case PhaseQueenFounding:
		return components.BehaviorModifiers{
			Speed:              0.7 * t.WorkerEfficiency,
			ForagingEfficiency: 0.5,
			ConstructionSkill:  0.8 * t.ArchitecturalSkill,
			EnergyEfficiency:   1.1 * t.EnvironmentalAdaptation,
		}
	case PhaseFirstWorkers:
		return components.BehaviorModifiers{
			Speed:              0.9 * t.WorkerEfficiency,
			ForagingEfficiency: 0.7 * t.WorkerEfficiency,
			ConstructionSkill:  0.9 * t.ArchitecturalSkill,
			EnergyEfficiency:   1.0 * t.EnvironmentalAdaptation,
		}
	case PhaseColonyExpansion:
		return components.BehaviorModifiers{
			Speed:              1.1 * t.WorkerEfficiency,
			ForagingEfficiency: 1.0 * t.WorkerEfficiency,
			ConstructionSkill:  1.1 * t.ArchitecturalSkill,
			EnergyEfficiency:   0.95 * t.EnvironmentalAdaptation,
		}
	default:
		return components.BehaviorModifiers{
			Speed:              1.0 * t.WorkerEfficiency,
			ForagingEfficiency: 1.2 * t.WorkerEfficiency,
			ConstructionSkill:  1.0 * t.ArchitecturalSkill,
			EnergyEfficiency:   1.0 * t.EnvironmentalAdaptation,
		}
	}
}

// ratio returns have/need clamped to [0,1], or 1 when need is unbounded.
func ratio(have, need float64) float64 {
	if math.IsInf(need, 1) || need <= 0 {
		return 1
	}
	return math.Min(math.Max(have/need, 0), 1)
}

func countRatio(have, need int) float64 {
	if need <= 0 {
		return 1
	}
	return ratio(float64(have), float64(need))
}

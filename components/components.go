// Package components defines ECS components for the simulation.
package components

// SoilCell holds the environmental state of one soil sample.
type SoilCell struct {
	Moisture    float32 // [0, 1]
	Temperature float32 // degrees C
	Nutrition   float32 // [0, 1]
}

// FoodSource is a patch of food. Once eaten it stays unavailable until the
// regeneration timer runs out.
type FoodSource struct {
	NutritionValue    float32
	IsAvailable       bool
	RegenerationTimer float32
	RegenerationTime  float32
	BaseNutrition     float32 // value restored on regeneration
}

// Invasive is a transient organism that competes with the colony for food.
type Invasive struct {
	Lifetime            float32
	FoodConsumptionRate float32
}

// StructureKind distinguishes nest structures.
type StructureKind uint8

const (
	StructureChamber StructureKind = iota
	StructureTunnel
)

// NestStructure is a dug chamber or tunnel. The count feeds nest complexity.
type NestStructure struct {
	Kind StructureKind
}

// AgeGroup buckets an ant by its age ratio.
type AgeGroup uint8

const (
	AgeYoung AgeGroup = iota
	AgeAdult
	AgeSenior
)

// AgeGroupFromRatio buckets age/max_age: below 0.25 is young, below 0.75 adult.
func AgeGroupFromRatio(ratio float32) AgeGroup {
	switch {
	case ratio < 0.25:
		return AgeYoung
	case ratio < 0.75:
		return AgeAdult
	default:
		return AgeSenior
	}
}

// Role is an ant's specialization within the colony.
type Role uint8

const (
	RoleGeneralWorker Role = iota
	RoleForager
	RoleNurseryWorker
	RoleNestMaintainer
	RoleStorageWorker
	RoleWasteManager
)

// BehaviorModifiers are the phase multipliers applied to an ant.
type BehaviorModifiers struct {
	Speed              float32
	ForagingEfficiency float32
	ConstructionSkill  float32
	EnergyEfficiency   float32
}

// PhaseBehavior carries an ant's colony-phase specific state.
type PhaseBehavior struct {
	AgeGroup  AgeGroup
	Role      Role
	Modifiers BehaviorModifiers
}

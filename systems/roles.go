package systems

import (
	"math/rand"

	"github.com/pthm-cable/antnest/components"
)

// weightedRole is one entry of a role choice table.
type weightedRole struct {
	role   components.Role
	weight float32
}

func uniformRoles(roles ...components.Role) []weightedRole {
	out := make([]weightedRole, len(roles))
	for i, r := range roles {
		out[i] = weightedRole{role: r, weight: 1}
	}
	return out
}

// roleTables lists the role choices per phase and age group. Later phases
// offer more specializations.
var roleTables = [NumPhases][3][]weightedRole{
	PhaseQueenFounding: {
		components.AgeYoung:  uniformRoles(components.RoleGeneralWorker),
		components.AgeAdult:  uniformRoles(components.RoleGeneralWorker),
		components.AgeSenior: uniformRoles(components.RoleGeneralWorker),
	},
	PhaseFirstWorkers: {
		components.AgeYoung: {
			{components.RoleNurseryWorker, 0.7},
			{components.RoleGeneralWorker, 0.3},
		},
		components.AgeAdult: {
			{components.RoleForager, 0.3},
			{components.RoleGeneralWorker, 0.7},
		},
		components.AgeSenior: uniformRoles(components.RoleForager),
	},
	PhaseColonyExpansion: {
		components.AgeYoung: uniformRoles(
			components.RoleNurseryWorker, components.RoleNestMaintainer, components.RoleGeneralWorker),
		components.AgeAdult: uniformRoles(
			components.RoleForager, components.RoleNestMaintainer, components.RoleStorageWorker, components.RoleGeneralWorker),
		components.AgeSenior: {
			{components.RoleForager, 0.6},
			{components.RoleNestMaintainer, 0.4},
		},
	},
	PhaseMatureColony: {
		components.AgeYoung: uniformRoles(
			components.RoleNurseryWorker, components.RoleStorageWorker, components.RoleWasteManager, components.RoleGeneralWorker),
		components.AgeAdult: uniformRoles(
			components.RoleForager, components.RoleNestMaintainer, components.RoleStorageWorker,
			components.RoleWasteManager, components.RoleNurseryWorker, components.RoleGeneralWorker),
		components.AgeSenior: uniformRoles(
			components.RoleForager, components.RoleNestMaintainer, components.RoleWasteManager),
	},
}

// RoleChoices returns the roles available to an age group in a phase.
func RoleChoices(p Phase, g components.AgeGroup) []components.Role {
	table := roleTables[p][g]
	out := make([]components.Role, len(table))
	for i, wr := range table {
		out[i] = wr.role
	}
	return out
}

// AssignRole draws a role for an ant of age group g in phase p.
func AssignRole(p Phase, g components.AgeGroup, rng *rand.Rand) components.Role {
	if int(p) >= NumPhases || int(g) > int(components.AgeSenior) {
		return components.RoleGeneralWorker
	}
	table := roleTables[p][g]
	if len(table) == 1 {
		return table[0].role
	}

	var total float32
	for _, wr := range table {
		total += wr.weight
	}
	pick := rng.Float32() * total
	for _, wr := range table {
		if pick < wr.weight {
			return wr.role
		}
		pick -= wr.weight
	}
	return table[len(table)-1].role
}

// RefreshPhaseBehavior updates an ant's age group and redraws its role when
// the group or phase changed. Returns true if the role was redrawn.
func RefreshPhaseBehavior(pb *components.PhaseBehavior, lc *components.Lifecycle, p Phase, phaseChanged bool, rng *rand.Rand) bool {
	ratio := float32(0)
	if lc.MaxAge > 0 {
		ratio = lc.Age / lc.MaxAge
	}
	group := components.AgeGroupFromRatio(ratio)
	if group == pb.AgeGroup && !phaseChanged {
		return false
	}
	pb.AgeGroup = group
	pb.Role = AssignRole(p, group, rng)
	return true
}

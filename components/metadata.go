package components

var antStateNames = []string{"Foraging", "Returning", "Resting", "Digging", "CarryingFood"}

// String returns the display name for an AntState.
func (s AntState) String() string {
	if int(s) < len(antStateNames) {
		return antStateNames[s]
	}
	return "Unknown"
}

// ParseAntState is the inverse of AntState.String.
func ParseAntState(name string) (AntState, bool) {
	for i, n := range antStateNames {
		if n == name {
			return AntState(i), true
		}
	}
	return 0, false
}

var roleNames = []string{"GeneralWorker", "Forager", "NurseryWorker", "NestMaintainer", "StorageWorker", "WasteManager"}

// String returns the display name for a Role.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "Unknown"
}

// String returns the display name for an AgeGroup.
func (g AgeGroup) String() string {
	switch g {
	case AgeYoung:
		return "Young"
	case AgeAdult:
		return "Adult"
	case AgeSenior:
		return "Senior"
	}
	return "Unknown"
}

// String returns the display name for a StructureKind.
func (k StructureKind) String() string {
	if k == StructureTunnel {
		return "Tunnel"
	}
	return "Chamber"
}

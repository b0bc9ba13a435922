package systems

// SystemInfo describes a simulation stage for perf reporting.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "visual", "ai")
}

// SystemRegistry holds metadata about all systems.
// This centralizes stage naming so the pipeline and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems to the registry.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	// Ant behavior
	r.Register(SystemInfo{ID: "decide", Name: "Decide", Description: "Chooses targets and state changes from tick-start positions", Category: "behavior"})
	r.Register(SystemInfo{ID: "move", Name: "Move", Description: "Steps ants toward their targets", Category: "behavior"})
	r.Register(SystemInfo{ID: "forage", Name: "Forage", Description: "Resolves food pickup within consumption radius", Category: "behavior"})

	// Life cycle
	r.Register(SystemInfo{ID: "lifecycle", Name: "Lifecycle", Description: "Ages ants and drains energy", Category: "lifecycle"})
	r.Register(SystemInfo{ID: "reproduction", Name: "Reproduction", Description: "Queen egg laying and hatching", Category: "lifecycle"})

	// Environment
	r.Register(SystemInfo{ID: "disasters", Name: "Disasters", Description: "Disaster timers and effects", Category: "environment"})
	r.Register(SystemInfo{ID: "invasive", Name: "Invasive Species", Description: "Spawns, moves and feeds invasive organisms", Category: "environment"})
	r.Register(SystemInfo{ID: "environment", Name: "Environment", Description: "Soil drift and food regeneration", Category: "environment"})

	// Colony
	r.Register(SystemInfo{ID: "development", Name: "Development", Description: "Phase progress, roles and modifiers", Category: "colony"})

	// Cleanup
	r.Register(SystemInfo{ID: "cleanup", Name: "Cleanup", Description: "Removes dead entities", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Stats windows, metrics and autosave", Category: "core"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// ByCategory returns systems filtered by category.
func (r *SystemRegistry) ByCategory(category string) []SystemInfo {
	var result []SystemInfo
	for _, info := range r.systems {
		if info.Category == category {
			result = append(result, info)
		}
	}
	return result
}

// Categories returns all unique categories.
func (r *SystemRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, info := range r.systems {
		if !seen[info.Category] {
			seen[info.Category] = true
			cats = append(cats, info.Category)
		}
	}
	return cats
}

// Package persistence stores colony snapshots on disk and in SQLite.
package persistence

import (
	"errors"
	"fmt"
	"time"
)

// FormatVersion identifies the save layout written by this package.
const FormatVersion = 1

// ErrNotFound is returned when a named save does not exist.
var ErrNotFound = errors.New("save not found")

// Metadata describes a save slot without its payload.
type Metadata struct {
	ID         string    `json:"id"`
	SaveName   string    `json:"save_name"`
	CreatedAt  time.Time `json:"created_at"`
	ColonyAge  float64   `json:"colony_age"` // simulated seconds
	ColonyDay  int       `json:"colony_day"`
	Population int       `json:"population"`
	Phase      string    `json:"phase"`
	Version    string    `json:"version"`
}

// AntRecord is a worker or the queen's ant state.
type AntRecord struct {
	ID          uint32  `json:"id" db:"id"`
	X           float32 `json:"x" db:"x"`
	Y           float32 `json:"y" db:"y"`
	State       string  `json:"state" db:"state"`
	TargetX     float32 `json:"target_x" db:"target_x"`
	TargetY     float32 `json:"target_y" db:"target_y"`
	HasTarget   bool    `json:"has_target" db:"has_target"`
	Speed       float32 `json:"speed" db:"speed"`
	BaseSpeed   float32 `json:"base_speed" db:"base_speed"`
	HomeX       float32 `json:"home_x" db:"home_x"`
	HomeY       float32 `json:"home_y" db:"home_y"`
	StateTimer  float32 `json:"state_timer" db:"state_timer"`
	Age         float32 `json:"age" db:"age"`
	MaxAge      float32 `json:"max_age" db:"max_age"`
	Energy      float32 `json:"energy" db:"energy"`
	MaxEnergy   float32 `json:"max_energy" db:"max_energy"`
	CarriedFood float32 `json:"carried_food" db:"carried_food"`
	AgeGroup    uint8   `json:"age_group" db:"age_group"`
	Role        uint8   `json:"role" db:"role"`
}

// QueenRecord is the queen's ant state plus her reproduction state.
type QueenRecord struct {
	Ant                  AntRecord `json:"ant"`
	ReproductiveCapacity float32   `json:"reproductive_capacity"`
	TimeSinceLastEgg     float32   `json:"time_since_last_egg"`
	EggLayingInterval    float32   `json:"egg_laying_interval"`
	EggsLaid             int       `json:"eggs_laid"`
}

// EggRecord is an incubating egg.
type EggRecord struct {
	ID             uint32  `json:"id"`
	X              float32 `json:"x"`
	Y              float32 `json:"y"`
	IncubationTime float32 `json:"incubation_time"`
}

// FoodRecord is a food source.
type FoodRecord struct {
	ID                uint32  `json:"id"`
	X                 float32 `json:"x"`
	Y                 float32 `json:"y"`
	NutritionValue    float32 `json:"nutrition_value"`
	IsAvailable       bool    `json:"is_available"`
	RegenerationTimer float32 `json:"regeneration_timer"`
	RegenerationTime  float32 `json:"regeneration_time"`
	BaseNutrition     float32 `json:"base_nutrition"`
}

// SoilRecord is a soil cell.
type SoilRecord struct {
	ID          uint32  `json:"id"`
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	Moisture    float32 `json:"moisture"`
	Temperature float32 `json:"temperature"`
	Nutrition   float32 `json:"nutrition"`
}

// InvasiveRecord is an invasive organism.
type InvasiveRecord struct {
	ID                  uint32  `json:"id"`
	X                   float32 `json:"x"`
	Y                   float32 `json:"y"`
	Lifetime            float32 `json:"lifetime"`
	FoodConsumptionRate float32 `json:"food_consumption_rate"`
}

// StructureRecord is a nest chamber or tunnel.
type StructureRecord struct {
	ID   uint32  `json:"id"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Kind uint8   `json:"kind"`
}

// DisasterRecord holds disaster timers keyed by disaster name.
type DisasterRecord struct {
	Active   map[string]float64 `json:"active"`
	Cooldown map[string]float64 `json:"cooldown"`
}

// TraitsRecord holds the colony's drawn traits.
type TraitsRecord struct {
	QueenVigor              float32 `json:"queen_vigor"`
	WorkerEfficiency        float32 `json:"worker_efficiency"`
	ArchitecturalSkill      float32 `json:"architectural_skill"`
	EnvironmentalAdaptation float32 `json:"environmental_adaptation"`
}

// DevelopmentRecord holds the colony development state.
type DevelopmentRecord struct {
	Phase       string       `json:"phase"`
	TimeInPhase float64      `json:"time_in_phase"`
	Progress    float64      `json:"progress"`
	Traits      TraitsRecord `json:"traits"`
	DigWork     float64      `json:"dig_work"`
	Dug         int          `json:"dug"`
}

// ClockRecord holds simulation time control.
type ClockRecord struct {
	Elapsed         float64 `json:"elapsed"`
	Ticks           int64   `json:"ticks"`
	SpeedMultiplier float64 `json:"speed_multiplier"`
	Paused          bool    `json:"paused"`
}

// SaveData is a complete colony snapshot.
type SaveData struct {
	Format      int               `json:"format"`
	Metadata    Metadata          `json:"metadata"`
	Clock       ClockRecord       `json:"clock"`
	Ants        []AntRecord       `json:"ants"`
	Queen       *QueenRecord      `json:"queen,omitempty"`
	Eggs        []EggRecord       `json:"eggs"`
	Food        []FoodRecord      `json:"food"`
	Soil        []SoilRecord      `json:"soil"`
	Invasives   []InvasiveRecord  `json:"invasives"`
	Structures  []StructureRecord `json:"structures"`
	Disasters   DisasterRecord    `json:"disasters"`
	Development DevelopmentRecord `json:"development"`
	FoodStore   float64           `json:"food_store"`
	NextID      uint32            `json:"next_id"`
	Seed        int64             `json:"seed"`
}

// Validate checks structural invariants that do not depend on the
// simulation's enums: format, unique IDs below NextID and energy and age
// bounds.
func (s *SaveData) Validate() error {
	if s == nil {
		return errors.New("nil save data")
	}
	if s.Format != FormatVersion {
		return fmt.Errorf("unsupported save format %d", s.Format)
	}
	if s.FoodStore < 0 {
		return fmt.Errorf("negative food store %v", s.FoodStore)
	}

	seen := make(map[uint32]struct{})
	check := func(kind string, id uint32) error {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s %d: duplicate id", kind, id)
		}
		if id >= s.NextID {
			return fmt.Errorf("%s %d: id not below next id %d", kind, id, s.NextID)
		}
		seen[id] = struct{}{}
		return nil
	}
	checkAnt := func(kind string, a *AntRecord) error {
		if err := check(kind, a.ID); err != nil {
			return err
		}
		if a.Energy < 0 || a.Energy > a.MaxEnergy {
			return fmt.Errorf("%s %d: energy %v outside [0, %v]", kind, a.ID, a.Energy, a.MaxEnergy)
		}
		if a.Age < 0 {
			return fmt.Errorf("%s %d: negative age", kind, a.ID)
		}
		return nil
	}

	for i := range s.Ants {
		if err := checkAnt("ant", &s.Ants[i]); err != nil {
			return err
		}
	}
	if s.Queen != nil {
		if err := checkAnt("queen", &s.Queen.Ant); err != nil {
			return err
		}
	}
	for _, e := range s.Eggs {
		if err := check("egg", e.ID); err != nil {
			return err
		}
	}
	for _, f := range s.Food {
		if err := check("food", f.ID); err != nil {
			return err
		}
	}
	for _, c := range s.Soil {
		if err := check("soil", c.ID); err != nil {
			return err
		}
		if c.Moisture < 0 || c.Moisture > 1 || c.Nutrition < 0 || c.Nutrition > 1 {
			return fmt.Errorf("soil %d: moisture or nutrition outside [0, 1]", c.ID)
		}
	}
	for _, inv := range s.Invasives {
		if err := check("invasive", inv.ID); err != nil {
			return err
		}
	}
	for _, st := range s.Structures {
		if err := check("structure", st.ID); err != nil {
			return err
		}
	}
	return nil
}

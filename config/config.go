// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Unbounded marks a phase condition that places no requirement on progress.
const Unbounded = -1

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world"`
	Spatial     SpatialConfig     `yaml:"spatial"`
	Clock       ClockConfig       `yaml:"clock"`
	Ant         AntConfig         `yaml:"ant"`
	Queen       QueenConfig       `yaml:"queen"`
	Egg         EggConfig         `yaml:"egg"`
	Population  PopulationConfig  `yaml:"population"`
	Food        FoodConfig        `yaml:"food"`
	Soil        SoilConfig        `yaml:"soil"`
	Disasters   DisastersConfig   `yaml:"disasters"`
	Invasive    InvasiveConfig    `yaml:"invasive"`
	Colony      ColonyConfig      `yaml:"colony"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Metrics     MetricsConfig     `yaml:"metrics"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the world bounds and the nest entrance.
type WorldConfig struct {
	MinX  float64 `yaml:"min_x"`
	MinY  float64 `yaml:"min_y"`
	MaxX  float64 `yaml:"max_x"`
	MaxY  float64 `yaml:"max_y"`
	HomeX float64 `yaml:"home_x"`
	HomeY float64 `yaml:"home_y"`
}

// SpatialConfig holds spatial index parameters.
type SpatialConfig struct {
	CellSize float64 `yaml:"cell_size"` // Should be on the order of the typical query radius
}

// ClockConfig holds time control parameters.
type ClockConfig struct {
	DT           float64   `yaml:"dt"`            // Wall seconds per headless tick
	DefaultSpeed float64   `yaml:"default_speed"` // Initial speed multiplier
	MaxSpeed     float64   `yaml:"max_speed"`     // Upper clamp for the speed multiplier
	DayLength    float64   `yaml:"day_length"`    // Simulated seconds per colony day
	Presets      []float64 `yaml:"presets"`
}

// AntConfig holds worker behavior parameters.
type AntConfig struct {
	BaseDrain         float64 `yaml:"base_drain"`         // Energy lost per second before modifiers
	ArrivalDistance   float64 `yaml:"arrival_distance"`   // Target cleared at or below this distance
	TargetRange       float64 `yaml:"target_range"`       // Random forage target offset per axis
	ConsumptionRadius float64 `yaml:"consumption_radius"` // Food within this distance is eaten
	SenseRadius       float64 `yaml:"sense_radius"`       // Food detection range, scaled by foraging efficiency
	MinSpeed          float64 `yaml:"min_speed"`
	MaxSpeed          float64 `yaml:"max_speed"`
	SpeedMin          float64 `yaml:"speed_min"` // Newborn speed range
	SpeedMax          float64 `yaml:"speed_max"`
	MaxAgeMin         float64 `yaml:"max_age_min"` // Newborn lifespan range
	MaxAgeMax         float64 `yaml:"max_age_max"`
	MaxEnergy         float64 `yaml:"max_energy"`
	ReturnEnergyRatio float64 `yaml:"return_energy_ratio"` // Foragers head home below this energy fraction
	RestDuration      float64 `yaml:"rest_duration"`
	RestFeedRate      float64 `yaml:"rest_feed_rate"` // Energy per second drawn from the store while resting
	DigChance         float64 `yaml:"dig_chance"`     // Per-second chance a nest maintainer starts digging
	DigDuration       float64 `yaml:"dig_duration"`
	InitialSpread     float64 `yaml:"initial_spread"` // Initial workers spawn within this offset of home
}

// QueenConfig holds queen parameters.
type QueenConfig struct {
	Speed             float64 `yaml:"speed"`
	MaxAge            float64 `yaml:"max_age"`
	Energy            float64 `yaml:"energy"`
	MaxEnergy         float64 `yaml:"max_energy"`
	EggLayingInterval float64 `yaml:"egg_laying_interval"`
	Capacity          float64 `yaml:"capacity"`
	EnergyThreshold   float64 `yaml:"energy_threshold"`   // Lay only above this energy
	CapacityThreshold float64 `yaml:"capacity_threshold"` // Lay only above this capacity
	FeedRatio         float64 `yaml:"feed_ratio"`         // Eat from the store below this energy fraction
	FeedRate          float64 `yaml:"feed_rate"`
}

// EggConfig holds egg parameters.
type EggConfig struct {
	Offset        float64 `yaml:"offset"` // Max spawn offset from the queen per axis
	IncubationMin float64 `yaml:"incubation_min"`
	IncubationMax float64 `yaml:"incubation_max"`
}

// PopulationConfig holds population limits.
type PopulationConfig struct {
	InitialWorkers int     `yaml:"initial_workers"`
	Cap            int     `yaml:"cap"`            // No eggs are laid at or above this population
	SoftCap        int     `yaml:"soft_cap"`       // Capacity is reduced at or above this population
	ReducedFactor  float64 `yaml:"reduced_factor"` // Capacity multiplier above the soft cap
}

// FoodConfig holds food source parameters.
type FoodConfig struct {
	Count            int     `yaml:"count"`
	NutritionMin     float64 `yaml:"nutrition_min"`
	NutritionMax     float64 `yaml:"nutrition_max"`
	RegenerationTime float64 `yaml:"regeneration_time"`
	SpawnRadius      float64 `yaml:"spawn_radius"`    // Sources are placed within this distance of home
	PatchFrequency   float64 `yaml:"patch_frequency"` // Perlin sampling frequency for food patches
	PatchThreshold   float64 `yaml:"patch_threshold"` // Minimum noise value to accept a placement
	PlacementTries   int     `yaml:"placement_tries"`
}

// SoilConfig holds soil grid and drift parameters.
type SoilConfig struct {
	Cols             int     `yaml:"cols"`
	Rows             int     `yaml:"rows"`
	Spacing          float64 `yaml:"spacing"`
	NoiseFrequency   float64 `yaml:"noise_frequency"`
	TemperatureMin   float64 `yaml:"temperature_min"` // Initial temperature range
	TemperatureMax   float64 `yaml:"temperature_max"`
	MoistureDrift    float64 `yaml:"moisture_drift"`    // Max random moisture change per second
	TemperatureDrift float64 `yaml:"temperature_drift"` // Max random temperature change per second
	NutritionGain    float64 `yaml:"nutrition_gain"`    // Nutrition recovery per second
	DriftTempMin     float64 `yaml:"drift_temp_min"`    // Drift clamps temperature into this band
	DriftTempMax     float64 `yaml:"drift_temp_max"`
	TempFloor        float64 `yaml:"temp_floor"` // Absolute temperature bounds
	TempCeil         float64 `yaml:"temp_ceil"`
	DefaultNutrition float64 `yaml:"default_nutrition"` // Average used when there is no soil
}

// DisasterConfig holds timing for one disaster kind.
type DisasterConfig struct {
	Duration     float64 `yaml:"duration"`
	Cooldown     float64 `yaml:"cooldown"`
	RandomChance float64 `yaml:"random_chance"` // Per-second trigger chance when random disasters are enabled
}

// DisastersConfig holds disaster timing and effect rates.
type DisastersConfig struct {
	RandomEnabled bool           `yaml:"random_enabled"`
	Rain          DisasterConfig `yaml:"rain"`
	Drought       DisasterConfig `yaml:"drought"`
	ColdSnap      DisasterConfig `yaml:"cold_snap"`
	Invasive      DisasterConfig `yaml:"invasive_species"`

	RainMoistureRate     float64 `yaml:"rain_moisture_rate"`
	RainSpeedFactor      float64 `yaml:"rain_speed_factor"`
	DroughtMoistureRate  float64 `yaml:"drought_moisture_rate"`
	DroughtNutritionRate float64 `yaml:"drought_nutrition_rate"`
	DroughtAntDrain      float64 `yaml:"drought_ant_drain"`
	ColdTemperatureRate  float64 `yaml:"cold_temperature_rate"`
	ColdSpeedFactor      float64 `yaml:"cold_speed_factor"`
	ColdAntDrain         float64 `yaml:"cold_ant_drain"`
}

// InvasiveConfig holds invasive species parameters.
type InvasiveConfig struct {
	Max           int     `yaml:"max"`
	SpawnRate     float64 `yaml:"spawn_rate"` // Per-second spawn probability
	LifetimeMin   float64 `yaml:"lifetime_min"`
	LifetimeMax   float64 `yaml:"lifetime_max"`
	RateMin       float64 `yaml:"rate_min"` // Food consumption rate range
	RateMax       float64 `yaml:"rate_max"`
	MoveSpeed     float64 `yaml:"move_speed"`
	FeedRadius    float64 `yaml:"feed_radius"`
	DefenseRadius float64 `yaml:"defense_radius"`
	DefenseDrain  float64 `yaml:"defense_drain"`
	ClusterChance float64 `yaml:"cluster_chance"` // Per-second chance a nearby forager starts resting
	ReturnBoost   float64 `yaml:"return_boost"`
	RegenPenalty  float64 `yaml:"regen_penalty"` // Regeneration time multiplier for depleted sources
}

// TraitRange bounds a randomized colony trait.
type TraitRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// TraitsConfig holds the ranges colony traits are drawn from.
type TraitsConfig struct {
	QueenVigor              TraitRange `yaml:"queen_vigor"`
	WorkerEfficiency        TraitRange `yaml:"worker_efficiency"`
	ArchitecturalSkill      TraitRange `yaml:"architectural_skill"`
	EnvironmentalAdaptation TraitRange `yaml:"environmental_adaptation"`
}

// PhaseConfig holds the advancement conditions of one development phase.
// Negative values mean the criterion is not required.
type PhaseConfig struct {
	Name               string  `yaml:"name"`
	MinDays            float64 `yaml:"min_days"`
	TargetWorkers      int     `yaml:"target_workers"`
	RequiredComplexity int     `yaml:"required_complexity"`
	StabilityThreshold float64 `yaml:"stability_threshold"`
}

// ColonyConfig holds colony development parameters.
type ColonyConfig struct {
	Traits           TraitsConfig  `yaml:"traits"`
	Phases           []PhaseConfig `yaml:"phases"`
	StabilityScore   float64       `yaml:"stability_score"` // Score reported when the queen lives and workers exist
	WorkPerStructure float64       `yaml:"work_per_structure"`
	InitialChambers  int           `yaml:"initial_chambers"`
	InitialTunnels   int           `yaml:"initial_tunnels"`
	MaxStructures    int           `yaml:"max_structures"`
	StructureSpread  float64       `yaml:"structure_spread"`
}

// TelemetryConfig holds statistics output parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Simulated seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged for perf stats
}

// PersistenceConfig holds save parameters.
type PersistenceConfig struct {
	AutosaveInterval float64 `yaml:"autosave_interval"` // Simulated seconds between autosaves (0 = off)
	SaveName         string  `yaml:"save_name"`
	Version          string  `yaml:"version"`
}

// MetricsConfig holds Prometheus exporter parameters.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// DerivedConfig holds values computed from other config values.
type DerivedConfig struct {
	MinX32, MinY32 float32 // World bounds as float32
	MaxX32, MaxY32 float32
	WorldW32       float32
	WorldH32       float32
	HomeX32        float32
	HomeY32        float32
	CellSize32     float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	if c.World.MaxX <= c.World.MinX || c.World.MaxY <= c.World.MinY {
		return fmt.Errorf("world bounds are empty: [%v,%v]x[%v,%v]", c.World.MinX, c.World.MaxX, c.World.MinY, c.World.MaxY)
	}
	if c.Spatial.CellSize <= 0 {
		return fmt.Errorf("spatial.cell_size must be positive, got %v", c.Spatial.CellSize)
	}
	if c.Clock.DayLength <= 0 {
		return fmt.Errorf("clock.day_length must be positive, got %v", c.Clock.DayLength)
	}
	if len(c.Colony.Phases) != 4 {
		return fmt.Errorf("colony.phases must list 4 phases, got %d", len(c.Colony.Phases))
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.MinX32 = float32(c.World.MinX)
	c.Derived.MinY32 = float32(c.World.MinY)
	c.Derived.MaxX32 = float32(c.World.MaxX)
	c.Derived.MaxY32 = float32(c.World.MaxY)
	c.Derived.WorldW32 = float32(c.World.MaxX - c.World.MinX)
	c.Derived.WorldH32 = float32(c.World.MaxY - c.World.MinY)
	c.Derived.HomeX32 = float32(c.World.HomeX)
	c.Derived.HomeY32 = float32(c.World.HomeY)
	c.Derived.CellSize32 = float32(c.Spatial.CellSize)

	if len(c.Clock.Presets) == 0 {
		c.Clock.Presets = []float64{1, 2, 5, 10, 20, 30, 50, 75, 100}
	}
	if c.Clock.MaxSpeed <= 0 {
		c.Clock.MaxSpeed = c.Clock.Presets[len(c.Clock.Presets)-1]
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package scene

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the tunable scene parameters. Zero cells or more lights
// than the shaders declare fail validation instead of rendering garbage.
type Config struct {
	LightsI  int        `json:"lights_i"`
	LightsJ  int        `json:"lights_j"`
	OffsetI  float32    `json:"offset_i"`
	OffsetJ  float32    `json:"offset_j"`
	Ambient  [3]float32 `json:"ambient"`
	Seed     int64      `json:"seed"`
	MeshPath string     `json:"mesh_path"`
}

func DefaultConfig() Config {
	return Config{
		LightsI:  10,
		LightsJ:  10,
		OffsetI:  15,
		OffsetJ:  15,
		Ambient:  [3]float32{0.2, 0.2, 0.2},
		Seed:     1,
		MeshPath: "data/bear-obj.obj",
	}
}

// LoadConfig reads a JSON config. Missing fields keep their defaults.
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

func (c Config) Save(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// NLights returns the size of the light lattice.
func (c Config) NLights() int {
	return c.LightsI * c.LightsJ
}

func (c Config) Validate() error {
	if c.LightsI <= 0 || c.LightsJ <= 0 {
		return fmt.Errorf("light lattice %dx%d is empty", c.LightsI, c.LightsJ)
	}
	if c.NLights() > MaxLights {
		return fmt.Errorf("%d lights exceed the shader capacity of %d", c.NLights(), MaxLights)
	}
	return nil
}

// Package config loads the configuration of parkrl from defaults, an
// optional JSON or YAML file, and PARKRL_ environment variables
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/samuelfneumann/parkrl/agent/policy"
	"github.com/samuelfneumann/parkrl/environment/box2d/carpark"
	"github.com/samuelfneumann/parkrl/environment/envconfig"
	"github.com/samuelfneumann/parkrl/environment/parking"
	"github.com/samuelfneumann/parkrl/experiment"
)

// EnvPrefix prefixes the environment variables overriding
// configuration keys, e.g. PARKRL_PARKING_MAXSTEPS
const EnvPrefix = "PARKRL"

// Log configures logging
type Log struct {
	Level  string `mapstructure:"level" json:"level"`
	Pretty bool   `mapstructure:"pretty" json:"pretty"`
}

// Storage configures the episode database
type Storage struct {
	Path string `mapstructure:"path" json:"path"`

	// Run names the episodes of an experiment in the database
	Run string `mapstructure:"run" json:"run"`
}

// Telemetry configures the websocket telemetry server. An empty
// address disables the server.
type Telemetry struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

// Render configures where rendered frames are written
type Render struct {
	Dir string `mapstructure:"dir" json:"dir"`
}

// Config is the complete configuration of an experiment
type Config struct {
	Log         Log               `mapstructure:"log" json:"log"`
	Environment envconfig.EnvName `mapstructure:"environment" json:"environment"`
	Parking     parking.Config    `mapstructure:"parking" json:"parking"`
	Sim         carpark.Config    `mapstructure:"sim" json:"sim"`
	Experiment  experiment.Config `mapstructure:"experiment" json:"experiment"`
	Storage     Storage           `mapstructure:"storage" json:"storage"`
	Telemetry   Telemetry         `mapstructure:"telemetry" json:"telemetry"`
	Render      Render            `mapstructure:"render" json:"render"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Log:         Log{Level: "info", Pretty: true},
		Environment: envconfig.CarPark,
		Parking:     carpark.DefaultParkingConfig(),
		Sim:         carpark.DefaultConfig(),
		Experiment: experiment.Config{
			Type:     experiment.OnlineExp,
			MaxSteps: 10_000,
			Seed:     1,
			Policy: policy.Config{
				Type:     policy.SeekerType,
				TopSpeed: 3.0,
			},
		},
		Storage: Storage{Path: "parkrl.db", Run: "default"},
		Render:  Render{Dir: "frames"},
	}
}

// Env returns the configuration of the environment
func (c Config) Env() envconfig.Config {
	return envconfig.Config{
		Environment: c.Environment,
		Sim:         c.Sim,
		Parking:     c.Parking,
	}
}

// Load returns the configuration built from the defaults, the file at
// path, and environment variables, each overriding the last. If path
// is empty, no file is read.
func Load(path string) (Config, error) {
	v := viper.New()
	if err := setDefaults(v, Default()); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("load: error reading config file: %w",
				err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// setDefaults registers every key of c as a default of v so that each
// key can be overridden from the environment
func setDefaults(v *viper.Viper, c Config) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	setNested(v, "", m)
	return nil
}

func setNested(v *viper.Viper, prefix string, m map[string]interface{}) {
	for key, value := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			setNested(v, key, nested)
			continue
		}
		v.SetDefault(key, value)
	}
}

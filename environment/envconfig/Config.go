// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/samuelfneumann/parkrl/environment/box2d/carpark"
	"github.com/samuelfneumann/parkrl/environment/parking"
	ts "github.com/samuelfneumann/parkrl/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	// CarPark is the parking lot without traffic
	CarPark EnvName = "CarPark"

	// CarParkTraffic is the parking lot with traffic driving along the
	// aisle in front of the slots
	CarParkTraffic EnvName = "CarParkTraffic"
)

// Config implements a specific configuration of a specific environment
type Config struct {
	Environment EnvName        `mapstructure:"environment" json:"environment"`
	Sim         carpark.Config `mapstructure:"sim" json:"sim"`
	Parking     parking.Config `mapstructure:"parking" json:"parking"`
}

// NewConfig returns a new environment Config with the default
// parameters of the named environment
func NewConfig(envName EnvName) (Config, error) {
	sim := carpark.DefaultConfig()
	switch envName {
	case CarPark:
		sim.Traffic.Enabled = false

	case CarParkTraffic:
		sim.Traffic.Enabled = true

	default:
		return Config{}, fmt.Errorf("newConfig: no such environment %v",
			envName)
	}

	return Config{
		Environment: envName,
		Sim:         sim,
		Parking:     carpark.DefaultParkingConfig(),
	}, nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64, logger zerolog.Logger) (*carpark.CarPark,
	ts.TimeStep, error) {
	switch c.Environment {
	case CarPark, CarParkTraffic:
		sim := c.Sim
		sim.Traffic.Enabled = c.Environment == CarParkTraffic

		cp, step, err := carpark.New(sim, c.Parking, seed, logger)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
		return cp, step, nil
	}

	return nil, ts.TimeStep{}, fmt.Errorf("create: cannot create "+
		"environment %v, no such environment", c.Environment)
}

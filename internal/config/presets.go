package config

import (
	"math"
	"sort"

	"github.com/san-kum/orbitsim/internal/constants"
)

// circularSpeed is the speed of a circular orbit of radius r around a body
// with gravitational parameter mu.
func circularSpeed(mu, r float64) float64 {
	return math.Sqrt(mu / r)
}

// orbitPeriod is the Keplerian period for semi-major axis a around mu.
func orbitPeriod(mu, a float64) float64 {
	return 2 * math.Pi * math.Sqrt(a*a*a/mu)
}

var Presets = map[string]*Config{
	"two-body":         twoBody(),
	"eccentric-binary": eccentricBinary(),
	"earth-moon":       earthMoon(),
	"inner-planets":    innerPlanets(),
}

// twoBody is a small test mass on a circular orbit around a 1e15 kg
// primary, the bound system the conservation suite exercises.
func twoBody() *Config {
	const M = 1e15
	const r = 1e6
	v := circularSpeed(constants.G*M, r)
	period := orbitPeriod(constants.G*M, r)

	return &Config{
		Name:       "two-body",
		Integrator: "rk4",
		Dt:         period / 1000,
		Duration:   period,
		Tolerance:  DefaultTolerance,
		Bodies: []BodyConfig{
			{Name: "primary", Mass: M},
			{Name: "satellite", Pos: [3]float64{r, 0, 0}, Vel: [3]float64{0, v, 0}, Mass: 1.0},
		},
	}
}

// eccentricBinary launches the satellite at 60% of circular speed, giving
// an ellipse with eccentricity ~0.64. Good stress for step-size control.
func eccentricBinary() *Config {
	const M = 1e15
	const r = 1e6
	mu := constants.G * M
	v := 0.6 * circularSpeed(mu, r)
	a := r / (2 - 0.6*0.6)
	period := orbitPeriod(mu, a)

	return &Config{
		Name:       "eccentric-binary",
		Integrator: "dopri54",
		Dt:         period / 100,
		Duration:   2 * period,
		Tolerance:  1e-9,
		Bodies: []BodyConfig{
			{Name: "primary", Mass: M},
			{Name: "satellite", Pos: [3]float64{r, 0, 0}, Vel: [3]float64{0, v, 0}, Mass: 1.0},
		},
	}
}

func earthMoon() *Config {
	const moonDistance = 384400e3
	const moonSpeed = 1022.0

	return &Config{
		Name:       "earth-moon",
		Integrator: "leapfrog",
		Dt:         60.0,
		Duration:   27.32 * constants.Day,
		Tolerance:  DefaultTolerance,
		Bodies: []BodyConfig{
			{Name: "earth", Mass: constants.MEarth},
			{Name: "moon", Pos: [3]float64{moonDistance, 0, 0}, Vel: [3]float64{0, moonSpeed, 0}, Mass: constants.MMoon},
		},
	}
}

func innerPlanets() *Config {
	planet := func(name string, rAU, mass float64) BodyConfig {
		r := rAU * constants.AU
		return BodyConfig{
			Name: name,
			Pos:  [3]float64{r, 0, 0},
			Vel:  [3]float64{0, circularSpeed(constants.MuSun, r), 0},
			Mass: mass,
		}
	}

	return &Config{
		Name:       "inner-planets",
		Integrator: "leapfrog",
		Dt:         constants.Day / 4,
		Duration:   365 * constants.Day,
		Tolerance:  DefaultTolerance,
		Bodies: []BodyConfig{
			{Name: "sun", Mass: constants.MSun},
			planet("mercury", 0.387, 3.3011e23),
			planet("venus", 0.723, 4.8675e24),
			planet("earth", 1.0, constants.MEarth),
			planet("mars", 1.524, constants.MMars),
		},
	}
}

// GetPreset returns the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	return Presets[name]
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

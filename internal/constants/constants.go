// Package constants holds physical constants in SI units, consumed read-only
// by scenario builders and tests.
package constants

const (
	// G is the gravitational constant [m³/(kg·s²)].
	G = 6.67430e-11

	// AU is the astronomical unit [m].
	AU = 1.495978707e11

	// Day is the number of seconds per day.
	Day = 86400.0
)

// Standard masses [kg].
const (
	MSun   = 1.98892e30
	MEarth = 5.97217e24
	MMoon  = 7.342e22
	MMars  = 6.4171e23
)

// Standard gravitational parameters [m³/s²].
const (
	MuSun   = G * MSun
	MuEarth = G * MEarth
)

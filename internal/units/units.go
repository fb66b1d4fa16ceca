// Package units provides unit-tagged scalar types for the quantities crossing
// the simulator's public boundary. Values are stored in SI; constructors
// convert on the way in and accessor methods convert on the way out, so the
// core never handles a bare float in a non-SI unit.
package units

import "math"

const elementaryCharge = 1.602176634e-19

// Length in meters.
type Length float64

func Meters(v float64) Length      { return Length(v) }
func Centimeters(v float64) Length { return Length(v * 1e-2) }
func Millimeters(v float64) Length { return Length(v * 1e-3) }
func Microns(v float64) Length     { return Length(v * 1e-6) }

func (l Length) Meters() float64      { return float64(l) }
func (l Length) Centimeters() float64 { return float64(l) * 1e2 }
func (l Length) Millimeters() float64 { return float64(l) * 1e3 }

// Energy in joules.
type Energy float64

func Joules(v float64) Energy { return Energy(v) }
func EV(v float64) Energy     { return Energy(v * elementaryCharge) }
func KeV(v float64) Energy    { return Energy(v * 1e3 * elementaryCharge) }
func MeV(v float64) Energy    { return Energy(v * 1e6 * elementaryCharge) }

func (e Energy) Joules() float64 { return float64(e) }
func (e Energy) MeV() float64    { return float64(e) / (1e6 * elementaryCharge) }

// Angle in radians.
type Angle float64

func Radians(v float64) Angle { return Angle(v) }
func Degrees(v float64) Angle { return Angle(v * math.Pi / 180) }

func (a Angle) Radians() float64 { return float64(a) }
func (a Angle) Degrees() float64 { return float64(a) * 180 / math.Pi }

// Potential in volts.
type Potential float64

func Volts(v float64) Potential     { return Potential(v) }
func Kilovolts(v float64) Potential { return Potential(v * 1e3) }

func (p Potential) Volts() float64 { return float64(p) }

// BField in tesla.
type BField float64

func Tesla(v float64) BField { return BField(v) }

func (b BField) Tesla() float64 { return float64(b) }

// Duration in seconds. Distinct from time.Duration: simulation timesteps are
// femtosecond-scale and fractional.
type Duration float64

func Seconds(v float64) Duration     { return Duration(v) }
func Nanoseconds(v float64) Duration { return Duration(v * 1e-9) }

func (d Duration) Seconds() float64 { return float64(d) }

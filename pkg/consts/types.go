package consts

import (
	"fmt"
	"time"
)

// InitStatus reports whether startup self-checks and sensor calibration completed.
type InitStatus uint8

const (
	InitNotFinished InitStatus = iota
	InitFinished
)

func (s InitStatus) String() string {
	switch s {
	case InitNotFinished:
		return "NOT_FINISHED"
	case InitFinished:
		return "FINISHED"
	}
	return fmt.Sprintf("INIT(%d)", uint8(s))
}

// ArmedStatus is the motor-enable state.
type ArmedStatus uint8

const (
	Disarmed ArmedStatus = iota
	Armed
)

func (s ArmedStatus) String() string {
	switch s {
	case Disarmed:
		return "DISARMED"
	case Armed:
		return "ARMED"
	}
	return fmt.Sprintf("ARMED_STATUS(%d)", uint8(s))
}

// Placement is the debounced physical disposition of the vehicle.
type Placement uint8

const (
	Static Placement = iota
	Motional
)

func (p Placement) String() string {
	switch p {
	case Static:
		return "STATIC"
	case Motional:
		return "MOTIONAL"
	}
	return fmt.Sprintf("PLACEMENT(%d)", uint8(p))
}

// FlightMode is the pilot or autopilot requested top-level mode.
// Only Manual, SemiAuto and Auto are flown today; the remaining named
// modes are reserved codes that the status store coerces to Auto.
type FlightMode uint8

const (
	ModeManual FlightMode = iota
	ModeSemiAuto
	ModeAuto
	ModeAutoTakeoff
	ModeAutoLand
	ModeReturnToHome
	ModeAutoCircle
	ModeAutoPilot
	ModeFollowMe

	// ModeNoChange is the RC layer's "no request" sentinel.
	ModeNoChange FlightMode = 0xFF
)

var modeNames = map[FlightMode]string{
	ModeManual:       "MANUAL",
	ModeSemiAuto:     "SEMIAUTO",
	ModeAuto:         "AUTO",
	ModeAutoTakeoff:  "AUTOTAKEOFF",
	ModeAutoLand:     "AUTOLAND",
	ModeReturnToHome: "RETURNTOHOME",
	ModeAutoCircle:   "AUTOCIRCLE",
	ModeAutoPilot:    "AUTOPILOT",
	ModeFollowMe:     "FOLLOWME",
	ModeNoChange:     "NOCHANGE",
}

func (m FlightMode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("MODE(%d)", uint8(m))
}

// FlightState is written by the flight-state classifier elsewhere in the
// system. The status store passes it through without interpreting it.
type FlightState uint8

const (
	FlightGround FlightState = iota
	FlightTakingOff
	FlightInAir
	FlightLanding
	FlightFinishLanding
)

// AltControl is the altitude-control sub-mode, stored opaquely.
type AltControl uint8

const (
	AltHold AltControl = iota
	AltChanged
)

// PosControl is the position-control sub-mode, stored opaquely.
type PosControl uint8

const (
	PosHold PosControl = iota
	PosChanged
	PosBrake
	PosBrakeFinish
)

// Placement classifier defaults
const (
	DefaultPlacementWindow    = 100
	DefaultPlacementTrip      = 30
	DefaultPlacementThreshold = 1.0
)

// Control loop defaults
const (
	DefaultLoopRateHz       = 200
	DefaultWarmupDelay      = 2 * time.Second
	DefaultFailsafeTimeout  = 500 * time.Millisecond
	DefaultSocketPath       = "/tmp/flightstatus.sock"
	DefaultTelemetryTimeout = 2 * time.Second
	DefaultExportInterval   = time.Second
	DefaultExportTimeout    = time.Second
	DefaultMetricsPort      = ":9090"
)

// Personal.AI order the ending

package status

import "github.com/turtacn/FlightStatus/pkg/consts"

// NormalizeMode maps a requested flight mode onto the supported set.
// MANUAL, SEMIAUTO and AUTO pass through, the no-change sentinel keeps
// current, and anything else becomes AUTO so the vehicle never ends up in a
// mode nothing implements.
func NormalizeMode(current, requested consts.FlightMode) (consts.FlightMode, ModeResult) {
	switch requested {
	case consts.ModeManual, consts.ModeSemiAuto, consts.ModeAuto:
		return requested, ModeApplied
	case consts.ModeNoChange:
		return current, ModeUnchanged
	default:
		return consts.ModeAuto, ModeCoerced
	}
}

// Personal.AI order the ending

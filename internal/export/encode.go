package export

import "github.com/turtacn/FlightStatus/internal/status"

// Status block layout. One holding register per field, protocol-locked.
const (
	RegInit = iota
	RegArmed
	RegFlight
	RegPlacement
	RegAltControl
	RegPosControl
	RegFailsafe
	RegMode

	BlockSize
)

// Encode converts a Snapshot into a full status register block.
// No IO. No side effects.
func Encode(s status.Snapshot) []uint16 {
	regs := make([]uint16, BlockSize)

	regs[RegInit] = uint16(s.Init)
	regs[RegArmed] = uint16(s.Armed)
	regs[RegFlight] = uint16(s.Flight)
	regs[RegPlacement] = uint16(s.Placement)
	regs[RegAltControl] = uint16(s.AltControl)
	regs[RegPosControl] = uint16(s.PosControl)
	if s.Failsafe {
		regs[RegFailsafe] = 1
	}
	regs[RegMode] = uint16(s.Mode)

	return regs
}

// Personal.AI order the ending

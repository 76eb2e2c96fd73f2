package status

// ArmResult reports what SetArmed did. Callers that only care about the
// resulting state can ignore it and re-read Armed.
type ArmResult int

const (
	// ArmIgnored: the requested value was neither ARMED nor DISARMED.
	ArmIgnored ArmResult = iota
	// ArmArmed: gate passed, navigation reset, ARMED committed.
	ArmArmed
	// ArmDisarmed: navigation reset, DISARMED committed.
	ArmDisarmed
	// ArmRejected: init not finished; nothing changed and no reset ran.
	ArmRejected
)

func (r ArmResult) String() string {
	switch r {
	case ArmArmed:
		return "armed"
	case ArmDisarmed:
		return "disarmed"
	case ArmRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Accepted is true when the request was committed.
func (r ArmResult) Accepted() bool {
	return r == ArmArmed || r == ArmDisarmed
}

// ModeResult reports how a flight-mode request was normalized.
type ModeResult int

const (
	// ModeApplied: the requested mode is supported and is now current.
	ModeApplied ModeResult = iota
	// ModeUnchanged: the no-change sentinel was requested.
	ModeUnchanged
	// ModeCoerced: an unsupported mode was replaced with AUTO.
	ModeCoerced
)

func (r ModeResult) String() string {
	switch r {
	case ModeApplied:
		return "applied"
	case ModeUnchanged:
		return "unchanged"
	default:
		return "coerced"
	}
}

// Personal.AI order the ending

package status

import (
	"sync"

	"github.com/turtacn/FlightStatus/internal/placement"
	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/fsm"
	"github.com/turtacn/FlightStatus/pkg/logger"
)

// Navigator is the navigation/estimation pipeline as seen from the status
// store: it only needs to be reset when the vehicle arms or disarms.
type Navigator interface {
	NavigationReset()
}

// NavigatorFunc adapts a plain function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) NavigationReset() { f() }

// Observer receives the outcome of every gated or classified update.
// Implementations must not call back into the Store.
type Observer interface {
	ObserveArm(r ArmResult)
	ObserveMode(requested consts.FlightMode, r ModeResult)
	ObservePlacement(p consts.Placement)
}

// Snapshot is a copy of the status record.
type Snapshot struct {
	Init       consts.InitStatus  `json:"init"`
	Armed      consts.ArmedStatus `json:"armed"`
	Flight     consts.FlightState `json:"flight"`
	Placement  consts.Placement   `json:"placement"`
	AltControl consts.AltControl  `json:"alt_control"`
	PosControl consts.PosControl  `json:"pos_control"`
	Failsafe   bool               `json:"failsafe"`
	Mode       consts.FlightMode  `json:"mode"`
}

type record struct {
	init       consts.InitStatus
	flight     consts.FlightState
	placement  consts.Placement
	altControl consts.AltControl
	posControl consts.PosControl
	failsafe   bool
	mode       consts.FlightMode
}

const (
	evArm    fsm.Event = "arm"
	evDisarm fsm.Event = "disarm"
)

var (
	stDisarmed = fsm.State(consts.Disarmed.String())
	stArmed    = fsm.State(consts.Armed.String())
)

// Store owns the flight status record. It is created once at startup and
// handed to every subsystem that reads or writes status. All methods are
// safe for concurrent use.
//
// The armed flag lives in a state machine whose transitions reset
// navigation before committing, so a reader never sees the new armed value
// ahead of the reset. The reset runs without the record lock held.
type Store struct {
	mu         sync.RWMutex
	rec        record
	classifier *placement.Classifier

	arm *fsm.StateMachine
	nav Navigator
	obs Observer
	log logger.Logger
}

type Option func(*Store)

func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithObserver(o Observer) Option {
	return func(s *Store) { s.obs = o }
}

func WithPlacementParams(p placement.Params) Option {
	return func(s *Store) { s.classifier = placement.New(p) }
}

// New builds a Store with every field at its zero value. nav may be nil.
func New(nav Navigator, opts ...Option) *Store {
	s := &Store{
		classifier: placement.New(placement.DefaultParams()),
		arm:        fsm.New(stDisarmed),
		nav:        nav,
		log:        logger.Log,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "status")
	s.setupArmFSM()
	return s
}

func (s *Store) setupArmFSM() {
	gate := func(fsm.Event, ...interface{}) bool { return s.ArmCheck() }
	reset := func(fsm.Event, ...interface{}) error {
		if s.nav != nil {
			s.nav.NavigationReset()
		}
		return nil
	}

	// Re-requesting the current state still resets navigation.
	s.arm.AddTransition(stDisarmed, stArmed, evArm, gate, reset)
	s.arm.AddTransition(stArmed, stArmed, evArm, gate, reset)
	s.arm.AddTransition(stArmed, stDisarmed, evDisarm, nil, reset)
	s.arm.AddTransition(stDisarmed, stDisarmed, evDisarm, nil, reset)
}

// ArmCheck is the arm gate: arming needs init to have finished.
func (s *Store) ArmCheck() bool {
	return s.Init() == consts.InitFinished
}

// SetArmed requests an arm or disarm. Disarming always succeeds. Arming is
// silently dropped when ArmCheck fails; the result says which happened.
func (s *Store) SetArmed(requested consts.ArmedStatus) ArmResult {
	var r ArmResult
	switch requested {
	case consts.Disarmed:
		s.arm.Fire(evDisarm)
		r = ArmDisarmed
		s.log.Info("Disarmed")
	case consts.Armed:
		if _, err := s.arm.Fire(evArm); err != nil {
			r = ArmRejected
			s.log.Warn("Arm rejected", "init", s.Init().String(), "err", err)
		} else {
			r = ArmArmed
			s.log.Info("Armed")
		}
	default:
		r = ArmIgnored
		s.log.Debug("Ignoring unknown armed status", "value", uint8(requested))
	}

	if s.obs != nil {
		s.obs.ObserveArm(r)
	}
	return r
}

func (s *Store) Armed() consts.ArmedStatus {
	if s.arm.Current() == stArmed {
		return consts.Armed
	}
	return consts.Disarmed
}

// SetFlightMode applies NormalizeMode to the request.
func (s *Store) SetFlightMode(requested consts.FlightMode) ModeResult {
	s.mu.Lock()
	next, r := NormalizeMode(s.rec.mode, requested)
	s.rec.mode = next
	s.mu.Unlock()

	if r == ModeCoerced {
		s.log.Warn("Unsupported flight mode coerced", "requested", requested.String(), "mode", next.String())
	}
	if s.obs != nil {
		s.obs.ObserveMode(requested, r)
	}
	return r
}

func (s *Store) FlightMode() consts.FlightMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.mode
}

// ObserveGyro feeds one angular-rate sample to the placement classifier.
// When the sample closes a window the verdict is committed to the record and
// committed is true.
func (s *Store) ObserveGyro(sample placement.Vector3) (verdict consts.Placement, committed bool) {
	s.mu.Lock()
	prev := s.rec.placement
	verdict, committed = s.classifier.Observe(sample)
	if committed {
		s.rec.placement = verdict
	}
	s.mu.Unlock()

	if !committed {
		return verdict, false
	}
	if verdict != prev {
		s.log.Info("Placement changed", "from", prev.String(), "to", verdict.String())
	}
	if s.obs != nil {
		s.obs.ObservePlacement(verdict)
	}
	return verdict, true
}

func (s *Store) Placement() consts.Placement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.placement
}

func (s *Store) SetInit(v consts.InitStatus) {
	s.mu.Lock()
	prev := s.rec.init
	s.rec.init = v
	s.mu.Unlock()

	if prev != v {
		s.log.Info("Init status changed", "from", prev.String(), "to", v.String())
	}
}

func (s *Store) Init() consts.InitStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.init
}

func (s *Store) SetFlight(v consts.FlightState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.flight = v
}

func (s *Store) Flight() consts.FlightState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.flight
}

func (s *Store) SetAltControl(v consts.AltControl) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.altControl = v
}

func (s *Store) AltControl() consts.AltControl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.altControl
}

func (s *Store) SetPosControl(v consts.PosControl) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec.posControl = v
}

func (s *Store) PosControl() consts.PosControl {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.posControl
}

func (s *Store) SetFailsafe(v bool) {
	s.mu.Lock()
	prev := s.rec.failsafe
	s.rec.failsafe = v
	s.mu.Unlock()

	if prev != v {
		s.log.Warn("Failsafe changed", "active", v)
	}
}

func (s *Store) Failsafe() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec.failsafe
}

// Snapshot copies every field. The armed flag is read separately from the
// rest of the record and may lag an in-flight arm transition.
func (s *Store) Snapshot() Snapshot {
	armed := s.Armed()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Init:       s.rec.init,
		Armed:      armed,
		Flight:     s.rec.flight,
		Placement:  s.rec.placement,
		AltControl: s.rec.altControl,
		PosControl: s.rec.posControl,
		Failsafe:   s.rec.failsafe,
		Mode:       s.rec.mode,
	}
}

// Personal.AI order the ending

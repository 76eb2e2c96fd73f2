package status

import (
	"sync"
	"testing"

	"github.com/turtacn/FlightStatus/internal/placement"
	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/logger"
)

// fakeNav counts resets and records the armed value visible while each reset runs.
type fakeNav struct {
	mu      sync.Mutex
	store   *Store
	resets  int
	seenArm []consts.ArmedStatus
}

func (n *fakeNav) NavigationReset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resets++
	if n.store != nil {
		n.seenArm = append(n.seenArm, n.store.Armed())
	}
}

func (n *fakeNav) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.resets
}

type fakeObserver struct {
	arms       []ArmResult
	modes      []ModeResult
	placements []consts.Placement
}

func (o *fakeObserver) ObserveArm(r ArmResult)                        { o.arms = append(o.arms, r) }
func (o *fakeObserver) ObserveMode(_ consts.FlightMode, r ModeResult) { o.modes = append(o.modes, r) }
func (o *fakeObserver) ObservePlacement(p consts.Placement)           { o.placements = append(o.placements, p) }

func newStore(t *testing.T, opts ...Option) (*Store, *fakeNav) {
	t.Helper()
	nav := &fakeNav{}
	s := New(nav, append([]Option{WithLogger(logger.Discard())}, opts...)...)
	nav.store = s
	return s, nav
}

func TestStore_ZeroValues(t *testing.T) {
	s, _ := newStore(t)
	snap := s.Snapshot()
	if snap != (Snapshot{}) {
		t.Errorf("Expected zero snapshot, got %+v", snap)
	}
	if snap.Armed != consts.Disarmed || snap.Init != consts.InitNotFinished || snap.Placement != consts.Static || snap.Mode != consts.ModeManual {
		t.Errorf("Unexpected defaults %+v", snap)
	}
}

func TestStore_ArmGateScenario(t *testing.T) {
	s, nav := newStore(t)

	if r := s.SetArmed(consts.Armed); r != ArmRejected {
		t.Errorf("Expected ArmRejected before init, got %s", r)
	}
	if s.Armed() != consts.Disarmed {
		t.Errorf("Expected DISARMED after rejected arm, got %s", s.Armed())
	}
	if nav.count() != 0 {
		t.Errorf("Rejected arm must not reset navigation, got %d resets", nav.count())
	}

	s.SetInit(consts.InitFinished)
	if r := s.SetArmed(consts.Armed); r != ArmArmed {
		t.Errorf("Expected ArmArmed after init, got %s", r)
	}
	if s.Armed() != consts.Armed {
		t.Errorf("Expected ARMED, got %s", s.Armed())
	}
	if nav.count() != 1 {
		t.Errorf("Expected exactly one reset, got %d", nav.count())
	}
}

func TestStore_ResetPrecedesCommit(t *testing.T) {
	s, nav := newStore(t)
	s.SetInit(consts.InitFinished)

	s.SetArmed(consts.Armed)
	s.SetArmed(consts.Disarmed)

	want := []consts.ArmedStatus{consts.Disarmed, consts.Armed}
	if len(nav.seenArm) != len(want) {
		t.Fatalf("Expected %d resets, got %d", len(want), len(nav.seenArm))
	}
	for i := range want {
		if nav.seenArm[i] != want[i] {
			t.Errorf("Reset %d saw %s, want %s (old value)", i, nav.seenArm[i], want[i])
		}
	}
}

func TestStore_DisarmIsUnconditional(t *testing.T) {
	s, nav := newStore(t)
	s.SetInit(consts.InitFinished)
	s.SetArmed(consts.Armed)

	// Losing init while armed does not block disarming.
	s.SetInit(consts.InitNotFinished)
	if r := s.SetArmed(consts.Disarmed); r != ArmDisarmed {
		t.Errorf("Expected ArmDisarmed, got %s", r)
	}
	if s.Armed() != consts.Disarmed {
		t.Errorf("Expected DISARMED, got %s", s.Armed())
	}
	if nav.count() != 2 {
		t.Errorf("Expected 2 resets, got %d", nav.count())
	}
}

func TestStore_RepeatedRequestsStillReset(t *testing.T) {
	s, nav := newStore(t)

	s.SetArmed(consts.Disarmed)
	s.SetArmed(consts.Disarmed)
	if nav.count() != 2 {
		t.Errorf("Expected a reset per disarm request, got %d", nav.count())
	}

	s.SetInit(consts.InitFinished)
	s.SetArmed(consts.Armed)
	s.SetArmed(consts.Armed)
	if nav.count() != 4 {
		t.Errorf("Expected a reset per accepted arm request, got %d", nav.count())
	}
	if s.Armed() != consts.Armed {
		t.Errorf("Expected ARMED, got %s", s.Armed())
	}
}

func TestStore_RearmRejectedAfterInitLost(t *testing.T) {
	s, nav := newStore(t)
	s.SetInit(consts.InitFinished)
	s.SetArmed(consts.Armed)
	s.SetInit(consts.InitNotFinished)

	if r := s.SetArmed(consts.Armed); r != ArmRejected {
		t.Errorf("Expected ArmRejected, got %s", r)
	}
	if s.Armed() != consts.Armed {
		t.Errorf("Rejected re-arm must leave ARMED in place, got %s", s.Armed())
	}
	if nav.count() != 1 {
		t.Errorf("Expected 1 reset, got %d", nav.count())
	}
}

func TestStore_UnknownArmedValueIgnored(t *testing.T) {
	s, nav := newStore(t)
	s.SetInit(consts.InitFinished)

	if r := s.SetArmed(consts.ArmedStatus(7)); r != ArmIgnored {
		t.Errorf("Expected ArmIgnored, got %s", r)
	}
	if r := s.SetArmed(consts.ArmedStatus(7)); r.Accepted() {
		t.Error("Ignored request must not report accepted")
	}
	if nav.count() != 0 || s.Armed() != consts.Disarmed {
		t.Errorf("Unknown value changed state: resets=%d armed=%s", nav.count(), s.Armed())
	}
}

// Arming never succeeds while init is unfinished, whatever came before.
func TestStore_GateHoldsForAllSequences(t *testing.T) {
	ops := []func(s *Store){
		func(s *Store) { s.SetInit(consts.InitFinished) },
		func(s *Store) { s.SetInit(consts.InitNotFinished) },
		func(s *Store) { s.SetArmed(consts.Armed) },
		func(s *Store) { s.SetArmed(consts.Disarmed) },
	}

	// Every sequence of length 4 over the op alphabet.
	for seq := 0; seq < 256; seq++ {
		s, nav := newStore(t)
		transitions := 0
		n := seq
		for i := 0; i < 4; i++ {
			op := n % 4
			n /= 4

			initBefore := s.Init()
			resetsBefore := nav.count()
			ops[op](s)

			if op == 2 {
				if initBefore != consts.InitFinished {
					if nav.count() != resetsBefore {
						t.Fatalf("seq %d: rejected arm reset navigation", seq)
					}
					continue
				}
				if s.Armed() != consts.Armed {
					t.Fatalf("seq %d: arm with init finished did not arm", seq)
				}
			}
			if op == 2 || op == 3 {
				transitions++
				if nav.count() != resetsBefore+1 {
					t.Fatalf("seq %d: expected exactly one reset per committed request", seq)
				}
			}
		}
		if nav.count() != transitions {
			t.Fatalf("seq %d: resets=%d transitions=%d", seq, nav.count(), transitions)
		}
	}
}

func TestStore_FlightModeScenario(t *testing.T) {
	s, _ := newStore(t)

	if r := s.SetFlightMode(consts.ModeManual); r != ModeApplied {
		t.Fatalf("Expected applied, got %s", r)
	}
	if r := s.SetFlightMode(consts.ModeNoChange); r != ModeUnchanged || s.FlightMode() != consts.ModeManual {
		t.Errorf("Sentinel must keep MANUAL, got %s (%s)", s.FlightMode(), r)
	}
	if r := s.SetFlightMode(consts.FlightMode(99)); r != ModeCoerced || s.FlightMode() != consts.ModeAuto {
		t.Errorf("Unsupported mode must become AUTO, got %s (%s)", s.FlightMode(), r)
	}
}

func TestStore_PlacementFromGyro(t *testing.T) {
	obs := &fakeObserver{}
	s, _ := newStore(t, WithObserver(obs))

	for i := 0; i < 99; i++ {
		if _, committed := s.ObserveGyro(placement.Vector3{X: 0.1 * float64(i+1)}); committed {
			t.Fatalf("Unexpected commit at sample %d", i+1)
		}
	}
	verdict, committed := s.ObserveGyro(placement.Vector3{X: 10})
	if !committed || verdict != consts.Static || s.Placement() != consts.Static {
		t.Fatalf("Expected STATIC commit, got %s committed=%v", verdict, committed)
	}

	// 40 large deltas then 60 quiet ones.
	x := 10.0
	for i := 0; i < 100; i++ {
		if i < 40 {
			if i%2 == 0 {
				x += 2
			} else {
				x -= 2
			}
		}
		verdict, committed = s.ObserveGyro(placement.Vector3{X: x})
		if i < 99 && s.Placement() != consts.Static {
			t.Fatalf("Placement changed mid-window at sample %d", i+1)
		}
	}
	if !committed || s.Placement() != consts.Motional {
		t.Errorf("Expected MOTIONAL after second window, got %s", s.Placement())
	}
	if len(obs.placements) != 2 || obs.placements[1] != consts.Motional {
		t.Errorf("Unexpected observed placements %v", obs.placements)
	}
}

func TestStore_PlacementParamsOption(t *testing.T) {
	s, _ := newStore(t, WithPlacementParams(placement.Params{Window: 2, Trip: 0, Threshold: 1}))
	s.ObserveGyro(placement.Vector3{Y: 5})
	verdict, committed := s.ObserveGyro(placement.Vector3{Y: 5})
	if !committed || verdict != consts.Motional {
		t.Errorf("Expected MOTIONAL with a 2-sample window, got %s committed=%v", verdict, committed)
	}
}

func TestStore_PlainAccessors(t *testing.T) {
	s, nav := newStore(t)

	s.SetFlight(consts.FlightInAir)
	s.SetAltControl(consts.AltChanged)
	s.SetPosControl(consts.PosBrake)
	s.SetFailsafe(true)
	s.SetInit(consts.InitFinished)

	for i := 0; i < 2; i++ {
		if s.Flight() != consts.FlightInAir {
			t.Errorf("Flight = %d", s.Flight())
		}
		if s.AltControl() != consts.AltChanged {
			t.Errorf("AltControl = %d", s.AltControl())
		}
		if s.PosControl() != consts.PosBrake {
			t.Errorf("PosControl = %d", s.PosControl())
		}
		if !s.Failsafe() {
			t.Error("Failsafe should be set")
		}
		if s.Init() != consts.InitFinished {
			t.Errorf("Init = %s", s.Init())
		}
	}

	// Opaque codes pass through unchanged.
	s.SetFlight(consts.FlightState(200))
	if s.Flight() != consts.FlightState(200) {
		t.Errorf("Expected opaque flight code 200, got %d", s.Flight())
	}
	if nav.count() != 0 {
		t.Errorf("Plain setters must not reset navigation, got %d", nav.count())
	}

	snap := s.Snapshot()
	if snap.Flight != 200 || snap.AltControl != consts.AltChanged || snap.PosControl != consts.PosBrake || !snap.Failsafe {
		t.Errorf("Snapshot mismatch %+v", snap)
	}
}

func TestStore_ObserverSeesResults(t *testing.T) {
	obs := &fakeObserver{}
	s, _ := newStore(t, WithObserver(obs))

	s.SetArmed(consts.Armed)
	s.SetInit(consts.InitFinished)
	s.SetArmed(consts.Armed)
	s.SetArmed(consts.Disarmed)
	s.SetFlightMode(consts.ModeFollowMe)

	wantArms := []ArmResult{ArmRejected, ArmArmed, ArmDisarmed}
	if len(obs.arms) != len(wantArms) {
		t.Fatalf("Expected %d arm observations, got %v", len(wantArms), obs.arms)
	}
	for i := range wantArms {
		if obs.arms[i] != wantArms[i] {
			t.Errorf("arm[%d] = %s, want %s", i, obs.arms[i], wantArms[i])
		}
	}
	if len(obs.modes) != 1 || obs.modes[0] != ModeCoerced {
		t.Errorf("Unexpected mode observations %v", obs.modes)
	}
}

func TestStore_NilNavigator(t *testing.T) {
	s := New(nil, WithLogger(logger.Discard()))
	s.SetInit(consts.InitFinished)
	if r := s.SetArmed(consts.Armed); r != ArmArmed {
		t.Errorf("Expected ArmArmed without a navigator, got %s", r)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, nav := newStore(t)
	s.SetInit(consts.InitFinished)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				switch (i + j) % 5 {
				case 0:
					s.SetArmed(consts.Armed)
				case 1:
					s.SetArmed(consts.Disarmed)
				case 2:
					s.SetFlightMode(consts.FlightMode(j % 4))
				case 3:
					s.ObserveGyro(placement.Vector3{X: float64(j)})
				default:
					_ = s.Snapshot()
				}
			}
		}(i)
	}
	wg.Wait()

	// Every arm and disarm passed the gate, so each one reset navigation.
	if nav.count() != 8*200*2/5 {
		t.Errorf("Expected %d resets, got %d", 8*200*2/5, nav.count())
	}
}

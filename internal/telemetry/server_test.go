package telemetry

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/turtacn/FlightStatus/internal/status"
	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/errors"
	"github.com/turtacn/FlightStatus/pkg/logger"
)

func newStore() *status.Store {
	return status.New(nil, status.WithLogger(logger.Discard()))
}

func startServer(t *testing.T, store *status.Store) (string, context.CancelFunc, chan error) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "telemetry.sock")
	srv := NewServer(socketPath, store, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(socketPath); err == nil {
			return socketPath, cancel, done
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("Socket never appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServer_PrepareSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "test.sock")
	srv := NewServer(socketPath, newStore(), 0)

	l, err := srv.PrepareSocket()
	if err != nil {
		t.Fatalf("PrepareSocket failed: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(socketPath); os.IsNotExist(err) {
		t.Errorf("Socket file %s should exist", socketPath)
	}

	// Stale socket is replaced
	l2, err := srv.PrepareSocket()
	if err != nil {
		t.Fatalf("PrepareSocket failed on second call: %v", err)
	}
	l2.Close()
}

func TestServer_PrepareSocket_BadPath(t *testing.T) {
	srv := NewServer(filepath.Join(t.TempDir(), "missing", "dir", "x.sock"), newStore(), time.Second)
	if _, err := srv.PrepareSocket(); !errors.Is(err, errors.ErrCodeTelemetryBind) {
		t.Errorf("Expected telemetry bind error, got %v", err)
	}
}

func TestServer_Apply(t *testing.T) {
	store := newStore()
	srv := NewServer("", store, time.Second)

	if resp := srv.Apply(Request{Op: OpArm}); resp.Result != "rejected" || resp.Status.Armed != consts.Disarmed {
		t.Errorf("Arm before init should be rejected, got %+v", resp)
	}

	if resp := srv.Apply(Request{Op: OpInit, Value: 1}); resp.Status.Init != consts.InitFinished {
		t.Errorf("Expected init finished, got %+v", resp)
	}

	if resp := srv.Apply(Request{Op: "ARM"}); resp.Result != "armed" || resp.Status.Armed != consts.Armed {
		t.Errorf("Expected armed, got %+v", resp)
	}

	if resp := srv.Apply(Request{Op: OpMode, Value: int(consts.ModeSemiAuto)}); resp.Result != "applied" || resp.Status.Mode != consts.ModeSemiAuto {
		t.Errorf("Expected SEMIAUTO applied, got %+v", resp)
	}

	if resp := srv.Apply(Request{Op: OpMode, Value: int(consts.ModeNoChange)}); resp.Result != "unchanged" || resp.Status.Mode != consts.ModeSemiAuto {
		t.Errorf("Expected no-change sentinel to keep SEMIAUTO, got %+v", resp)
	}

	if resp := srv.Apply(Request{Op: OpMode, Value: 300}); resp.Error == "" {
		t.Error("Expected error for out-of-range mode")
	}

	if resp := srv.Apply(Request{Op: "launch"}); resp.Error == "" {
		t.Error("Expected error for unknown op")
	}

	if resp := srv.Apply(Request{Op: OpDisarm}); resp.Result != "disarmed" || resp.Status.Armed != consts.Disarmed {
		t.Errorf("Expected disarmed, got %+v", resp)
	}
}

func TestServer_RoundTrip(t *testing.T) {
	store := newStore()
	store.SetInit(consts.InitFinished)
	socketPath, cancel, done := startServer(t, store)

	resp, err := Send(socketPath, Request{Op: OpArm}, time.Second)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Status.Armed != consts.Armed {
		t.Errorf("Expected armed status in response, got %+v", resp.Status)
	}
	if store.Armed() != consts.Armed {
		t.Error("Store not armed after request")
	}

	resp, err = Send(socketPath, Request{Op: OpMode, Value: 42}, time.Second)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if resp.Result != "coerced" || resp.Status.Mode != consts.ModeAuto {
		t.Errorf("Expected unsupported mode coerced to AUTO, got %+v", resp)
	}

	if _, err := Send(socketPath, Request{Op: "bogus"}, time.Second); !errors.Is(err, errors.ErrCodeTelemetryRequest) {
		t.Errorf("Expected telemetry request error, got %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}

	if _, err := os.Stat(socketPath); !os.IsNotExist(err) {
		t.Error("Socket should be removed on shutdown")
	}
}

func TestServer_BadRequest(t *testing.T) {
	socketPath, cancel, _ := startServer(t, newStore())
	defer cancel()

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("not json\n"))

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expected error for malformed request")
	}
}

func TestSend_NoServer(t *testing.T) {
	_, err := Send(filepath.Join(t.TempDir(), "absent.sock"), Request{Op: OpStatus}, 100*time.Millisecond)
	if !errors.Is(err, errors.ErrCodeTelemetryRequest) {
		t.Errorf("Expected telemetry request error, got %v", err)
	}
}

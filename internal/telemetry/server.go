package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/FlightStatus/internal/status"
	"github.com/turtacn/FlightStatus/pkg/consts"
	"github.com/turtacn/FlightStatus/pkg/errors"
	"github.com/turtacn/FlightStatus/pkg/logger"
)

// Request ops
const (
	OpStatus = "status"
	OpArm    = "arm"
	OpDisarm = "disarm"
	OpMode   = "mode"
	OpInit   = "init"
)

// Request is one JSON object per connection.
type Request struct {
	Op    string `json:"op"`
	Value int    `json:"value,omitempty"`
}

// Response always carries the snapshot taken after the request was applied.
type Response struct {
	Result string          `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
	Status status.Snapshot `json:"status"`
}

// Server exposes the status store on a unix socket for ground tooling and
// the CLI. Each connection carries exactly one request and one response.
type Server struct {
	socketPath string
	store      *status.Store
	timeout    time.Duration
	log        logger.Logger

	wg sync.WaitGroup
}

func NewServer(path string, store *status.Store, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = consts.DefaultTelemetryTimeout
	}
	return &Server{
		socketPath: path,
		store:      store,
		timeout:    timeout,
		log:        logger.Log.With("component", "telemetry"),
	}
}

// PrepareSocket creates the unix socket, replacing a stale one.
func (s *Server) PrepareSocket() (net.Listener, error) {
	if _, err := os.Stat(s.socketPath); err == nil {
		os.Remove(s.socketPath)
	}
	l, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return nil, errors.New(errors.ErrCodeTelemetryBind, "PrepareSocket", "cannot listen on "+s.socketPath, err)
	}
	os.Chmod(s.socketPath, 0700)
	return l, nil
}

// Serve accepts connections until ctx is cancelled, then removes the socket.
func (s *Server) Serve(ctx context.Context) error {
	l, err := s.PrepareSocket()
	if err != nil {
		return err
	}
	defer os.Remove(s.socketPath)

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	s.log.Info("Telemetry socket listening", "socket", s.socketPath)
	for {
		conn, err := l.Accept()
		if err != nil {
			s.wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return errors.New(errors.ErrCodeTelemetryBind, "Serve", "accept failed", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(s.timeout))

	var req Request
	if err := json.NewDecoder(conn).Decode(&req); err != nil {
		s.log.Warn("Telemetry: bad request", "err", err)
		json.NewEncoder(conn).Encode(Response{Error: "bad request: " + err.Error(), Status: s.store.Snapshot()})
		return
	}

	resp := s.Apply(req)
	s.log.Debug("Telemetry request", "op", req.Op, "value", req.Value, "result", resp.Result)
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.log.Warn("Telemetry: write failed", "err", err)
	}
}

// Apply executes req against the store.
func (s *Server) Apply(req Request) Response {
	var resp Response
	switch strings.ToLower(req.Op) {
	case OpStatus:
		resp.Result = "ok"
	case OpArm:
		resp.Result = s.store.SetArmed(consts.Armed).String()
	case OpDisarm:
		resp.Result = s.store.SetArmed(consts.Disarmed).String()
	case OpMode:
		if req.Value < 0 || req.Value > 0xFF {
			resp.Error = fmt.Sprintf("mode %d out of range", req.Value)
			break
		}
		resp.Result = s.store.SetFlightMode(consts.FlightMode(req.Value)).String()
	case OpInit:
		v := consts.InitNotFinished
		if req.Value != 0 {
			v = consts.InitFinished
		}
		s.store.SetInit(v)
		resp.Result = v.String()
	default:
		resp.Error = "unknown op " + req.Op
	}
	resp.Status = s.store.Snapshot()
	return resp
}

// Personal.AI order the ending

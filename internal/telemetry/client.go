package telemetry

import (
	"encoding/json"
	"net"
	"time"

	"github.com/turtacn/FlightStatus/pkg/errors"
)

// Send performs one request against the socket at path.
func Send(path string, req Request, timeout time.Duration) (Response, error) {
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return Response{}, errors.New(errors.ErrCodeTelemetryRequest, "Send", "cannot dial "+path, err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Response{}, errors.New(errors.ErrCodeTelemetryRequest, "Send", "write request", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, errors.New(errors.ErrCodeTelemetryRequest, "Send", "read response", err)
	}
	if resp.Error != "" {
		return resp, errors.New(errors.ErrCodeTelemetryRequest, "Send", resp.Error, nil)
	}
	return resp, nil
}

// Personal.AI order the ending

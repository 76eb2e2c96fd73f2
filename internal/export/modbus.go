package export

import (
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/turtacn/FlightStatus/pkg/errors"
)

// RegisterWriter is the one Modbus operation the exporter needs.
type RegisterWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
	Close() error
}

// TCPClient is a single Modbus TCP connection to a ground-side register map.
// It serializes requests because it mutates SlaveId per write.
type TCPClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

func DialTCP(endpoint string, timeout time.Duration) (*TCPClient, error) {
	if endpoint == "" {
		return nil, errors.New(errors.ErrCodeExportConnect, "DialTCP", "endpoint required", nil)
	}

	h := modbus.NewTCPClientHandler(endpoint)
	h.Timeout = timeout

	if err := h.Connect(); err != nil {
		return nil, errors.New(errors.ErrCodeExportConnect, "DialTCP", "cannot connect to "+endpoint, err)
	}

	return &TCPClient{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *TCPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

func (c *TCPClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID

	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs))
	return err
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

// Personal.AI order the ending

package export

import (
	"github.com/turtacn/FlightStatus/internal/status"
	"github.com/turtacn/FlightStatus/pkg/errors"
)

// Exporter mirrors status snapshots into a holding-register block.
// Unchanged snapshots are not rewritten; after any failed write the next
// call re-asserts the full block.
type Exporter struct {
	w      RegisterWriter
	unitID uint8
	addr   uint16

	needFull bool
	last     []uint16
}

func NewExporter(w RegisterWriter, unitID uint8, addr uint16) *Exporter {
	return &Exporter{w: w, unitID: unitID, addr: addr, needFull: true}
}

// Export writes s if it differs from the last successful write.
// wrote reports whether a write was attempted and succeeded.
func (e *Exporter) Export(s status.Snapshot) (wrote bool, err error) {
	regs := Encode(s)
	if !e.needFull && equal(regs, e.last) {
		return false, nil
	}

	if err := e.w.WriteRegisters(e.unitID, e.addr, regs); err != nil {
		e.needFull = true
		return false, errors.New(errors.ErrCodeExportWrite, "Export", "write status block", err)
	}

	e.needFull = false
	e.last = regs
	return true, nil
}

func (e *Exporter) Close() error {
	return e.w.Close()
}

func equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Personal.AI order the ending

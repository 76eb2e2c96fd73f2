package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/FlightStatus/internal/placement"
	"github.com/turtacn/FlightStatus/pkg/errors"
)

// CSV replays gyro samples from x,y,z rows. A first row that does not parse
// as numbers is treated as a header. Blank lines and lines starting with #
// are skipped.
type CSV struct {
	path string
	loop bool

	f    io.ReadSeekCloser
	r    *csv.Reader
	line int
	rows int
}

func OpenCSV(path string, loop bool) (*CSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(errors.ErrCodeSourceOpen, "OpenCSV", "cannot open "+path, err)
	}
	c := &CSV{path: path, loop: loop, f: f}
	if err := c.rewind(); err != nil {
		f.Close()
		return nil, errors.New(errors.ErrCodeSourceOpen, "OpenCSV", "cannot seek "+path, err)
	}
	return c, nil
}

func (c *CSV) rewind() error {
	if _, err := c.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	c.r = csv.NewReader(c.f)
	c.r.Comment = '#'
	c.r.FieldsPerRecord = -1
	c.r.TrimLeadingSpace = true
	c.line = 0
	return nil
}

func (c *CSV) Next() (placement.Vector3, error) {
	for {
		rec, err := c.r.Read()
		if err == io.EOF {
			if !c.loop || c.rows == 0 {
				return placement.Vector3{}, errors.New(errors.ErrCodeSourceExhausted, "CSV", c.path+" exhausted", nil)
			}
			if err := c.rewind(); err != nil {
				return placement.Vector3{}, errors.New(errors.ErrCodeSourceOpen, "CSV", "cannot rewind "+c.path, err)
			}
			continue
		}
		if err != nil {
			return placement.Vector3{}, errors.New(errors.ErrCodeSourceParse, "CSV", c.path, err)
		}
		c.line++

		v, err := parseRow(rec)
		if err != nil {
			if c.line == 1 {
				continue // header
			}
			return placement.Vector3{}, errors.New(errors.ErrCodeSourceParse, "CSV",
				fmt.Sprintf("%s row %d", c.path, c.line), err)
		}
		c.rows++
		return v, nil
	}
}

func parseRow(rec []string) (placement.Vector3, error) {
	if len(rec) < 3 {
		return placement.Vector3{}, fmt.Errorf("want 3 columns, got %d", len(rec))
	}
	var xyz [3]float64
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil {
			return placement.Vector3{}, err
		}
		xyz[i] = v
	}
	return placement.Vector3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func (c *CSV) Close() error {
	return c.f.Close()
}

// Personal.AI order the ending

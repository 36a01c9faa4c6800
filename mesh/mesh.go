// Package mesh describes the target core mesh that the communication intrinsics
// address: its 2D shape, core coordinates, and the linear core ids the IR carries.
package mesh

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Shape is the 2D layout of cores on the target device.
type Shape struct {
	X, Y int
}

// Coord addresses one core by its row and column on the mesh.
type Coord struct {
	Row, Col int
}

// NumCores returns the number of cores on the mesh.
func (s Shape) NumCores() int { return s.X * s.Y }

// String implements fmt.Stringer, e.g. "4x4".
func (s Shape) String() string { return fmt.Sprintf("%dx%d", s.X, s.Y) }

// String implements fmt.Stringer, e.g. "(1, 3)".
func (c Coord) String() string { return fmt.Sprintf("(%d, %d)", c.Row, c.Col) }

// LinearID converts 2D coordinates into the linear core id the IR carries,
// validating each coordinate against the mesh bounds.
func (s Shape) LinearID(c Coord) (int, error) {
	if c.Row < 0 || c.Row >= s.X {
		return 0, errors.Errorf("row %d out of bounds for mesh shape %s", c.Row, s)
	}
	if c.Col < 0 || c.Col >= s.Y {
		return 0, errors.Errorf("col %d out of bounds for mesh shape %s", c.Col, s)
	}
	return c.Row*s.X + c.Col, nil
}

// CheckLinear validates a linear core id against the mesh bounds.
func (s Shape) CheckLinear(id int) error {
	if id < 0 || id >= s.NumCores() {
		return errors.Errorf("core id %d out of bounds for mesh shape %s", id, s)
	}
	return nil
}

// TLMESH_SHAPE is the environment variable overriding the default mesh shape.
//
// The format is "<rows>x<cols>", e.g. "4x4".
const TLMESH_SHAPE = "TLMESH_SHAPE"

// DefaultShape is used by Default when TLMESH_SHAPE is not set.
var DefaultShape = Shape{X: 4, Y: 4}

// Default resolves the target mesh shape:
//
//  1. The environment variable TLMESH_SHAPE, if set.
//  2. The variable DefaultShape otherwise.
//
// It panics on a malformed TLMESH_SHAPE value, since that is a configuration
// error there is no reasonable way to recover from.
func Default() Shape {
	value, found := os.LookupEnv(TLMESH_SHAPE)
	if !found {
		return DefaultShape
	}
	shape, err := Parse(value)
	if err != nil {
		exceptions.Panicf("mesh: invalid %s=%q: %v", TLMESH_SHAPE, value, err)
	}
	return shape
}

// Parse parses a mesh shape formatted as "<rows>x<cols>".
func Parse(value string) (Shape, error) {
	rowsStr, colsStr, found := strings.Cut(value, "x")
	if !found {
		return Shape{}, errors.Errorf("mesh shape must be formatted as \"<rows>x<cols>\", got %q", value)
	}
	rows, err := strconv.Atoi(rowsStr)
	if err != nil {
		return Shape{}, errors.Wrapf(err, "invalid rows in mesh shape %q", value)
	}
	cols, err := strconv.Atoi(colsStr)
	if err != nil {
		return Shape{}, errors.Wrapf(err, "invalid cols in mesh shape %q", value)
	}
	if rows <= 0 || cols <= 0 {
		return Shape{}, errors.Errorf("mesh shape dimensions must be positive, got %q", value)
	}
	return Shape{X: rows, Y: cols}, nil
}

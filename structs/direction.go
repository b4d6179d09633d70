package structs

import (
	"encoding/json"
	"fmt"
)

// Direction is the heading of the snake. The zero value is None.
type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

var directionNames = map[Direction]string{
	None:  "none",
	Up:    "up",
	Down:  "down",
	Left:  "left",
	Right: "right",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts the lowercase names used on the wire.
func ParseDirection(s string) (Direction, error) {
	for d, name := range directionNames {
		if name == s {
			return d, nil
		}
	}
	return None, fmt.Errorf("invalid direction '%s' provided", s)
}

// Opposite returns the 180° reversal of d. None is its own opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return None
}

// IsOpposite reports whether d reverses other.
func (d Direction) IsOpposite(other Direction) bool {
	return d != None && d == other.Opposite()
}

// Delta returns the unit vector of d scaled by size.
func (d Direction) Delta(size int) (dx, dy int) {
	switch d {
	case Up:
		return 0, -size
	case Down:
		return 0, size
	case Left:
		return -size, 0
	case Right:
		return size, 0
	}
	return 0, 0
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

package snake

import (
	"fmt"

	"github.com/hoshinonyaruko/snake-fruits/structs"
)

// Palette of the board.
var (
	BodyColor = structs.Color{R: 0x33, G: 0xdb, B: 0x00}
	HeadColor = structs.Color{R: 0x00, G: 0x80, B: 0x00}
	GridColor = structs.Color{R: 0x19, G: 0x19, B: 0x19}
)

// Settings are the fixed board parameters of a game.
type Settings struct {
	CellSize       int
	BoardSize      int
	ScoreIncrement int
	Start          structs.Cell
}

// DefaultSettings is a 20x20 board of 30 unit cells starting at grid index (9, 8).
func DefaultSettings() Settings {
	return Settings{
		CellSize:       30,
		BoardSize:      600,
		ScoreIncrement: 10,
		Start:          structs.Cell{X: 270, Y: 240},
	}
}

// Columns is the number of cells along one side of the board.
func (s Settings) Columns() int {
	return s.BoardSize / s.CellSize
}

// Limit is the largest valid coordinate.
func (s Settings) Limit() int {
	return s.BoardSize - s.CellSize
}

// InBounds reports whether c lies on the board.
func (s Settings) InBounds(c structs.Cell) bool {
	limit := s.Limit()
	return c.X >= 0 && c.X <= limit && c.Y >= 0 && c.Y <= limit
}

// Aligned reports whether c sits on the grid.
func (s Settings) Aligned(c structs.Cell) bool {
	return c.X%s.CellSize == 0 && c.Y%s.CellSize == 0
}

func (s Settings) validate() error {
	if s.CellSize <= 0 {
		return fmt.Errorf("cell size must be positive, got %d", s.CellSize)
	}
	if s.BoardSize%s.CellSize != 0 || s.Columns() < 2 {
		return fmt.Errorf("board size %d must be a multiple of cell size %d spanning at least 2 cells", s.BoardSize, s.CellSize)
	}
	if s.ScoreIncrement < 0 {
		return fmt.Errorf("score increment must not be negative, got %d", s.ScoreIncrement)
	}
	if !s.Aligned(s.Start) || !s.InBounds(s.Start) {
		return fmt.Errorf("start cell %v is not a cell of the board", s.Start)
	}
	return nil
}

// State is the mutable game state. It is owned by a single Game.
type State struct {
	Snake     []structs.Cell // tail first, head last
	Food      structs.Food
	Direction structs.Direction // committed, applied by the move step
	Pending   structs.Direction // requested by input, promoted at the next tick
	Score     int
	GameOver  bool

	start structs.Cell
}

func newState(start structs.Cell) *State {
	s := &State{start: start}
	s.Reset()
	return s
}

// Reset puts the snake back on the start cell and clears score, direction and game over.
// Food is left where it is.
func (s *State) Reset() {
	s.Snake = []structs.Cell{s.start}
	s.Score = 0
	s.Direction = structs.None
	s.Pending = structs.None
	s.GameOver = false
}

// Head returns the most recently added segment.
func (s *State) Head() structs.Cell {
	return s.Snake[len(s.Snake)-1]
}

// Occupies reports whether any segment of the snake is on c.
func (s *State) Occupies(c structs.Cell) bool {
	for _, segment := range s.Snake {
		if segment == c {
			return true
		}
	}
	return false
}

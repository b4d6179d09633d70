package snake

import (
	"errors"

	"github.com/hoshinonyaruko/snake-fruits/structs"
)

// ErrBoardFull is returned when the snake covers every cell and food has nowhere to go.
var ErrBoardFull = errors.New("snake: no free cell left for food")

// placementAttempts bounds the random resampling before falling back to enumerating free cells.
const placementAttempts = 32

// relocateFood moves the food to a random cell off the snake and gives it a new color.
func (g *Game) relocateFood() error {
	cell, err := g.freeCell()
	if err != nil {
		return err
	}
	g.state.Food = structs.Food{Cell: cell, Color: g.randomColor()}
	return nil
}

func (g *Game) freeCell() (structs.Cell, error) {
	for i := 0; i < placementAttempts; i++ {
		candidate := g.randomCell()
		if !g.state.Occupies(candidate) {
			return candidate, nil
		}
	}

	free := g.freeCells()
	if len(free) == 0 {
		return structs.Cell{}, ErrBoardFull
	}
	return free[g.rng.Intn(len(free))], nil
}

// freeCells lists every board cell not covered by the snake, row by row.
func (g *Game) freeCells() []structs.Cell {
	occupied := make(map[structs.Cell]bool, len(g.state.Snake))
	for _, segment := range g.state.Snake {
		occupied[segment] = true
	}

	size := g.settings.CellSize
	columns := g.settings.Columns()
	free := make([]structs.Cell, 0, max(0, columns*columns-len(occupied)))
	for row := 0; row < columns; row++ {
		for col := 0; col < columns; col++ {
			c := structs.Cell{X: col * size, Y: row * size}
			if !occupied[c] {
				free = append(free, c)
			}
		}
	}
	return free
}

func (g *Game) randomCell() structs.Cell {
	columns := g.settings.Columns()
	size := g.settings.CellSize
	return structs.Cell{
		X: g.rng.Intn(columns) * size,
		Y: g.rng.Intn(columns) * size,
	}
}

func (g *Game) randomColor() structs.Color {
	return structs.Color{
		R: uint8(g.rng.Intn(256)),
		G: uint8(g.rng.Intn(256)),
		B: uint8(g.rng.Intn(256)),
	}
}

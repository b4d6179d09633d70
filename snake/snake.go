// 关于蛇的更新
package snake

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/hoshinonyaruko/snake-fruits/structs"
)

// Game applies the tick rules to one State and drives the view.
// A Game is not safe for concurrent use; Loop confines it to one goroutine.
type Game struct {
	settings Settings
	state    *State
	view     View
	rng      *rand.Rand
}

// New creates a game with the snake on the start cell and food on a random free cell.
func New(settings Settings, view View, rng *rand.Rand) (*Game, error) {
	if err := settings.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	g := &Game{
		settings: settings,
		state:    newState(settings.Start),
		view:     view.withDefaults(),
		rng:      rng,
	}
	if err := g.relocateFood(); err != nil {
		return nil, err
	}
	return g, nil
}

// Settings returns the board parameters.
func (g *Game) Settings() Settings {
	return g.settings
}

// State exposes the state for inspection and test setup.
func (g *Game) State() *State {
	return g.state
}

// Tick runs one step and reports whether another tick should be scheduled.
// A game that is over does nothing and reports false.
func (g *Game) Tick() bool {
	if g.state.GameOver {
		return false
	}
	if g.state.Pending != structs.None {
		g.state.Direction = g.state.Pending
		g.state.Pending = structs.None
	}

	r := g.view.Renderer
	r.Clear()
	r.DrawGridLines(g.settings.BoardSize, g.settings.CellSize)
	g.drawFood()

	g.move()
	g.drawSnake()

	if err := g.checkEat(); err != nil {
		// 棋盘已被蛇占满
		log.Printf("food placement failed at score %d: %v", g.state.Score, err)
		g.gameOver()
		r.Present()
		return false
	}

	if g.collided() {
		g.gameOver()
		r.Present()
		return false
	}

	r.Present()
	return true
}

// move translates the snake one cell in the committed direction.
func (g *Game) move() {
	if g.state.Direction == structs.None {
		return
	}
	dx, dy := g.state.Direction.Delta(g.settings.CellSize)
	newHead := g.state.Head().Add(dx, dy)
	g.state.Snake = append(g.state.Snake, newHead)
	g.state.Snake = g.state.Snake[1:]
}

func (g *Game) drawFood() {
	if fr, ok := g.view.Renderer.(FoodRenderer); ok {
		fr.DrawFood(g.state.Food.Cell, g.state.Food.Color)
		return
	}
	g.view.Renderer.DrawCell(g.state.Food.Cell, g.state.Food.Color)
}

func (g *Game) drawSnake() {
	last := len(g.state.Snake) - 1
	for i, segment := range g.state.Snake {
		color := BodyColor
		if i == last {
			color = HeadColor
		}
		g.view.Renderer.DrawCell(segment, color)
	}
}

// checkEat grows the snake by duplicating the head when it reaches the food.
func (g *Game) checkEat() error {
	head := g.state.Head()
	if head != g.state.Food.Cell {
		return nil
	}
	g.state.Score += g.settings.ScoreIncrement
	g.state.Snake = append(g.state.Snake, head)
	g.view.Score.Show(g.state.Score)
	g.view.Audio.PlayEatSound()
	return g.relocateFood()
}

// collided reports a wall hit or the head overlapping its own body behind the neck.
func (g *Game) collided() bool {
	head := g.state.Head()
	if !g.settings.InBounds(head) {
		return true
	}
	neckIndex := len(g.state.Snake) - 2
	for i := 0; i < neckIndex; i++ {
		if g.state.Snake[i] == head {
			return true
		}
	}
	return false
}

func (g *Game) gameOver() {
	g.state.Direction = structs.None
	g.state.Pending = structs.None
	g.state.GameOver = true
	g.view.Score.ShowFinal(g.state.Score)
	g.view.Menu.Show()
	g.view.Renderer.SetBoardVisualState(Blurred)
}

// Abort ends the game after a fault inside a tick.
// The state is marked game over even if the view keeps failing.
func (g *Game) Abort(cause any) {
	log.Printf("tick aborted: %v", cause)
	g.state.Direction = structs.None
	g.state.Pending = structs.None
	g.state.GameOver = true
	defer func() {
		if r := recover(); r != nil {
			log.Printf("game-over view update failed: %v", r)
		}
	}()
	g.gameOver()
	g.view.Renderer.Present()
}

// Restart is the play action: reset the state, clear the game-over presentation.
// Food stays put unless the fresh snake would sit on it.
func (g *Game) Restart() {
	g.state.Reset()
	if g.state.Occupies(g.state.Food.Cell) {
		if err := g.relocateFood(); err != nil {
			log.Printf("food placement failed on restart: %v", err)
		}
	}
	g.view.Score.Show(0)
	g.view.Menu.Hide()
	g.view.Renderer.SetBoardVisualState(Normal)
}

// Snapshot copies the current state.
func (g *Game) Snapshot() structs.Snapshot {
	body := make([]structs.Cell, len(g.state.Snake))
	copy(body, g.state.Snake)
	return structs.Snapshot{
		Snake:     body,
		Food:      g.state.Food,
		Direction: g.state.Direction,
		Score:     g.state.Score,
		GameOver:  g.state.GameOver,
	}
}

// Restore replaces the state with a previously taken snapshot.
func (g *Game) Restore(snap structs.Snapshot) error {
	if len(snap.Snake) == 0 {
		return fmt.Errorf("snapshot has an empty snake")
	}
	for _, c := range append([]structs.Cell{snap.Food.Cell}, snap.Snake...) {
		if !g.settings.Aligned(c) {
			return fmt.Errorf("snapshot cell %v is not grid aligned", c)
		}
	}
	if snap.Score < 0 {
		return fmt.Errorf("snapshot score %d is negative", snap.Score)
	}

	body := make([]structs.Cell, len(snap.Snake))
	copy(body, snap.Snake)
	g.state.Snake = body
	g.state.Food = snap.Food
	g.state.Direction = snap.Direction
	g.state.Pending = structs.None
	g.state.Score = snap.Score
	g.state.GameOver = snap.GameOver

	if g.state.Occupies(g.state.Food.Cell) {
		if err := g.relocateFood(); err != nil {
			return fmt.Errorf("relocate restored food: %w", err)
		}
	}

	g.view.Score.Show(g.state.Score)
	if g.state.GameOver {
		g.state.Direction = structs.None
		g.gameOver()
	} else {
		g.view.Menu.Hide()
		g.view.Renderer.SetBoardVisualState(Normal)
	}
	g.redraw()
	return nil
}

// redraw presents the current state without advancing it.
func (g *Game) redraw() {
	r := g.view.Renderer
	r.Clear()
	r.DrawGridLines(g.settings.BoardSize, g.settings.CellSize)
	g.drawFood()
	g.drawSnake()
	r.Present()
}

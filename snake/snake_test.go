package snake

import (
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"github.com/hoshinonyaruko/snake-fruits/structs"
)

// recorder is a View that remembers what the game asked it to do.
type recorder struct {
	mu sync.Mutex

	clears      int
	grids       int
	presents    int
	cells       []structs.Cell
	visual      VisualState
	shown       []int
	final       []int
	eats        int
	menuVisible bool
	panicOnDraw bool
}

func (r *recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears++
	r.cells = r.cells[:0]
}

func (r *recorder) DrawGridLines(boardSize, cellSize int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grids++
}

func (r *recorder) DrawCell(cell structs.Cell, color structs.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicOnDraw {
		r.panicOnDraw = false
		panic("draw failed")
	}
	r.cells = append(r.cells, cell)
}

func (r *recorder) SetBoardVisualState(state VisualState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visual = state
}

func (r *recorder) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presents++
}

func (r *recorder) PlayEatSound() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eats++
}

func (r *recorder) Show(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, score)
}

func (r *recorder) ShowFinal(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.final = append(r.final, score)
}

// MenuUI is implemented on a separate type because Show collides with ScoreDisplay.
type menuRecorder struct{ r *recorder }

func (m menuRecorder) Show() {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	m.r.menuVisible = true
}

func (m menuRecorder) Hide() {
	m.r.mu.Lock()
	defer m.r.mu.Unlock()
	m.r.menuVisible = false
}

func newTestGame(t *testing.T) (*Game, *recorder) {
	t.Helper()
	rec := &recorder{}
	view := View{Renderer: rec, Audio: rec, Score: rec, Menu: menuRecorder{rec}}
	g, err := New(DefaultSettings(), view, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g, rec
}

func cell(col, row int) structs.Cell {
	return structs.Cell{X: col * 30, Y: row * 30}
}

func TestNewGameStartsOnStartCell(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()

	if want := []structs.Cell{{X: 270, Y: 240}}; !reflect.DeepEqual(s.Snake, want) {
		t.Errorf("Snake = %v, want %v", s.Snake, want)
	}
	if s.Score != 0 || s.Direction != structs.None || s.GameOver {
		t.Errorf("unexpected initial state: %+v", s)
	}
	if s.Occupies(s.Food.Cell) {
		t.Errorf("food %v placed on the snake", s.Food.Cell)
	}
	if !g.Settings().Aligned(s.Food.Cell) || !g.Settings().InBounds(s.Food.Cell) {
		t.Errorf("food %v is not a board cell", s.Food.Cell)
	}
}

func TestTickWithoutDirectionKeepsSnakeStill(t *testing.T) {
	g, rec := newTestGame(t)
	before := g.Snapshot().Snake

	if !g.Tick() {
		t.Fatal("Tick should keep the game running")
	}
	if !reflect.DeepEqual(g.State().Snake, before) {
		t.Errorf("snake moved without direction: %v", g.State().Snake)
	}
	if rec.clears != 1 || rec.grids != 1 || rec.presents != 1 {
		t.Errorf("clears=%d grids=%d presents=%d, want 1 each", rec.clears, rec.grids, rec.presents)
	}
	// food then the single segment
	if len(rec.cells) != 2 {
		t.Errorf("drew %d cells, want 2", len(rec.cells))
	}
}

func TestMoveTranslatesByOneCell(t *testing.T) {
	tests := []struct {
		dir  structs.Direction
		head structs.Cell
	}{
		{structs.Right, cell(6, 5)},
		{structs.Up, cell(5, 4)},
		{structs.Down, cell(5, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			g, _ := newTestGame(t)
			s := g.State()
			s.Snake = []structs.Cell{cell(3, 5), cell(4, 5), cell(5, 5)}
			s.Direction = structs.Right
			s.Food.Cell = cell(0, 0)

			if !g.Steer(tt.dir) {
				t.Fatalf("Steer(%v) rejected", tt.dir)
			}
			g.Tick()

			if len(s.Snake) != 3 {
				t.Fatalf("length = %d, want 3", len(s.Snake))
			}
			if got := s.Head(); got != tt.head {
				t.Errorf("head = %v, want %v", got, tt.head)
			}
			if s.Snake[0] != cell(4, 5) {
				t.Errorf("tail = %v, want %v", s.Snake[0], cell(4, 5))
			}
		})
	}
}

func TestEatFromStart(t *testing.T) {
	g, rec := newTestGame(t)
	s := g.State()
	s.Food.Cell = structs.Cell{X: 300, Y: 240}

	g.Steer(structs.Right)
	if !g.Tick() {
		t.Fatal("eating must not end the game")
	}

	if s.Score != 10 {
		t.Errorf("Score = %d, want 10", s.Score)
	}
	want := []structs.Cell{{X: 300, Y: 240}, {X: 300, Y: 240}}
	if !reflect.DeepEqual(s.Snake, want) {
		t.Errorf("Snake = %v, want %v", s.Snake, want)
	}
	if s.Occupies(s.Food.Cell) {
		t.Errorf("food relocated onto the snake: %v", s.Food.Cell)
	}
	if s.Food.Cell == (structs.Cell{X: 300, Y: 240}) {
		t.Error("food was not relocated")
	}
	if rec.eats != 1 {
		t.Errorf("eat sound played %d times, want 1", rec.eats)
	}
	if !reflect.DeepEqual(rec.shown, []int{10}) {
		t.Errorf("score shown %v, want [10]", rec.shown)
	}

	// the duplicated head becomes a real segment on the next move
	s.Food.Cell = cell(0, 0)
	g.Tick()
	want = []structs.Cell{{X: 300, Y: 240}, {X: 330, Y: 240}}
	if !reflect.DeepEqual(s.Snake, want) {
		t.Errorf("after next tick Snake = %v, want %v", s.Snake, want)
	}
}

func TestEatingGrowsByOne(t *testing.T) {
	eating, _ := newTestGame(t)
	plain, _ := newTestGame(t)
	for _, g := range []*Game{eating, plain} {
		s := g.State()
		s.Snake = []structs.Cell{cell(2, 2), cell(3, 2), cell(4, 2)}
		s.Direction = structs.Right
		s.Food.Cell = cell(0, 10)
	}
	eating.State().Food.Cell = cell(5, 2)

	eating.Tick()
	plain.Tick()

	if got, want := len(eating.State().Snake), len(plain.State().Snake)+1; got != want {
		t.Errorf("length after eating = %d, want %d", got, want)
	}
	if got := eating.State().Score - plain.State().Score; got != 10 {
		t.Errorf("score difference = %d, want 10", got)
	}
}

func TestRelocatedFoodIsNeverOnSnake(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()

	// cover the top 15 rows
	s.Snake = nil
	for row := 0; row < 15; row++ {
		for col := 0; col < 20; col++ {
			s.Snake = append(s.Snake, cell(col, row))
		}
	}

	for i := 0; i < 500; i++ {
		if err := g.relocateFood(); err != nil {
			t.Fatalf("relocateFood: %v", err)
		}
		if s.Occupies(s.Food.Cell) {
			t.Fatalf("food %v placed on the snake", s.Food.Cell)
		}
		if !g.Settings().InBounds(s.Food.Cell) {
			t.Fatalf("food %v off the board", s.Food.Cell)
		}
	}
}

func TestRelocateFoodFindsLastFreeCell(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()

	free := cell(13, 17)
	s.Snake = nil
	for row := 0; row < 20; row++ {
		for col := 0; col < 20; col++ {
			if c := cell(col, row); c != free {
				s.Snake = append(s.Snake, c)
			}
		}
	}

	if err := g.relocateFood(); err != nil {
		t.Fatalf("relocateFood: %v", err)
	}
	if s.Food.Cell != free {
		t.Errorf("food = %v, want %v", s.Food.Cell, free)
	}

	s.Snake = append(s.Snake, free)
	if err := g.relocateFood(); !errors.Is(err, ErrBoardFull) {
		t.Errorf("relocateFood on a full board = %v, want ErrBoardFull", err)
	}
}

func TestWallCollisionEndsGame(t *testing.T) {
	tests := []struct {
		name  string
		start structs.Cell
		dir   structs.Direction
	}{
		{"right", structs.Cell{X: 570, Y: 240}, structs.Right},
		{"left", structs.Cell{X: 0, Y: 240}, structs.Left},
		{"up", structs.Cell{X: 270, Y: 0}, structs.Up},
		{"down", structs.Cell{X: 270, Y: 570}, structs.Down},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rec := newTestGame(t)
			s := g.State()
			s.Snake = []structs.Cell{tt.start}
			s.Score = 30
			s.Food.Cell = cell(10, 10)

			g.Steer(tt.dir)
			if g.Tick() {
				t.Fatal("Tick should halt after hitting the wall")
			}
			if !s.GameOver || s.Direction != structs.None {
				t.Errorf("GameOver=%v Direction=%v", s.GameOver, s.Direction)
			}
			if rec.visual != Blurred || !rec.menuVisible {
				t.Errorf("visual=%v menu=%v, want blurred board and visible menu", rec.visual, rec.menuVisible)
			}
			if !reflect.DeepEqual(rec.final, []int{30}) {
				t.Errorf("final score shown %v, want [30]", rec.final)
			}
		})
	}
}

func TestLastValidCellIsNotAWall(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()
	s.Snake = []structs.Cell{{X: 540, Y: 570}}
	s.Food.Cell = cell(0, 0)

	g.Steer(structs.Right)
	if !g.Tick() {
		t.Fatal("(570, 570) is on the board")
	}
}

func TestSelfCollisionEndsGame(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()
	s.Snake = []structs.Cell{
		cell(2, 0), cell(2, 1), cell(1, 1), cell(1, 2), cell(2, 2), cell(3, 2), cell(3, 1),
	}
	s.Direction = structs.Up
	s.Food.Cell = cell(10, 10)

	g.Steer(structs.Left)
	if g.Tick() {
		t.Fatalf("head %v ran into its body %v", s.Head(), s.Snake)
	}
	if !s.GameOver {
		t.Error("GameOver not set")
	}
}

func TestCollisionScan(t *testing.T) {
	tests := []struct {
		name  string
		snake []structs.Cell
		want  bool
	}{
		{"single segment", []structs.Cell{cell(3, 3)}, false},
		{"neck overlap", []structs.Cell{cell(2, 0), cell(1, 0), cell(1, 0)}, false},
		{"body overlap", []structs.Cell{cell(1, 0), cell(2, 0), cell(2, 1), cell(1, 1), cell(1, 0)}, true},
		{"beyond limit", []structs.Cell{{X: 600, Y: 0}}, true},
		{"negative", []structs.Cell{{X: 0, Y: -30}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t)
			g.State().Snake = tt.snake
			if got := g.collided(); got != tt.want {
				t.Errorf("collided() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGameOverTickIsNoop(t *testing.T) {
	g, rec := newTestGame(t)
	s := g.State()
	s.Snake = []structs.Cell{{X: 570, Y: 0}}
	g.Steer(structs.Right)
	g.Tick()

	clears := rec.clears
	if g.Tick() {
		t.Error("Tick after game over should report false")
	}
	if rec.clears != clears {
		t.Error("Tick after game over should not render")
	}
	if g.Steer(structs.Down) {
		t.Error("Steer after game over should be ignored")
	}
}

func TestRestartAfterGameOver(t *testing.T) {
	g, rec := newTestGame(t)
	s := g.State()
	s.Snake = []structs.Cell{{X: 0, Y: 0}}
	s.Score = 50
	s.Food.Cell = cell(5, 5)
	g.Steer(structs.Up)
	g.Tick()

	g.Restart()

	if s.Score != 0 || s.Direction != structs.None || s.GameOver {
		t.Errorf("state after restart: %+v", s)
	}
	if want := []structs.Cell{{X: 270, Y: 240}}; !reflect.DeepEqual(s.Snake, want) {
		t.Errorf("Snake = %v, want %v", s.Snake, want)
	}
	if rec.visual != Normal || rec.menuVisible {
		t.Errorf("visual=%v menu=%v after restart", rec.visual, rec.menuVisible)
	}
	if s.Food.Cell != cell(5, 5) {
		t.Errorf("food moved to %v on restart", s.Food.Cell)
	}
	if last := rec.shown[len(rec.shown)-1]; last != 0 {
		t.Errorf("score display shows %d after restart", last)
	}
	if !g.Tick() {
		t.Error("game should tick again after restart")
	}
}

func TestRestartMovesFoodOffStartCell(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()
	s.Snake = []structs.Cell{cell(0, 0)}
	s.Food.Cell = g.Settings().Start

	g.Restart()

	if s.Food.Cell == g.Settings().Start {
		t.Error("food left under the restarted snake")
	}
}

func TestSnapshotRestore(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()
	s.Snake = []structs.Cell{cell(1, 1), cell(2, 1)}
	s.Direction = structs.Right
	s.Score = 20
	s.Food = structs.Food{Cell: cell(7, 7), Color: structs.Color{R: 1, G: 2, B: 3}}
	snap := g.Snapshot()

	other, rec := newTestGame(t)
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := other.Snapshot(); !reflect.DeepEqual(got, snap) {
		t.Errorf("restored snapshot = %+v, want %+v", got, snap)
	}
	if !reflect.DeepEqual(rec.shown, []int{20}) {
		t.Errorf("score shown %v, want [20]", rec.shown)
	}

	snap.Snake = nil
	if err := other.Restore(snap); err == nil {
		t.Error("Restore accepted an empty snake")
	}
}

func TestRestoreGameOverShowsMenu(t *testing.T) {
	g, rec := newTestGame(t)
	snap := g.Snapshot()
	snap.GameOver = true
	snap.Score = 40

	if err := g.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !rec.menuVisible || rec.visual != Blurred {
		t.Error("restored game-over should show the menu on a blurred board")
	}
	if rec.presents != 1 {
		t.Errorf("restored board presented %d times, want 1", rec.presents)
	}
	if g.Tick() {
		t.Error("restored game-over should not tick")
	}
}

func TestAbortTurnsFaultIntoGameOver(t *testing.T) {
	g, rec := newTestGame(t)
	g.Abort("boom")

	if !g.State().GameOver {
		t.Error("Abort should end the game")
	}
	if !rec.menuVisible {
		t.Error("Abort should show the menu")
	}
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero cell", func(s *Settings) { s.CellSize = 0 }},
		{"ragged board", func(s *Settings) { s.BoardSize = 610 }},
		{"unaligned start", func(s *Settings) { s.Start.X = 271 }},
		{"start off board", func(s *Settings) { s.Start.Y = 600 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.modify(&settings)
			if _, err := New(settings, View{}, nil); err == nil {
				t.Error("New accepted invalid settings")
			}
		})
	}
}

func TestSteerChecksCommittedDirection(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()
	s.Food.Cell = cell(0, 0)
	s.Direction = structs.Right

	if !g.Steer(structs.Up) {
		t.Fatal("Steer(up) rejected while moving right")
	}
	if g.Steer(structs.Left) {
		t.Error("Steer(left) accepted while the committed direction is right")
	}
	if s.Pending != structs.Up {
		t.Errorf("Pending = %v after a rejected key, want up", s.Pending)
	}

	g.Tick()
	if s.Direction != structs.Up || s.Pending != structs.None {
		t.Errorf("after tick direction=%v pending=%v, want up and none", s.Direction, s.Pending)
	}
	if got := s.Head(); got != (structs.Cell{X: 270, Y: 210}) {
		t.Errorf("head = %v, want (270,210)", got)
	}
}

func TestSteerLastValidKeyWins(t *testing.T) {
	g, _ := newTestGame(t)
	s := g.State()
	s.Food.Cell = cell(0, 0)
	s.Direction = structs.Right

	// down reverses the pending up, not the committed right
	if !g.Steer(structs.Up) || !g.Steer(structs.Down) {
		t.Fatal("both keys should be taken while moving right")
	}
	if s.Pending != structs.Down {
		t.Fatalf("Pending = %v, want down", s.Pending)
	}

	g.Tick()
	if got := s.Head(); got != (structs.Cell{X: 270, Y: 270}) {
		t.Errorf("head = %v, want (270,270)", got)
	}
}

type foodRecorder struct {
	*recorder
	foods []structs.Food
}

func (f *foodRecorder) DrawFood(cell structs.Cell, color structs.Color) {
	f.foods = append(f.foods, structs.Food{Cell: cell, Color: color})
}

func TestFoodRendererDrawsFood(t *testing.T) {
	rec := &recorder{}
	fr := &foodRecorder{recorder: rec}
	view := View{Renderer: fr, Audio: rec, Score: rec, Menu: menuRecorder{rec}}
	g, err := New(DefaultSettings(), view, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	g.Tick()
	if len(fr.foods) != 1 || fr.foods[0] != g.State().Food {
		t.Errorf("DrawFood calls = %v, want the current food", fr.foods)
	}
	for _, c := range rec.cells {
		if c == g.State().Food.Cell {
			t.Error("food also drawn as a plain cell")
		}
	}
}

package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/hoshinonyaruko/snake-fruits/snake"
	"github.com/hoshinonyaruko/snake-fruits/structs"
)

const (
	// each board cell is two columns wide so cells look square
	cellWidth = 2
	originX   = 1
	originY   = 1
)

var defaultStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)

// Screen draws the board on a tcell screen.
// It implements snake.Renderer; Scoreboard and Menu expose the other collaborators.
type Screen struct {
	screen   tcell.Screen
	cells    int
	cellSize int
	visual   snake.VisualState
	score    int
	final    int
	menu     bool
}

// New creates a renderer for a board of boardSize units split into cellSize cells.
func New(screen tcell.Screen, boardSize, cellSize int) *Screen {
	return &Screen{
		screen:   screen,
		cells:    boardSize / cellSize,
		cellSize: cellSize,
	}
}

// View bundles the screen as renderer, score display and menu.
func (s *Screen) View() snake.View {
	return snake.View{
		Renderer: s,
		Score:    Scoreboard{s},
		Menu:     Menu{s},
	}
}

func rgb(c structs.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (s *Screen) Clear() {
	s.screen.SetStyle(defaultStyle)
	s.screen.Clear()
}

// DrawGridLines draws the board frame and a dot in every cell; a terminal has no room for lines.
func (s *Screen) DrawGridLines(boardSize, cellSize int) {
	cells := boardSize / cellSize
	width := cells * cellWidth
	frame := defaultStyle.Foreground(tcell.ColorGray)
	grid := defaultStyle.Foreground(rgb(snake.GridColor))

	for x := 0; x < width; x++ {
		s.screen.SetContent(originX+x, originY-1, tcell.RuneHLine, nil, frame)
		s.screen.SetContent(originX+x, originY+cells, tcell.RuneHLine, nil, frame)
	}
	for y := 0; y < cells; y++ {
		s.screen.SetContent(originX-1, originY+y, tcell.RuneVLine, nil, frame)
		s.screen.SetContent(originX+width, originY+y, tcell.RuneVLine, nil, frame)
		for x := 0; x < cells; x++ {
			s.screen.SetContent(originX+x*cellWidth, originY+y, '·', nil, grid)
		}
	}
	s.screen.SetContent(originX-1, originY-1, tcell.RuneULCorner, nil, frame)
	s.screen.SetContent(originX+width, originY-1, tcell.RuneURCorner, nil, frame)
	s.screen.SetContent(originX-1, originY+cells, tcell.RuneLLCorner, nil, frame)
	s.screen.SetContent(originX+width, originY+cells, tcell.RuneLRCorner, nil, frame)
}

// DrawCell fills a cell. Cells off the board, like a head that went through the wall, are skipped.
func (s *Screen) DrawCell(cell structs.Cell, color structs.Color) {
	col, row := cell.X/s.cellSize, cell.Y/s.cellSize
	if cell.X < 0 || cell.Y < 0 || col >= s.cells || row >= s.cells {
		return
	}
	style := defaultStyle.Foreground(rgb(color))
	for i := 0; i < cellWidth; i++ {
		s.screen.SetContent(originX+col*cellWidth+i, originY+row, '█', nil, style)
	}
}

func (s *Screen) SetBoardVisualState(state snake.VisualState) {
	s.visual = state
}

// Present dims the board when paused, draws the status line and the menu, then shows the frame.
func (s *Screen) Present() {
	width := s.cells * cellWidth
	if s.visual == snake.Blurred {
		for y := 0; y < s.cells; y++ {
			for x := 0; x < width; x++ {
				mainc, combc, style, _ := s.screen.GetContent(originX+x, originY+y)
				s.screen.SetContent(originX+x, originY+y, mainc, combc, style.Dim(true))
			}
		}
	}

	status := originY + s.cells + 1
	s.drawText(originX, status, defaultStyle, fmt.Sprintf("SCORE %02d", s.score))
	s.drawText(originX+width-24, status, defaultStyle.Foreground(tcell.ColorGray), "arrows/wasd  enter  q")

	if s.menu {
		lines := []string{
			"      GAME OVER       ",
			fmt.Sprintf("   FINAL SCORE %02d    ", s.final),
			" ENTER play  q quit   ",
		}
		top := originY + s.cells/2 - len(lines)/2
		for i, line := range lines {
			left := originX + (width-len(line))/2
			s.drawText(left, top+i, defaultStyle.Reverse(true), line)
		}
	}

	s.screen.Show()
}

func (s *Screen) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Scoreboard is the score display of a Screen.
type Scoreboard struct{ s *Screen }

func (b Scoreboard) Show(score int) { b.s.score = score }
func (b Scoreboard) ShowFinal(score int) { b.s.final = score }

// Menu is the game-over menu of a Screen.
type Menu struct{ s *Screen }

func (m Menu) Show() { m.s.menu = true }
func (m Menu) Hide() { m.s.menu = false }

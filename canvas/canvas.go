// 使用 gg 把棋盘绘制成图片
package canvas

import (
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/hoshinonyaruko/snake-fruits/memimg"
	"github.com/hoshinonyaruko/snake-fruits/snake"
	"github.com/hoshinonyaruko/snake-fruits/structs"
	"golang.org/x/image/font/basicfont"
)

const (
	// StatusHeight is the strip under the board that carries the score.
	StatusHeight = 30
	// BlurSigma matches the 2px blur of the paused board.
	BlurSigma = 2.0
	// GlowSigma is the soft halo drawn around food in its own color.
	GlowSigma = 3.0
)

// Board renders frames into images and publishes every finished frame.
// It implements snake.Renderer; Scoreboard and Menu expose the other collaborators.
type Board struct {
	boardSize int
	cellSize  int
	dc        *gg.Context
	visual    snake.VisualState
	score     int
	final     int
	menu      bool

	// Publish receives every presented frame. It defaults to memimg.StoreFrame.
	Publish func(image.Image) error
}

// New creates a board of boardSize x boardSize units plus the status strip.
func New(boardSize, cellSize int) *Board {
	b := &Board{
		boardSize: boardSize,
		cellSize:  cellSize,
		Publish:   memimg.StoreFrame,
	}
	b.Clear()
	return b
}

// View bundles the board as renderer, score display and menu.
func (b *Board) View() snake.View {
	return snake.View{
		Renderer: b,
		Score:    Scoreboard{b},
		Menu:     Menu{b},
	}
}

func (b *Board) Clear() {
	b.dc = gg.NewContext(b.boardSize, b.boardSize+StatusHeight)
	b.dc.SetRGB255(0, 0, 0)
	b.dc.Clear()
}

func (b *Board) DrawGridLines(boardSize, cellSize int) {
	b.dc.SetLineWidth(1)
	b.dc.SetRGB255(int(snake.GridColor.R), int(snake.GridColor.G), int(snake.GridColor.B))
	for i := cellSize; i < boardSize; i += cellSize {
		// 竖线
		b.dc.DrawLine(float64(i), 0, float64(i), float64(boardSize))
		b.dc.Stroke()
		// 横线
		b.dc.DrawLine(0, float64(i), float64(boardSize), float64(i))
		b.dc.Stroke()
	}
}

func (b *Board) DrawCell(cell structs.Cell, color structs.Color) {
	size := float64(b.cellSize)
	b.dc.SetRGB255(int(color.R), int(color.G), int(color.B))
	b.dc.DrawRectangle(float64(cell.X), float64(cell.Y), size, size)
	b.dc.Fill()
}

// DrawFood draws the food cell over a blurred halo of the same color.
func (b *Board) DrawFood(cell structs.Cell, color structs.Color) {
	pad := int(2 * GlowSigma)
	side := b.cellSize + 2*pad
	glow := gg.NewContext(side, side)
	glow.SetRGB255(int(color.R), int(color.G), int(color.B))
	glow.DrawRectangle(float64(pad), float64(pad), float64(b.cellSize), float64(b.cellSize))
	glow.Fill()

	b.dc.DrawImage(imaging.Blur(glow.Image(), GlowSigma), cell.X-pad, cell.Y-pad)
	b.DrawCell(cell, color)
}

func (b *Board) SetBoardVisualState(state snake.VisualState) {
	b.visual = state
}

// Present finishes the frame: blur when paused, draw the score strip and the menu, publish.
func (b *Board) Present() {
	var frame image.Image = b.dc.Image()
	if b.visual == snake.Blurred {
		frame = imaging.Blur(frame, BlurSigma)
	}

	out := gg.NewContextForImage(frame)
	out.SetFontFace(basicfont.Face7x13)

	// 分数栏
	out.SetRGB255(0, 0, 0)
	out.DrawRectangle(0, float64(b.boardSize), float64(b.boardSize), StatusHeight)
	out.Fill()
	out.SetRGB255(255, 255, 255)
	out.DrawStringAnchored(fmt.Sprintf("SCORE %02d", b.score), 10, float64(b.boardSize)+StatusHeight/2, 0, 0.5)

	if b.menu {
		mid := float64(b.boardSize) / 2
		out.SetRGBA255(0, 0, 0, 180)
		out.DrawRectangle(mid-110, mid-50, 220, 100)
		out.Fill()
		out.SetRGB255(255, 255, 255)
		out.DrawStringAnchored("GAME OVER", mid, mid-25, 0.5, 0.5)
		out.DrawStringAnchored(fmt.Sprintf("FINAL SCORE %02d", b.final), mid, mid, 0.5, 0.5)
		out.DrawStringAnchored("PLAY AGAIN: /play", mid, mid+25, 0.5, 0.5)
	}

	if b.Publish == nil {
		return
	}
	if err := b.Publish(out.Image()); err != nil {
		log.Printf("publish frame: %v", err)
	}
}

// Scoreboard is the score display of a Board.
type Scoreboard struct{ b *Board }

func (s Scoreboard) Show(score int) { s.b.score = score }
func (s Scoreboard) ShowFinal(score int) { s.b.final = score }

// Menu is the game-over menu of a Board.
type Menu struct{ b *Board }

func (m Menu) Show() { m.b.menu = true }
func (m Menu) Hide() { m.b.menu = false }

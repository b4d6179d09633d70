package snake

import "github.com/hoshinonyaruko/snake-fruits/structs"

var keyDirections = map[string]structs.Direction{
	"ArrowUp":    structs.Up,
	"ArrowDown":  structs.Down,
	"ArrowLeft":  structs.Left,
	"ArrowRight": structs.Right,
	"w":          structs.Up,
	"s":          structs.Down,
	"a":          structs.Left,
	"d":          structs.Right,
	"up":         structs.Up,
	"down":       structs.Down,
	"left":       structs.Left,
	"right":      structs.Right,
}

// KeyDirection maps a key identifier to a direction. ok is false for non-directional keys.
func KeyDirection(key string) (d structs.Direction, ok bool) {
	d, ok = keyDirections[key]
	return d, ok
}

// Steer fills the pending direction slot unless d reverses the committed direction.
// It reports whether the request was taken. Input is ignored while the game is over.
func (g *Game) Steer(d structs.Direction) bool {
	if g.state.GameOver || d == structs.None {
		return false
	}
	if d.IsOpposite(g.state.Direction) {
		return false
	}
	g.state.Pending = d
	return true
}

// HandleKey steers by key identifier.
func (g *Game) HandleKey(key string) bool {
	d, ok := KeyDirection(key)
	if !ok {
		return false
	}
	return g.Steer(d)
}

package app

import "aberled/matrix"

type dir uint8

const (
	dirUp dir = iota
	dirRight
	dirDown
	dirLeft
)

type point struct {
	x int
	y int
}

const cells = matrix.Size * matrix.Size

// buttonReader is the part of the engine the game reads input from.
type buttonReader interface {
	WentDown(b matrix.Button) bool
}

// labeler is the part of the engine the game writes its score to.
type labeler interface {
	ClearText()
	AppendText(s string)
	AppendInt(n int)
}

// snakeGame is snake on the 8x8 grid with wraparound edges.
//
// The body lives in a fixed array, head first, so a step never allocates.
type snakeGame struct {
	keys matrix.Buttons

	body    [cells]point
	n       int
	headDir dir
	nextDir dir

	food point
	rng  uint32
	seed uint32

	score  int
	alive  bool
	paused bool

	// Ticks accumulated since the last step.
	acc       int
	baseTicks int
	minTicks  int
}

// newSnakeGame returns a game whose speed is expressed in refresh ticks at hz.
func newSnakeGame(keys matrix.Buttons, hz int, seed uint32) *snakeGame {
	if hz <= 0 {
		hz = 1
	}
	g := &snakeGame{
		keys:      keys,
		seed:      seed,
		baseTicks: hz / 3,
		minTicks:  hz / 12,
	}
	if g.minTicks < 1 {
		g.minTicks = 1
	}
	if g.baseTicks < g.minTicks {
		g.baseTicks = g.minTicks
	}
	g.reset()
	return g
}

func (g *snakeGame) reset() {
	start := point{x: matrix.Size / 2, y: matrix.Size / 2}
	g.n = 3
	g.body[0] = start
	g.body[1] = point{x: start.x - 1, y: start.y}
	g.body[2] = point{x: start.x - 2, y: start.y}
	g.headDir = dirRight
	g.nextDir = dirRight
	g.score = 0
	g.alive = true
	g.paused = false
	g.acc = 0
	g.rng = g.seed
	g.spawnFood()
}

func (g *snakeGame) stepTicks() int {
	interval := g.baseTicks - g.score*g.baseTicks/16
	if interval < g.minTicks {
		interval = g.minTicks
	}
	return interval
}

// update applies input from the last exchange and advances the game by
// ticks refresh periods.
func (g *snakeGame) update(in buttonReader, ticks int) {
	if in.WentDown(g.keys.Fire) {
		if !g.alive {
			g.reset()
			return
		}
		g.paused = !g.paused
	}
	if !g.alive || g.paused {
		return
	}

	switch {
	case in.WentDown(g.keys.Up):
		g.turn(dirUp)
	case in.WentDown(g.keys.Down):
		g.turn(dirDown)
	case in.WentDown(g.keys.Left):
		g.turn(dirLeft)
	case in.WentDown(g.keys.Right):
		g.turn(dirRight)
	}

	g.acc += ticks
	if g.acc < g.stepTicks() {
		return
	}
	g.acc = 0
	g.step()
}

// turn queues a direction change. Reversing onto the body is ignored.
func (g *snakeGame) turn(d dir) {
	if (g.headDir == dirUp && d == dirDown) ||
		(g.headDir == dirDown && d == dirUp) ||
		(g.headDir == dirLeft && d == dirRight) ||
		(g.headDir == dirRight && d == dirLeft) {
		return
	}
	g.nextDir = d
}

func (g *snakeGame) step() {
	if !g.alive || g.n == 0 {
		return
	}

	g.headDir = g.nextDir
	next := g.body[0]
	switch g.headDir {
	case dirUp:
		next.y--
	case dirDown:
		next.y++
	case dirLeft:
		next.x--
	case dirRight:
		next.x++
	}
	next.x = (next.x + matrix.Size) % matrix.Size
	next.y = (next.y + matrix.Size) % matrix.Size

	willEat := next == g.food
	check := g.n
	if !willEat {
		// The tail moves out of the way this step.
		check--
	}
	for i := 0; i < check; i++ {
		if g.body[i] == next {
			g.alive = false
			return
		}
	}

	keep := g.n
	if willEat {
		keep++
	}
	if keep > cells {
		keep = cells
	}
	copy(g.body[1:keep], g.body[:keep-1])
	g.body[0] = next
	g.n = keep

	if willEat {
		g.score++
		if g.n == cells {
			// Board full.
			g.alive = false
			return
		}
		g.spawnFood()
	}
}

// spawnFood picks a random free cell, probing forward from a random start.
func (g *snakeGame) spawnFood() {
	g.rng = xorshift32(g.rng)
	start := int(g.rng % cells)
	for i := 0; i < cells; i++ {
		idx := (start + i) % cells
		p := point{x: idx % matrix.Size, y: idx / matrix.Size}
		if !g.occupied(p) {
			g.food = p
			return
		}
	}
}

func (g *snakeGame) occupied(p point) bool {
	for i := 0; i < g.n; i++ {
		if g.body[i] == p {
			return true
		}
	}
	return false
}

func xorshift32(x uint32) uint32 {
	if x == 0 {
		x = 0x6d2b79f5
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

// draw repaints the whole frame.
func (g *snakeGame) draw(f *matrix.Frame) {
	f.Clear()
	if g.alive && g.n < cells {
		f.Set(g.food.x, g.food.y, matrix.Red)
	}
	for i := g.n - 1; i >= 0; i-- {
		c := matrix.Green
		if i == 0 {
			c = matrix.Yellow
		}
		f.Set(g.body[i].x, g.body[i].y, c)
	}
}

// label writes the status line.
func (g *snakeGame) label(l labeler) {
	l.ClearText()
	switch {
	case !g.alive:
		l.AppendText("Game over ")
	case g.paused:
		l.AppendText("Paused ")
	default:
		l.AppendText("Score: ")
	}
	l.AppendInt(g.score)
}

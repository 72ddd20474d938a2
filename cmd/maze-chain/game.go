package main

import (
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/maze-chain/audio"
	"github.com/lixenwraith/maze-chain/chain"
	"github.com/lixenwraith/maze-chain/collectible"
	"github.com/lixenwraith/maze-chain/event"
	"github.com/lixenwraith/maze-chain/feed"
	"github.com/lixenwraith/maze-chain/maze"
	"github.com/lixenwraith/maze-chain/parameter"
	"github.com/lixenwraith/maze-chain/status"
)

var (
	styleWall    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleAnchor  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleItem    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePath    = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleMessage = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Game is the terminal host driving one chain session
// All fields are owned by the host loop goroutine except metrics
type Game struct {
	screen  tcell.Screen
	session *chain.Session
	router  *event.Router[*Game]
	sound   *audio.Player
	hub     *feed.Hub

	// metrics tracks the live session registry for the feed's HTTP goroutines
	metrics atomic.Pointer[status.Registry]

	segment int
	cell    maze.Point

	score        int
	timeLeft     time.Duration
	elapsed      time.Duration
	dashUntil    time.Duration
	compassUntil time.Duration

	message      string
	messageUntil time.Duration
	over         bool
}

// NewGame binds a host to session; sound and hub may be nil
func NewGame(screen tcell.Screen, session *chain.Session, sound *audio.Player, hub *feed.Hub) (*Game, error) {
	g := &Game{screen: screen, sound: sound, hub: hub}
	if err := g.bind(session); err != nil {
		return nil, err
	}
	return g, nil
}

// bind installs host callbacks on session and places the player in segment 0
func (g *Game) bind(session *chain.Session) error {
	g.session = session
	g.metrics.Store(session.Metrics)

	g.router = event.NewRouter[*Game](session.Events)
	g.router.Register(event.HandlerFunc[*Game]{
		Types: []event.Type{event.EventPlayerEnteredSegment, event.EventCrossingFailed},
		Fn:    (*Game).handleChainEvent,
	})
	if g.sound != nil {
		g.router.Register(audio.Handler[*Game](g.sound))
	}
	if g.hub != nil {
		g.router.Register(feed.Handler[*Game](g.hub))
	}

	session.Crossing.SetTeleporter(g)
	session.Crossing.SetEffectApplier(g.applyEffect)

	g.score = 0
	g.timeLeft = parameter.HostStartTime
	g.elapsed = 0
	g.dashUntil = 0
	g.compassUntil = 0
	g.over = false

	if _, err := session.Start(); err != nil {
		return err
	}
	g.say(fmt.Sprintf("seed %d", session.Chain.Seed()))
	return nil
}

// restart replaces the session with a fresh one on the next seed
func (g *Game) restart() {
	next, err := g.session.Restart()
	if err != nil {
		log.Printf("host: restart failed: %v", err)
		g.say("restart failed")
		return
	}
	if err := g.bind(next); err != nil {
		log.Printf("host: restart failed: %v", err)
		g.say("restart failed")
	}
}

// Teleport moves the player to the world position computed by the coordinator
func (g *Game) Teleport(index int, pos chain.Vec2) {
	seg, ok := g.session.Chain.Segment(index)
	if !ok {
		log.Printf("host: teleport into unknown segment %d", index)
		return
	}
	cell, ok := seg.CellAt(pos)
	if !ok {
		log.Printf("host: teleport position %v outside segment %d", pos, index)
		return
	}
	g.segment = index
	g.cell = cell
}

func (g *Game) applyEffect(t collectible.ItemType, value float64) {
	span := time.Duration(value * float64(time.Second))
	switch t {
	case collectible.ItemCoin, collectible.ItemGem:
		g.score += int(value)
		g.say(fmt.Sprintf("+%d %s", int(value), t))
	case collectible.ItemHourglass:
		g.timeLeft += span
		g.say(fmt.Sprintf("+%.0fs", value))
	case collectible.ItemBoots:
		g.dashUntil = g.elapsed + span
		g.say("dash")
	case collectible.ItemCompass:
		g.compassUntil = g.elapsed + span
		g.say("compass")
	}
}

func (g *Game) handleChainEvent(ev event.Event) {
	switch p := ev.Payload.(type) {
	case *event.PlayerEnteredPayload:
		g.say(fmt.Sprintf("segment %d", p.Index))
	case *event.CrossingFailedPayload:
		g.say("the way ahead is blocked")
	}
}

func (g *Game) say(msg string) {
	g.message = msg
	g.messageUntil = g.elapsed + parameter.MessageDuration
}

func (g *Game) current() *chain.Segment {
	seg, _ := g.session.Chain.Segment(g.segment)
	return seg
}

// move steps the player one cell, or slides to the next wall while dashing
// Leaving the exit cell downward signals the crossing for the next tick
func (g *Game) move(d maze.Direction) {
	if g.over {
		return
	}
	seg := g.current()
	if seg == nil {
		return
	}

	steps := 1
	if g.elapsed < g.dashUntil {
		steps = parameter.MaxDashSteps
	}
	for i := 0; i < steps; i++ {
		if g.cell == seg.Exit && d == maze.Down && seg.Grid.At(seg.Exit).Open(maze.Down) {
			g.session.Crossing.SignalExitReached(g.segment)
			return
		}
		if !seg.Grid.CanMove(g.cell, d) {
			return
		}
		g.cell = g.cell.Step(d)
		g.session.Crossing.Overlap(g.segment, g.cell)
	}
}

// tick advances host time, resolves queued crossings and dispatches chain events
func (g *Game) tick(dt time.Duration) {
	if !g.over {
		g.elapsed += dt
		g.timeLeft -= dt
		if g.timeLeft <= 0 {
			g.timeLeft = 0
			g.over = true
			g.say("out of time, r to restart")
		}
	}

	if _, err := g.session.Crossing.Update(); err != nil {
		log.Printf("host: crossing: %v", err)
	}
	g.router.DispatchAll(g)
	g.session.Metrics.Ints.Get("event.dropped").Store(int64(g.session.Events.Dropped()))
}

// handleInput returns false when the player quits
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return true
}

func (g *Game) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		g.move(maze.Up)
	case tcell.KeyDown:
		g.move(maze.Down)
	case tcell.KeyLeft:
		g.move(maze.Left)
	case tcell.KeyRight:
		g.move(maze.Right)
	case tcell.KeyRune:
		switch r {
		case 'q':
			return false
		case 'k', 'w':
			g.move(maze.Up)
		case 'j', 's':
			g.move(maze.Down)
		case 'h', 'a':
			g.move(maze.Left)
		case 'l', 'd':
			g.move(maze.Right)
		case 'r':
			g.restart()
		}
	}
	return true
}

// canvasCell maps a grid cell to its position in Grid.Render output
func canvasCell(p maze.Point) (int, int) {
	return 2*p.X + 1, 2*p.Y + 1
}

func (g *Game) draw() {
	g.screen.Clear()
	width, height := g.screen.Size()
	seg := g.current()
	if seg == nil {
		g.screen.Show()
		return
	}

	var path []maze.Point
	if g.elapsed < g.compassUntil {
		path = seg.Grid.Path(g.cell, seg.Exit)
	}

	rows := seg.Render()
	for y, row := range rows {
		if y >= height-1 {
			break
		}
		x := 0
		for _, r := range row {
			if x >= width {
				break
			}
			style := styleWall
			switch {
			case r == 'S' || r == 'E':
				style = styleAnchor
			case r != maze.WallRune && r != maze.PassageRune:
				style = styleItem
			}
			g.screen.SetContent(x, y, r, nil, style)
			x++
		}
	}

	for _, p := range path {
		if _, ok := seg.Collectibles[p]; ok || p == seg.Exit {
			continue
		}
		x, y := canvasCell(p)
		g.screen.SetContent(x, y, '·', nil, stylePath)
	}

	px, py := canvasCell(g.cell)
	g.screen.SetContent(px, py, '@', nil, stylePlayer)

	g.drawStatus(width, height)
	g.screen.Show()
}

func (g *Game) drawStatus(width, height int) {
	seg := g.current()
	flags := ""
	if g.elapsed < g.dashUntil {
		flags += " [dash]"
	}
	if g.elapsed < g.compassUntil {
		flags += " [compass]"
	}
	line := fmt.Sprintf(" segment %d  size %d  score %d  time %ds  generated %d%s ",
		g.segment, seg.Size, g.score, int(g.timeLeft.Seconds()), g.session.Chain.GeneratedCount(), flags)

	y := height - 1
	for x := 0; x < width; x++ {
		g.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	x := 0
	for _, r := range line {
		if x >= width {
			return
		}
		g.screen.SetContent(x, y, r, nil, styleStatus)
		x++
	}
	if g.elapsed < g.messageUntil {
		for _, r := range " " + g.message {
			if x >= width {
				return
			}
			g.screen.SetContent(x, y, r, nil, styleMessage.Background(tcell.ColorSilver))
			x++
		}
	}
}

// snapshot merges the live session metrics with host-level metrics for the feed
func (g *Game) snapshot(host *status.Registry) func() map[string]any {
	return func() map[string]any {
		out := g.metrics.Load().Snapshot()
		for k, v := range host.Snapshot() {
			out[k] = v
		}
		return out
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/maze-chain/audio"
	"github.com/lixenwraith/maze-chain/chain"
	"github.com/lixenwraith/maze-chain/config"
	"github.com/lixenwraith/maze-chain/feed"
	"github.com/lixenwraith/maze-chain/status"
)

var (
	configFlag = flag.String("config", "", "Path to a YAML config file")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/maze-chain.log")
	seedFlag   = flag.Int64("seed", 0, "Session seed, 0 keeps the configured value")
	feedFlag   = flag.Bool("feed", false, "Serve the spectator feed")
	muteFlag   = flag.Bool("mute", false, "Disable audio cues")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *seedFlag != 0 {
		cfg.Chain.Seed = *seedFlag
	}
	if *feedFlag {
		cfg.Feed.Enabled = true
	}
	if *muteFlag {
		cfg.Audio.Enabled = false
	}

	logDir = cfg.Logging.Dir
	logFileName = cfg.Logging.File
	maxLogSize = cfg.Logging.MaxSize
	if logFile := setupLogging(*debugFlag || cfg.Logging.Debug); logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "maze-chain: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	session, err := chain.NewSession(cfg.Chain)
	if err != nil {
		return err
	}

	hostMetrics := status.NewRegistry()

	sound := audio.NewPlayer(cfg.Audio.SampleRate, cfg.Audio.Volume, hostMetrics)
	if cfg.Audio.Enabled {
		if err := sound.Init(); err != nil {
			// Non-fatal, the game runs silent
			log.Printf("host: audio unavailable: %v", err)
		}
		defer sound.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hub *feed.Hub
	if cfg.Feed.Enabled {
		hub = feed.NewHub(hostMetrics, cfg.Feed.WriteTimeout, cfg.Feed.PingInterval)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mMAZE-CHAIN CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	g, err := NewGame(screen, session, sound, hub)
	if err != nil {
		return err
	}

	if hub != nil {
		hub.SetSnapshot(g.snapshot(hostMetrics))
		go func() {
			if err := hub.Serve(ctx, cfg.Feed.Addr); err != nil {
				log.Printf("host: feed stopped: %v", err)
			}
		}()
		log.Printf("host: feed listening on %s", cfg.Feed.Addr)
	}

	g.run(cfg.Host.TickInterval, cfg.Host.FrameInterval)
	return nil
}

// run is the host loop: input is applied immediately, crossings resolve on tick boundaries
func (g *Game) run(tickInterval, frameInterval time.Duration) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			g.tick(now.Sub(last))
			last = now

		case <-frameTicker.C:
			g.draw()
		}
	}
}

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"github.com/lixenwraith/beltwaltz/audio"
	"github.com/lixenwraith/beltwaltz/core"
	"github.com/lixenwraith/beltwaltz/engine"
	"github.com/lixenwraith/beltwaltz/level"
	"github.com/lixenwraith/beltwaltz/session"
	"github.com/lixenwraith/beltwaltz/status"
)

const (
	frameInterval    = 33 * time.Millisecond
	autoplayInterval = 120 * time.Millisecond
)

var (
	gameFlag     = flag.String("game", "sort", "Game to start: sort, belt")
	levelFlag    = flag.Int("level", 1, "Level number to start, 1-based")
	levelsFlag   = flag.String("levels", "", "Level catalog TOML file, embedded catalog when empty")
	mutedFlag    = flag.Bool("muted", false, "Start with the music muted")
	autoplayFlag = flag.Bool("autoplay", false, "Let the greedy player sort cubes")
	logFlag      = flag.String("log", "beltwaltz.log", "Log file path")
	logLevelFlag = flag.String("log-level", "", "Log level: debug, info, warn, error (env BELTWALTZ_LOG_LEVEL)")
)

func main() {
	flag.Parse()

	logFile, err := setupLogging(*logFlag, *logLevelFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	kind, err := session.ParseKind(*gameFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	catalog, err := loadCatalog(*levelsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "levels: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	// Crash reports from any goroutine restore the terminal first
	core.SetCrashHook(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	defer screen.Fini()

	reg := status.NewRegistry()
	loop := engine.NewLoop(engine.DefaultQueueSize, reg)
	loop.Start()
	defer loop.Stop()

	out := audio.NewOutput(audio.LoadConfig())
	defer out.Close()

	sess := session.New(session.Config{
		Catalog:  catalog,
		Ticker:   loop,
		Synth:    out,
		Audio:    out,
		Registry: reg,
		Muted:    *mutedFlag,
	})
	defer loop.Do(sess.Close)

	ctl := newController(sess)
	loop.Do(func() {
		if err := sess.SelectLevel(kind, *levelFlag-1); err != nil {
			log.WithError(err).Warn("start level")
		}
	})

	if *autoplayFlag {
		cancel := loop.Every(autoplayInterval, func() { sess.AutoPick() })
		defer cancel()
	}

	view := newView(screen, reg)
	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	})

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	log.WithFields(log.Fields{"game": kind, "level": *levelFlag, "autoplay": *autoplayFlag}).Info("beltwaltz started")
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				quit := false
				loop.Do(func() { quit = !ctl.handleKey(ev) })
				if quit {
					log.Info("quit")
					return
				}
			}

		case <-frames.C:
			loop.Do(func() { view.draw(sess, ctl) })
			screen.Show()
		}
	}
}

func loadCatalog(path string) (*level.Catalog, error) {
	if path == "" {
		return level.Default()
	}
	return level.Load(path)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ayusman/posejump/internal/game"
	"github.com/ayusman/posejump/internal/server"
	"github.com/ayusman/posejump/internal/tray"
)

// errQuit ends the game loop on a user request.
var errQuit = errors.New("quit requested")

// Run opens the window, starts the pipeline and the optional server and
// tray, then runs the game loop until ctx is cancelled or the user quits.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.display == nil {
		a.display = NewWindowDisplay(a.screen(), a.config.Fullscreen)
	}
	defer a.display.Close()

	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	defer a.Stop()

	if a.config.Sound {
		if err := a.player.Initialize(); err != nil {
			log.Printf("Audio not available: %v", err)
		}
	}

	if a.config.Addr != "" {
		srv := server.New(server.Config{
			Store:     a.config.Store,
			SessionID: a.session,
			Poses:     a.poses,
			Status:    a.Status,
		})
		go func() {
			log.Printf("Starting server on %s", a.config.Addr)
			if err := srv.ListenAndServe(a.config.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if a.config.Tray {
		a.tray = tray.New()
		a.tray.SetLevel(a.game.Level().Title())
		a.tray.SetSound(a.player.Enabled())
		a.tray.OnSkip(a.Skip)
		a.tray.OnSound(a.player.SetEnabled)
		a.tray.OnQuit(cancel)
		go a.tray.Run()
		defer a.tray.Quit()
	}

	err := a.runGame(ctx)
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

// runGame ticks the game at a fixed rate.
func (a *App) runGame(ctx context.Context) error {
	ticker := time.NewTicker(game.DefaultTickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := a.pollInput(); err != nil {
			return err
		}
		a.step()
	}
}

// pollInput handles window events. It returns errQuit on ESC, q or a
// closed window.
func (a *App) pollInput() error {
	switch a.display.PollKey() {
	case KeyEscape, KeyQuit:
		return errQuit
	case KeySkip:
		a.Skip()
	}
	if a.display.Closed() {
		return errQuit
	}
	return nil
}

// step runs one frame: take the latest pose, update the game, draw,
// present, then advance physics by one fixed tick.
func (a *App) step() game.TickResult {
	select {
	case <-a.skipCh:
		a.game.Advance(game.WinSkip)
	default:
	}

	snap, ok := a.poses.TryTake()
	res := a.game.Tick(snap, ok)

	a.game.Draw(a.display.Surface())
	a.display.Present()

	a.game.Step(game.DefaultTickPeriod.Seconds())
	a.publishStatus()
	return res
}

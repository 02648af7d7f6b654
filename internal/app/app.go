// Package app wires the camera, pose detector, game loop and the outer
// surfaces (window, HTTP server, tray, audio) into one running program.
package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/posejump/internal/audio"
	"github.com/ayusman/posejump/internal/capture"
	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/game"
	"github.com/ayusman/posejump/internal/level"
	"github.com/ayusman/posejump/internal/pose"
	"github.com/ayusman/posejump/internal/render"
	"github.com/ayusman/posejump/internal/store"
	"github.com/ayusman/posejump/internal/tray"
)

// Default window size.
const (
	DefaultScreenWidth  = 1280
	DefaultScreenHeight = 720
)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	Levels       *level.Set
	LevelsPath   string
	AssetsDir    string
	CameraID     int
	MotionThresh float64
	ScreenWidth  int
	ScreenHeight int
	Fullscreen   bool
	TTL          int
	Addr         string
	Sound        bool
	Tray         bool
	// Resume starts on the level that was playing when the last session
	// ended instead of the tutorial.
	Resume bool
	// Loader overrides the background image loader.
	Loader render.ImageLoader
}

// App owns the detection pipeline and the game. The game, its physics
// world and the display are only touched by the game loop goroutine.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	governor *capture.Governor
	detector detector.Detector
	poses    *pose.Handoff
	game     *game.Game
	display  Display
	player   *audio.Player
	tray     *tray.Tray
	session  string

	status atomic.Pointer[game.Status]
	skipCh chan struct{}
	mu     sync.RWMutex
	stopCh chan struct{}
	done   chan struct{}
}

// New validates config, loads every level asset and enters the first level.
func New(config Config) (*App, error) {
	if config.Levels == nil {
		return nil, level.ErrNoLevels
	}
	if config.ScreenWidth <= 0 || config.ScreenHeight <= 0 {
		config.ScreenWidth, config.ScreenHeight = DefaultScreenWidth, DefaultScreenHeight
	}
	if config.Loader == nil {
		config.Loader = render.MatLoader{Dir: config.AssetsDir}
	}

	screen := image.Pt(config.ScreenWidth, config.ScreenHeight)
	ctx := game.NewContext(screen, config.Levels, config.Loader)
	if config.TTL > 0 {
		ctx.TTL = config.TTL
	}

	g, err := game.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	camCfg := capture.DefaultConfig()
	camCfg.DeviceID = config.CameraID
	camCfg.FPS = capture.DefaultIdleFPS

	motionCfg := capture.DefaultMotionConfig()
	motionCfg.Threshold = config.MotionThresh

	a := &App{
		config:   config,
		camera:   capture.NewCamera(camCfg),
		motion:   capture.NewMotionDetector(motionCfg),
		governor: capture.NewGovernor(capture.DefaultIdleFPS, capture.DefaultActiveFPS, capture.DefaultIdleTimeout),
		poses:    pose.NewHandoff(),
		game:     g,
		player:   audio.NewPlayer(-1),
		skipCh:   make(chan struct{}, 1),
	}
	a.player.SetEnabled(config.Sound)
	g.OnLevelChange = a.onLevelChange

	if config.Store != nil {
		a.startSession()
	}
	a.publishStatus()

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a, nil
}

func (a *App) startSession() {
	sess, err := a.config.Store.Sessions().Start(a.config.LevelsPath)
	if err != nil {
		log.Printf("Failed to start session: %v", err)
		return
	}
	a.session = sess.ID

	if !a.config.Resume {
		return
	}
	name, err := a.config.Store.Settings().Get(store.SettingLastLevel)
	if err != nil {
		return
	}
	if l, ok := a.config.Levels.Lookup(name); ok {
		a.game.LoadLevel(l.Index)
		log.Printf("Resuming at %s", l.Name)
	}
}

// onLevelChange runs on the game loop after every transition.
func (a *App) onLevelChange(c game.Change) {
	log.Printf("Level %s finished by %s in %v, loading %s", c.From, c.Method, c.Duration.Round(10*time.Millisecond), c.To)

	if c.Method == game.WinSkip {
		a.player.PlaySkip()
	} else {
		a.player.PlayWin()
	}

	if a.tray != nil {
		a.tray.SetLevel(a.game.Level().Title())
	}

	if a.config.Store == nil || a.session == "" {
		return
	}
	err := a.config.Store.Completions().Record(&store.Completion{
		SessionID: a.session,
		Level:     c.From,
		NextLevel: c.To,
		Method:    c.Method.String(),
		Duration:  c.Duration,
	})
	if err != nil {
		log.Printf("Failed to record completion: %v", err)
	}
	if err := a.config.Store.Settings().Set(store.SettingLastLevel, c.To); err != nil {
		log.Printf("Failed to save last level: %v", err)
	}
}

func (a *App) screen() image.Point {
	return image.Pt(a.config.ScreenWidth, a.config.ScreenHeight)
}

func (a *App) publishStatus() {
	st := a.game.Status()
	a.status.Store(&st)
}

// Status returns the game status as of the end of the last tick. It is safe
// to call from any goroutine.
func (a *App) Status() game.Status {
	return *a.status.Load()
}

// Skip asks the game loop to advance to the next level. Requests made
// before the loop consumes the previous one are dropped.
func (a *App) Skip() {
	select {
	case a.skipCh <- struct{}{}:
	default:
	}
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the pose detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetCamera replaces the camera. Call before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDisplay replaces the window. Call before Run.
func (a *App) SetDisplay(d Display) {
	a.display = d
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Poses returns the handoff the pipeline publishes to.
func (a *App) Poses() *pose.Handoff {
	return a.poses
}

// Game returns the game. Only the game loop goroutine may use it while
// Run is active.
func (a *App) Game() *game.Game {
	return a.game
}

// SessionID returns the id of the stored session, or "" without a store.
func (a *App) SessionID() string {
	return a.session
}

// Close ends the session and removes the game's bodies.
func (a *App) Close() {
	a.game.Close()
	a.player.Close()
	if a.config.Store != nil && a.session != "" {
		if err := a.config.Store.Sessions().End(a.session); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
	}
}

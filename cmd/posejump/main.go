package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/posejump/internal/app"
	"github.com/ayusman/posejump/internal/capture"
	"github.com/ayusman/posejump/internal/level"
	"github.com/ayusman/posejump/internal/store"
)

func init() {
	// HighGUI windows must stay on the thread that created them.
	runtime.LockOSThread()
}

func main() {
	fmt.Println("posejump - webcam pose platformer")

	var (
		levelsPath = flag.String("levels", "", "level document (YAML or JSON); default assets/levels.yaml")
		assetsDir  = flag.String("assets", "", "directory with background images; default: the level document's directory")
		cameraID   = flag.Int("camera", 0, "camera device id")
		motion     = flag.Float64("motion", capture.DefaultMotionThreshold, "percent of changed pixels that counts as motion")
		width      = flag.Int("width", app.DefaultScreenWidth, "window width")
		height     = flag.Int("height", app.DefaultScreenHeight, "window height")
		fullscreen = flag.Bool("fullscreen", false, "open the window fullscreen")
		ttl        = flag.Int("ttl", 1, "frames a limb or head body lives")
		addr       = flag.String("addr", ":8080", "HTTP listen address; empty disables the server")
		sound      = flag.Bool("sound", true, "play a chime on level completion")
		trayIcon   = flag.Bool("tray", false, "show a system tray menu")
		resume     = flag.Bool("resume", false, "start on the level played last")
		dataDir    = flag.String("data", "", "data directory; default ~/.posejump")
	)
	flag.Parse()

	if *levelsPath == "" {
		*levelsPath = findLevels()
	}
	if *assetsDir == "" {
		*assetsDir = filepath.Dir(*levelsPath)
	}

	levels, err := level.Load(*levelsPath)
	if err != nil {
		var cfgErr *level.ConfigError
		if errors.As(err, &cfgErr) {
			log.Fatalf("Invalid level document %s: %v", *levelsPath, cfgErr)
		}
		log.Fatalf("Failed to load levels: %v", err)
	}
	log.Printf("Loaded %d levels from %s", levels.Len(), *levelsPath)

	if *dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		*dataDir = filepath.Join(homeDir, ".posejump")
	}
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(*dataDir, "posejump.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a, err := app.New(app.Config{
		Store:        st,
		Levels:       levels,
		LevelsPath:   *levelsPath,
		AssetsDir:    *assetsDir,
		CameraID:     *cameraID,
		MotionThresh: *motion,
		ScreenWidth:  *width,
		ScreenHeight: *height,
		Fullscreen:   *fullscreen,
		TTL:          *ttl,
		Addr:         *addr,
		Sound:        *sound,
		Tray:         *trayIcon,
		Resume:       *resume,
	})
	if err != nil {
		// log.Fatalf would skip the deferred store close
		st.Close()
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Printf("Game stopped: %v", err)
	}
}

// findLevels looks for assets/levels.yaml relative to the working
// directory, then in ~/.posejump.
func findLevels() string {
	candidates := []string{"assets/levels.yaml", "../assets/levels.yaml", "../../assets/levels.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".posejump", "levels.yaml"))
	}

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return candidates[0]
}

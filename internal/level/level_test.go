package level

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/posejump/internal/gesture"
	"github.com/ayusman/posejump/testdata"
)

func TestLoadFS_Basic(t *testing.T) {
	set, err := LoadFS(testdata.Levels(), "basic.yaml")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}

	names := set.Names()
	want := []string{"level_0", "level_1", "level_2"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
		if set.At(i).Index != i {
			t.Errorf("level %d has Index %d", i, set.At(i).Index)
		}
	}

	t.Run("tutorial", func(t *testing.T) {
		l := set.At(0)
		if !l.Tutorial() {
			t.Error("level_0 should be the tutorial")
		}
		if l.FlagPos != nil || l.BallPos != nil {
			t.Error("tutorial has no ball or flag")
		}
		if l.Gesture() != gesture.ArmsAboveHeadName {
			t.Errorf("Gesture() = %q, want %q", l.Gesture(), gesture.ArmsAboveHeadName)
		}
		if l.WebcamPos == nil || l.WebcamPos.Rect().Width <= 0 {
			t.Error("webcam_pos should be parsed")
		}
		if len(l.BackgroundImages) != 1 || l.BackgroundImages[0].Image != "tutorial.png" {
			t.Errorf("BackgroundImages = %+v", l.BackgroundImages)
		}
	})

	t.Run("flag level", func(t *testing.T) {
		l := set.At(1)
		if l.FlagPos == nil || l.FlagPos.X != 0.8 || l.FlagPos.Y != 0.9 {
			t.Errorf("FlagPos = %v", l.FlagPos)
		}
		if len(l.LinePos) != 2 {
			t.Errorf("expected 2 level lines, got %d", len(l.LinePos))
		}
		if len(l.Grids) != 1 {
			t.Fatalf("expected 1 grid, got %d", len(l.Grids))
		}
		g := l.Grids[0]
		if g.Game.Left != 0.1 || g.Game.Top != 0.4 || g.Game.Width != 0.4 || g.Game.Height != 0.4 {
			t.Errorf("game rect = %+v", g.Game)
		}
		if g.Webcam.Left != 0.1 || g.Webcam.Width != 0.8 {
			t.Errorf("webcam rect = %+v", g.Webcam)
		}
		if g.Color != (color.RGBA{255, 0, 0, 255}) {
			t.Errorf("color = %v, want red", g.Color)
		}
		if !l.AllowHead || l.SpawnBalls {
			t.Error("flags not parsed")
		}
		if l.Gesture() != "" {
			t.Errorf("Gesture() = %q, want none", l.Gesture())
		}

		conns := l.Connections()
		if len(conns) != 2 || !conns.Allows(13, 11) || conns.Allows(11, 12) {
			t.Errorf("Connections() = %v", conns)
		}
		if l.Title() != "Level: 1" {
			t.Errorf("Title() = %q", l.Title())
		}
	})

	t.Run("spawner level", func(t *testing.T) {
		l := set.At(2)
		if !l.SpawnBalls {
			t.Error("spawn_balls should be set")
		}
		if l.Grids[0].Color != (color.RGBA{0, 128, 255, 255}) {
			t.Errorf("color = %v", l.Grids[0].Color)
		}
		if len(l.Connections()) != 35 {
			t.Errorf("default connections = %d, want 35", len(l.Connections()))
		}
		allocs := testing.AllocsPerRun(100, func() { _ = l.Connections() })
		if allocs != 0 {
			t.Errorf("Connections() allocates %.0f times per call", allocs)
		}
	})
}

func TestLoadFS_JSON(t *testing.T) {
	set, err := LoadFS(testdata.Levels(), "single.json")
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", set.Len())
	}
	if set.At(0).Grids[0].Color != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("color = %v, want green", set.At(0).Grids[0].Color)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "levels.yaml")
		doc := "level_0: {instruction: hi}\nlevel_1: {flag_pos: [0.5, 0.5]}\n"
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}

		set, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if _, ok := set.Lookup("level_1"); !ok {
			t.Error("level_1 should be found")
		}
		if _, ok := set.Lookup("level_9"); ok {
			t.Error("level_9 should not be found")
		}
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		level string
		field string
	}{
		{name: "empty document", doc: ""},
		{name: "empty mapping", doc: "{}"},
		{name: "not a mapping", doc: "- level_0\n"},
		{name: "level not a mapping", doc: "level_0: 3\n", level: "level_0"},
		{name: "missing flag", doc: "level_0: {}\nlevel_1: {}\n", level: "level_1", field: "flag_pos"},
		{name: "bad grid arity", doc: "level_0: {grids: [[[0,0,1,1], red]]}\n", level: "level_0"},
		{name: "bad rect", doc: "level_0: {grids: [[[0,0,1], [0,0,1,1], red]]}\n", level: "level_0"},
		{name: "zero size rect", doc: "level_0: {grids: [[[0,0,0,1], [0,0,1,1], red]]}\n", level: "level_0"},
		{name: "unknown color", doc: "level_0: {grids: [[[0,0,1,1], [0,0,1,1], chartreuse-ish]]}\n", level: "level_0"},
		{name: "color out of range", doc: "level_0: {grids: [[[0,0,1,1], [0,0,1,1], [0, 300, 0]]]}\n", level: "level_0"},
		{name: "bad position", doc: "level_0: {}\nlevel_1: {flag_pos: [1]}\n", level: "level_1"},
		{name: "bad connection", doc: "level_0: {allowed_limb_connections: [[1, 2, 3]]}\n", level: "level_0"},
		{name: "image without file", doc: "level_0: {background_images: [{start_pos: [0,0], end_pos: [1,1]}]}\n", level: "level_0", field: "background_images"},
		{name: "inverted webcam pos", doc: "level_0: {webcam_pos: {start_pos: [1,1], end_pos: [0,0]}}\n", level: "level_0", field: "webcam_pos"},
		{name: "duplicate level", doc: "level_0: {}\nlevel_0: {}\n", level: "level_0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error %v is not a *ConfigError", err)
			}
			if cfgErr.Level != tt.level {
				t.Errorf("Level = %q, want %q", cfgErr.Level, tt.level)
			}
			if tt.field != "" && cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestParse_NoLevels(t *testing.T) {
	_, err := Parse([]byte("{}"))
	if !errors.Is(err, ErrNoLevels) {
		t.Errorf("error = %v, want ErrNoLevels", err)
	}
}

func TestParse_EmptyConnections(t *testing.T) {
	set, err := Parse([]byte("level_0: {allowed_limb_connections: []}\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n := len(set.At(0).Connections()); n != 0 {
		t.Errorf("explicit empty list should allow nothing, got %d connections", n)
	}
}

func TestConnections_Allows(t *testing.T) {
	c := DefaultConnections()

	if !c.Allows(8, 6) || !c.Allows(6, 8) {
		t.Error("pair should match in either order")
	}
	if c.Allows(0, 32) {
		t.Error("unlisted pair should not match")
	}
	if c.Allows(40, 41) {
		t.Error("ids outside the schema never match")
	}

	c[0] = [2]int{0, 0}
	if !DefaultConnections().Allows(8, 6) {
		t.Error("DefaultConnections() must return a fresh copy")
	}
}

func TestNextIndex(t *testing.T) {
	t.Run("cycle skips tutorial", func(t *testing.T) {
		n := 4
		want := []int{0, 1, 2, 3, 1, 2, 3, 1}

		idx := 0
		for i, w := range want {
			if idx != w {
				t.Fatalf("step %d: index = %d, want %d", i, idx, w)
			}
			idx = NextIndex(idx, n)
		}
	})

	t.Run("tutorial never recurs", func(t *testing.T) {
		idx := NextIndex(0, 5)
		for i := 0; i < 100; i++ {
			if idx == TutorialIndex {
				t.Fatalf("tutorial revisited after %d steps", i)
			}
			idx = NextIndex(idx, 5)
		}
	})

	tests := []struct {
		current, n, want int
	}{
		{0, 1, 0},
		{0, 0, 0},
		{0, 2, 1},
		{1, 2, 1},
	}
	for _, tt := range tests {
		if got := NextIndex(tt.current, tt.n); got != tt.want {
			t.Errorf("NextIndex(%d, %d) = %d, want %d", tt.current, tt.n, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor(" Green "); !ok || c != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("ParseColor(Green) = %v, %v", c, ok)
	}
	if _, ok := ParseColor("nope"); ok {
		t.Error("unknown name should not resolve")
	}
}

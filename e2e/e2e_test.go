package e2e

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ayusman/posejump/internal/detector"
	"github.com/ayusman/posejump/internal/game"
	"github.com/ayusman/posejump/internal/level"
	"github.com/ayusman/posejump/internal/pose"
	"github.com/ayusman/posejump/internal/render"
	"github.com/ayusman/posejump/internal/server"
	"github.com/ayusman/posejump/internal/store"
)

const shippedLevels = "../assets/levels.yaml"

func TestE2E_ShippedLevels(t *testing.T) {
	set, err := level.Load(shippedLevels)
	if err != nil {
		t.Fatalf("shipped level document is invalid: %v", err)
	}

	want := []string{"level_0", "level_1", "level_2", "level_3"}
	got := set.Names()
	if len(got) != len(want) {
		t.Fatalf("levels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d = %q, want %q", i, got[i], want[i])
		}
	}

	if testing.Short() {
		return
	}

	ctx := game.NewContext(image.Pt(640, 360), set, render.MatLoader{Dir: filepath.Dir(shippedLevels)})
	g, err := game.New(ctx)
	if err != nil {
		t.Fatalf("game.New() with shipped assets error = %v", err)
	}
	g.Close()
}

func TestE2E_PlaythroughWithServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	set, err := level.Load(shippedLevels)
	if err != nil {
		t.Fatalf("level.Load() error = %v", err)
	}

	s, err := store.New(filepath.Join(t.TempDir(), "data.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	sess, err := s.Sessions().Start(shippedLevels)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	g, err := game.New(game.NewContext(image.Pt(1280, 720), set, &render.StubLoader{}))
	if err != nil {
		t.Fatalf("game.New() error = %v", err)
	}
	defer g.Close()

	var status atomic.Pointer[game.Status]
	publish := func() {
		st := g.Status()
		status.Store(&st)
	}
	publish()

	g.OnLevelChange = func(c game.Change) {
		err := s.Completions().Record(&store.Completion{
			SessionID: sess.ID,
			Level:     c.From,
			NextLevel: c.To,
			Method:    c.Method.String(),
			Duration:  c.Duration,
		})
		if err != nil {
			t.Errorf("Record() error = %v", err)
		}
	}

	poses := pose.NewHandoff()
	srv := server.New(server.Config{
		Store:     s,
		SessionID: sess.ID,
		Poses:     poses,
		Status:    func() game.Status { return *status.Load() },
	})
	defer srv.Shutdown(context.Background())
	ts := httptest.NewServer(srv)
	defer ts.Close()
	client := ts.Client()

	t.Run("TutorialGesture", func(t *testing.T) {
		lm := detector.ArmsRaisedLandmarks()
		poses.Publish(nil, lm.Lines(0.5))

		snap, ok := poses.TryTake()
		res := g.Tick(snap, ok)
		g.Step(game.DefaultTickPeriod.Seconds())
		publish()

		if !res.Changed || res.Change.Method != game.WinGesture {
			t.Fatalf("Tick() = %+v, want a gesture win", res)
		}
	})

	t.Run("SkipAround", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			g.Advance(game.WinSkip)
		}
		publish()
	})

	t.Run("State", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/state")
		if err != nil {
			t.Fatalf("GET /api/state error = %v", err)
		}
		defer resp.Body.Close()

		var st game.Status
		json.NewDecoder(resp.Body).Decode(&st)
		// the cycle skips the tutorial: 1 -> 2 -> 3 -> 1
		if st.Level != "level_1" || st.Transitions != 4 {
			t.Errorf("state = %+v, want level_1 after 4 transitions", st)
		}
	})

	t.Run("Completions", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/completions?session=" + sess.ID)
		if err != nil {
			t.Fatalf("GET /api/completions error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Completions []struct {
				Level  string `json:"level"`
				Method string `json:"method"`
			} `json:"completions"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		if len(body.Completions) != 4 {
			t.Fatalf("got %d completions, want 4", len(body.Completions))
		}

		methods := map[string]int{}
		for _, c := range body.Completions {
			methods[c.Method]++
		}
		if methods["gesture"] != 1 || methods["skip"] != 3 {
			t.Errorf("methods = %v, want 1 gesture and 3 skips", methods)
		}
	})

	t.Run("APIStillWorks", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("GET /api/health error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("health check failed after game operations")
		}
	})
}

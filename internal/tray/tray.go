// Package tray shows the current level in the system tray and offers
// skip, sound and quit entries.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

const noLevel = "Level: -"

// Tray is the system tray menu. Callbacks run on the tray's goroutine.
type Tray struct {
	onSkip  func()
	onSound func(enabled bool)
	onQuit  func()
	title   string
	sound   bool
	mu      sync.RWMutex

	menuLevel *systray.MenuItem
	menuSound *systray.MenuItem
}

// New creates a Tray with sound enabled.
func New() *Tray {
	return &Tray{title: noLevel, sound: true}
}

// OnSkip sets the callback for the "Skip level" item.
func (t *Tray) OnSkip(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSkip = fn
}

// OnSound sets the callback for the sound toggle.
func (t *Tray) OnSound(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSound = fn
}

// OnQuit sets the callback for the "Quit" item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray. It blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray icon and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("posejump")
	systray.SetTooltip("posejump webcam platformer")

	t.mu.Lock()
	t.menuLevel = systray.AddMenuItem(t.title, "Current level")
	t.menuLevel.Disable()
	systray.AddSeparator()
	menuSkip := systray.AddMenuItem("Skip level", "Go to the next level")
	t.menuSound = systray.AddMenuItem(soundLabel(t.sound), "Toggle the completion chime")
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit posejump")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-menuSkip.ClickedCh:
				t.handleSkip()
			case <-t.menuSound.ClickedCh:
				t.handleSound()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				systray.Quit()
				return
			}
		}
	}()
}

func soundLabel(on bool) string {
	if on {
		return "● Sound"
	}
	return "○ Sound"
}

func (t *Tray) handleSkip() {
	t.mu.RLock()
	callback := t.onSkip
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleSound() {
	t.mu.Lock()
	t.sound = !t.sound
	on := t.sound
	if t.menuSound != nil {
		t.menuSound.SetTitle(soundLabel(on))
	}
	callback := t.onSound
	t.mu.Unlock()

	// outside the lock; the callback may call back into the tray
	if callback != nil {
		callback(on)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// SetLevel shows title as the current level. An empty title clears it.
func (t *Tray) SetLevel(title string) {
	if title == "" {
		title = noLevel
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.title = title
	if t.menuLevel != nil {
		t.menuLevel.SetTitle(title)
	}
}

// Level returns the title currently shown.
func (t *Tray) Level() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// SetSound sets the sound state without firing the callback.
func (t *Tray) SetSound(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sound = on
	if t.menuSound != nil {
		t.menuSound.SetTitle(soundLabel(on))
	}
}

// SoundEnabled returns the sound state.
func (t *Tray) SoundEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sound
}

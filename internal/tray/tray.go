// Package tray provides an optional system tray entry for controlling the
// game without the browser UI.
package tray

import (
	"log"

	"github.com/getlantern/systray"
)

// Config holds the tray callbacks. All callbacks may be nil.
type Config struct {
	// URL is the address the web UI is served on, shown in the menu.
	URL string
	// OnPauseToggle flips between running and paused.
	OnPauseToggle func() bool
	// OnReset abandons the current match.
	OnReset func() bool
	// OnQuit is called when the user quits from the tray.
	OnQuit func()
}

// Run starts the tray loop. It blocks until the user quits, so callers
// run their servers on other goroutines.
func Run(config Config) {
	systray.Run(func() { onReady(config) }, func() {
		if config.OnQuit != nil {
			config.OnQuit()
		}
	})
}

func onReady(config Config) {
	systray.SetTitle("Pong")
	systray.SetTooltip("Gesture-controlled Pong")

	var open *systray.MenuItem
	if config.URL != "" {
		open = systray.AddMenuItem("Playing at "+config.URL, "Web UI address")
		open.Disable()
		systray.AddSeparator()
	}

	pause := systray.AddMenuItem("Pause / resume", "Toggle the match")
	reset := systray.AddMenuItem("Reset match", "Abandon the match and recalibrate")
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Stop the game and exit")

	go func() {
		for {
			select {
			case <-pause.ClickedCh:
				if config.OnPauseToggle != nil && !config.OnPauseToggle() {
					log.Println("Pause toggle refused")
				}
			case <-reset.ClickedCh:
				if config.OnReset != nil && !config.OnReset() {
					log.Println("Reset refused")
				}
			case <-quit.ClickedCh:
				systray.Quit()
				return
			}
		}
	}()
}

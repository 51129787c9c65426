package app

import (
	"log"
	"time"

	"github.com/spock74/ping-pong/internal/game"
)

// runDetection is the camera-to-game loop. It reads frames, gates landmark
// inference on motion, and feeds classified frames into the game core.
//
// Pipeline logic:
// 1. Start in idle mode (IdleFPS)
// 2. On motion, or whenever a match or calibration is in progress, switch
//    to active mode (ActiveFPS)
// 3. Run hand detection and hand the landmarks to the game
// 4. After 2s without motion outside of play, drop back to idle mode
func (a *App) runDetection(stop chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)

			// A live match or calibration keeps inference at full rate
			// even when the hand holds still.
			status := a.game.Status()
			inPlay := status != game.StatusIdle && status != game.StatusOver

			if motionDetected || inPlay {
				lastMotionTime = time.Now()

				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			if !activeMode || a.detector == nil {
				frame.Close()
				continue
			}

			hands, err := a.detector.Detect(frame)
			frame.Close()

			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			// A successful inference round trip means the landmark source
			// is operational, whether or not a hand is in view.
			a.game.SetSourceReady(true)

			now := time.Now()
			if len(hands) == 0 {
				a.game.HandleFrame(nil, now)
				continue
			}

			a.game.HandleFrame(hands[0].Landmarks(), now)
		}
	}
}

// runSimulation is the fixed-rate physics loop. It feeds real elapsed
// time into the game so the simulation stays wall-clock accurate when a
// tick is late.
func (a *App) runSimulation(stop chan struct{}) {
	ticker := time.NewTicker(time.Second / SimulationHz)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			a.game.Step(dt, now)
		}
	}
}

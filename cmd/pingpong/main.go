package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/skip2/go-qrcode"

	"github.com/spock74/ping-pong/internal/app"
	"github.com/spock74/ping-pong/internal/server"
	"github.com/spock74/ping-pong/internal/store"
	"github.com/spock74/ping-pong/internal/tray"
)

func main() {
	fmt.Println("Ping-Pong - Gesture-Controlled Pong")

	// Optional .env for local overrides; missing file is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	var (
		addr     = flag.String("addr", envOr("PINGPONG_ADDR", ":8080"), "HTTP listen address")
		cameraID = flag.Int("camera", 0, "camera device ID")
		dbPath   = flag.String("db", "", "SQLite database path (default ~/.pingpong/pingpong.db)")
		static   = flag.String("static", "", "static files directory (default: auto-detect web/)")
		banter   = flag.String("banter", os.Getenv("BANTER_URL"), "commentary service base URL")
		useTray  = flag.Bool("tray", false, "show a system tray entry")
		noQR     = flag.Bool("no-qr", false, "skip printing the join QR code")
	)
	flag.Parse()

	st, err := store.New(resolveDBPath(*dbPath))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	a := app.New(app.Config{
		Store:     st,
		CameraID:  *cameraID,
		BanterURL: *banter,
	})
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipelines: %v", err)
	}
	defer a.Stop()

	webDir := *static
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Camera:     a.Camera(),
		Controller: a.Controller(),
	})

	url := joinURL(*addr)
	fmt.Printf("Starting server on %s\n", url)
	if !*noQR {
		printQR(url)
	}

	if *useTray {
		go func() {
			if err := srv.ListenAndServe(*addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
		tray.Run(tray.Config{
			URL:           url,
			OnPauseToggle: a.TogglePause,
			OnReset:       a.Reset,
			OnQuit:        a.Stop,
		})
		return
	}

	if err := srv.ListenAndServe(*addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveDBPath expands the default database location under the user's
// home directory, creating the data directory when needed.
func resolveDBPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dbDir := filepath.Join(homeDir, ".pingpong")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	return filepath.Join(dbDir, "pingpong.db")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.pingpong/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".pingpong", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// joinURL turns a listen address into a URL reachable from the local
// network, so a phone can scan the QR code and spectate.
func joinURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = localIP()
	}
	return fmt.Sprintf("http://%s", net.JoinHostPort(host, port))
}

// localIP finds the outbound interface address without sending traffic.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "localhost"
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "localhost"
}

// printQR renders the join URL as a terminal QR code.
func printQR(url string) {
	qr, err := qrcode.New(url, qrcode.Low)
	if err != nil {
		log.Printf("Failed to build QR code: %v", err)
		return
	}
	fmt.Println("Scan to open the scoreboard:")
	fmt.Println(strings.TrimRight(qr.ToSmallString(false), "\n"))
}

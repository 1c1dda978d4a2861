package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/mapping"
	"github.com/ayusman/mudra/internal/output"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Gesture Mouse")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// Load the configuration
	settings, err := config.Load(findConfig(dataDir))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize the store
	dbPath := filepath.Join(dataDir, "mudra.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	screenW, screenH := output.ScreenSize()
	fmt.Printf("Screen size: %dx%d\n", screenW, screenH)

	events := server.NewEventsHandler()

	application := app.New(app.Config{
		Store:        st,
		CameraID:     0,
		Settings:     settings,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
		Publisher:    events,
	})

	if err := application.LoadCalibration(); err != nil {
		log.Printf("Failed to load calibration: %v", err)
	}

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	defer application.Stop()

	// Find web directory
	webDir := findWebDir(dataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// Configure and start server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Camera:    application.Camera(),
		Control:   application.Engine(),
		Settings:  settings,
		Events:    events,
	})

	addr := ":8080"
	go func() {
		fmt.Printf("Starting server on %s\n", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wire the tray. systray.Run must own the main goroutine.
	tr := tray.New()
	tr.OnToggle(application.SetEnabled)
	tr.OnMode(func() {
		application.Engine().Enqueue(engine.CmdToggleMode)
	})
	tr.OnCalibrate(func() {
		application.Engine().Enqueue(engine.CmdStartCalibration)
	})
	tr.OnSmoothing(func(direction int) {
		if direction > 0 {
			application.Engine().Enqueue(engine.CmdSmoothingUp)
		} else {
			application.Engine().Enqueue(engine.CmdSmoothingDown)
		}
	})
	tr.OnQuit(application.Stop)
	application.OnModeChange = func(mode mapping.Mode) {
		tr.SetMode(mode.String())
	}
	tr.SetMode(application.Engine().Mode().String())

	tr.Run()
}

// findConfig returns the config file path: config.json in the working
// directory if present, otherwise ~/.mudra/config.json.
func findConfig(dataDir string) string {
	if info, err := os.Stat("config.json"); err == nil && !info.IsDir() {
		return "config.json"
	}
	return filepath.Join(dataDir, "config.json")
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	// Check relative paths from current working directory
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

	homeWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/screenpilot/screenpilot/internal/config"
	"github.com/screenpilot/screenpilot/internal/database"
	"github.com/screenpilot/screenpilot/internal/logging"
	"github.com/screenpilot/screenpilot/pkg/backend"
	"github.com/screenpilot/screenpilot/pkg/screen"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "find":
		findTarget()
	case "click":
		clickTarget()
	case "type":
		typeText()
	case "history":
		showHistory()
	case "clear":
		clearDatabase()
	case "version":
		fmt.Printf("screenpilot version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`screenpilot - GUI automation from the command line

Usage:
  screenpilot <command> [options]

Commands:
  find <target> [timeout]    Locate a target on the screen (timeout in seconds)
  click <target>             Click the center of a target
  type <text>                Type literal text at the current focus
  history [hours] [--events] Show find statistics from the last N hours (default 24);
                             --events lists the individual find events
  clear                      Clear all recorded find history
  version                    Show version information
  help                       Show this help message

Examples:
  screenpilot find login_button
  screenpilot find save_icon 30
  screenpilot click ok_button
  screenpilot type "hello world"
  screenpilot history 48

Environment Variables:
  SCREENPILOT_DISPLAY_BACKEND     Display backend (auto, x11, wayland)
  SCREENPILOT_FIND_TIMEOUT        Default find timeout in seconds
  SCREENPILOT_SIMILARITY          Default match threshold (0..1)
  SCREENPILOT_TARGET_PATHS        Directories searched for target images
  SCREENPILOT_DB_PATH             Database file path
  SCREENPILOT_DUMP_DIR            Directory for failure dumps

Version: %s
`, version)
}

// session wires config, logging, backends and persistence into a ready
// to use screen region.
type session struct {
	cfg    *config.Config
	db     *database.DB
	screen *screen.Region
}

func newSession() *session {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	display, err := backend.NewDisplay(cfg.Display.Backend)
	if err != nil {
		log.Fatalf("Failed to open display: %v", err)
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	files := screen.NewFileResolver()
	for _, dir := range cfg.Targets.Paths {
		files.AddPath(dir)
	}

	root := screen.NewScreen(display, backend.NewMatcher(logger),
		screen.WithSettings(cfg.Engine),
		screen.WithLogger(logger),
		screen.WithRecorder(database.NewRepository(db)),
		screen.WithFileResolver(files),
	)

	return &session{cfg: cfg, db: db, screen: root}
}

func (s *session) close() {
	s.screen.Display().Close()
	s.db.Close()
}

func findTarget() {
	if len(os.Args) < 3 {
		log.Fatal("find requires a target descriptor")
	}
	descriptor := os.Args[2]

	s := newSession()
	defer s.close()

	timeout := s.cfg.Engine.FindTimeout
	if len(os.Args) > 3 {
		seconds, err := strconv.Atoi(os.Args[3])
		if err != nil || seconds <= 0 {
			log.Fatalf("Invalid timeout %q", os.Args[3])
		}
		timeout = time.Duration(seconds) * time.Second
	}

	matches, err := s.screen.FindAll(descriptor, timeout, false)
	if err != nil {
		log.Fatalf("Find failed: %v", err)
	}

	fmt.Printf("Found %d match(es):\n", len(matches))
	for i, m := range matches {
		fmt.Printf("  %d: %s\n", i, m)
	}
}

func clickTarget() {
	if len(os.Args) < 3 {
		log.Fatal("click requires a target descriptor")
	}

	s := newSession()
	defer s.close()

	match, err := s.screen.Click(os.Args[2])
	if err != nil {
		log.Fatalf("Click failed: %v", err)
	}

	fmt.Printf("Clicked %s\n", match)
}

func typeText() {
	if len(os.Args) < 3 {
		log.Fatal("type requires the text to type")
	}

	s := newSession()
	defer s.close()

	if err := s.screen.TypeText(os.Args[2]); err != nil {
		log.Fatalf("Type failed: %v", err)
	}
}

func showHistory() {
	hours := 24
	events := false
	for _, arg := range os.Args[2:] {
		if arg == "--events" {
			events = true
			continue
		}
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed <= 0 {
			log.Fatalf("Invalid hour count %q", arg)
		}
		hours = parsed
	}

	cfg := config.New()
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repo := database.NewRepository(db)
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	summaries, err := repo.GetTargetSummarySince(since)
	if err != nil {
		log.Fatalf("Failed to query history: %v", err)
	}

	if len(summaries) == 0 {
		fmt.Printf("No finds recorded in the last %dh\n", hours)
		return
	}

	fmt.Printf("Find history, last %dh:\n", hours)
	for _, s := range summaries {
		fmt.Printf("  %-30s %4d finds, %4d ok, avg %.0fms\n",
			s.TargetName, s.EventCount, s.Successes, s.AvgMS)
	}

	failures, err := repo.GetFailuresSince(since)
	if err != nil {
		log.Fatalf("Failed to query failures: %v", err)
	}
	for _, f := range failures {
		if f.DumpPath != "" {
			fmt.Printf("  dump for %s: %s\n", f.TargetName, f.DumpPath)
		}
	}

	if events {
		all, err := repo.GetEventsSince(since)
		if err != nil {
			log.Fatalf("Failed to query events: %v", err)
		}
		fmt.Println("Events:")
		for _, e := range all {
			fmt.Printf("  %s  %-30s %-8s sim %.2f %dms\n",
				e.Timestamp.Format(time.RFC3339), e.TargetName,
				outcome(e.Success), e.Similarity, e.DurationMS)
		}
	}

	latest, err := repo.GetLatest()
	if err != nil {
		log.Fatalf("Failed to query latest event: %v", err)
	}
	if latest != nil {
		fmt.Printf("Latest: %s %s at %s\n", latest.TargetName,
			outcome(latest.Success), latest.Timestamp.Format(time.RFC3339))
	}
}

func outcome(success bool) string {
	if success {
		return "found"
	}
	return "missed"
}

func clearDatabase() {
	fmt.Print("This will delete all recorded find history. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	cfg := config.New()
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	repo := database.NewRepository(db)
	deleted, err := repo.DeleteOldEvents(time.Now().Add(time.Second))
	if err != nil {
		log.Fatalf("Failed to clear history: %v", err)
	}

	fmt.Printf("Deleted %d events\n", deleted)
}

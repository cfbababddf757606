package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/abrezinsky/bracketview/internal/app"
	"github.com/abrezinsky/bracketview/internal/browser"
	"github.com/abrezinsky/bracketview/internal/config"
	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/pkg/startgg"
	"github.com/abrezinsky/bracketview/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// showBanner prints the logo and a small bracket
func showBanner() {
	width := 62
	border := strings.Repeat("═", width)

	logo := []string{
		"   ____                 _        _ __     ___               ",
		"  | __ ) _ __ __ _  ___| | _____| |\\ \\   / (_) _____      __",
		"  |  _ \\| '__/ _` |/ __| |/ / _ \\ __\\ \\ / /| |/ _ \\ \\ /\\ / /",
		"  | |_) | | | (_| | (__|   <  __/ |_ \\ V / | |  __/\\ V  V / ",
		"  |____/|_|  \\__,_|\\___|_|\\_\\___|\\__| \\_/  |_|\\___| \\_/\\_/  ",
		"",
		"        ──┐",
		"          ├──┐",
		"        ──┘  │",
		"             ├── champion",
		"        ──┐  │",
		"          ├──┘",
		"        ──┘",
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		pad := width - len([]rune(line))
		if pad < 0 {
			pad = 0
		}
		fmt.Printf("  %s║%s%s%s%s║%s\n", cyan, yellow, line, strings.Repeat(" ", pad), cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
// applyMockDefaults points an unconfigured phase at the sample data
func applyMockDefaults(cfg *config.Config) {
	if cfg.StartGG.PhaseID == "" {
		cfg.StartGG.PhaseID = startgg.DefaultMockPhase().Phase.ID.String()
	}
}

func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sb%s      - Open bracket page in browser\n", cyan, reset)
	fmt.Printf("    %so%s      - Open stream overlay in browser\n", cyan, reset)
	fmt.Printf("    %ss%s      - Open schedule panel in browser\n", cyan, reset)
	fmt.Printf("    %sr%s      - Refresh bracket now\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

// console dispatches keyboard shortcuts
type console struct {
	app    *app.App
	log    *logger.SlogLogger
	opener *browser.Opener
	quit   context.CancelFunc
}

// handleKey performs the action for one key press and reports whether to stop listening
func (c *console) handleKey(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "b":
		c.open("bracket")
	case "o":
		c.open("overlay")
	case "s":
		c.open("schedule")
	case "r":
		fmt.Printf("%sRefreshing bracket...%s\n", cyan, reset)
		c.app.Refresh()
	case "h":
		if c.log.IsHTTPLoggingEnabled() {
			c.log.DisableHTTPLogging()
			fmt.Printf("%sHTTP logging disabled%s\n", yellow, reset)
		} else {
			c.log.EnableHTTPLogging()
			fmt.Printf("%sHTTP logging enabled%s\n", green, reset)
		}
	case "l":
		cycleLogLevel(c.log)
	case "?":
		printKeyboardHelp()
	case "q", "\x03": // q or Ctrl+C
		fmt.Printf("%sShutting down server...%s\n", yellow, reset)
		c.quit()
		return true
	}
	return false
}

func (c *console) open(page string) {
	url, err := c.opener.Page(page)
	if err != nil {
		fmt.Printf("%sError opening browser: %v%s\n", red, err, reset)
		return
	}
	fmt.Printf("%sOpened %s%s\n", cyan, url, reset)
}

func main() {
	configPath := flag.String("config", "", "TOML config file")
	envFile := flag.String("env", ".env", "dotenv file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	phaseID := flag.String("phase", "", "start.gg phase id (overrides config)")
	logLevel := flag.String("loglevel", "", "Log level (debug, info, warn, error)")
	useMock := flag.Bool("mock", false, "Use built-in sample data instead of the start.gg API")
	noBanner := flag.Bool("nobanner", false, "Skip the startup banner")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `BracketView - live tournament bracket display

Usage:
  bracketview [options]

Options:
  -config str    TOML config file
  -env str       dotenv file (default ".env")
  -port int      HTTP server port (default 8080)
  -db string     SQLite database path (default "bracketview.db")
  -phase str     start.gg phase id
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -mock          Use built-in sample data instead of the start.gg API
  -nobanner      Skip the startup banner
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Keyboard Shortcuts (when enabled):
  b              Open bracket page in browser
  o              Open stream overlay in browser
  s              Open schedule panel in browser
  r              Refresh bracket now
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  bracketview -phase 123456                    # Show one phase
  bracketview -config bracketview.toml         # Use a config file
  bracketview -mock                            # Run with sample data
  STARTGG_TOKEN=... bracketview -phase 123456  # Token from the environment

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("bracketview %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath, *envFile)
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Server.DBPath = *dbPath
	}
	if *phaseID != "" {
		cfg.StartGG.PhaseID = *phaseID
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *useMock {
		applyMockDefaults(cfg)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	if !*noBanner {
		showBanner()
	}

	appLog := logger.NewWithOptions(os.Stdout, logger.ParseLevel(cfg.Log.Level), logger.ParseFormat(cfg.Log.Format))

	var client startgg.Client
	if *useMock || cfg.StartGG.Token == "" {
		appLog.Warn("No start.gg token configured, using sample data")
		client = startgg.NewMockClient()
	} else {
		client = startgg.NewHTTPClient(cfg.StartGG.BaseURL, cfg.StartGG.Token, appLog,
			startgg.WithRateLimit(cfg.StartGG.RequestsPerMinute))
	}

	a, err := app.New(appLog, cfg, client, web.GetTemplatesFS(), web.GetStaticFS())
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	localURL := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// Keyboard shortcuts need an interactive terminal
	if !*noKeyboard && term.IsTerminal(int(os.Stdin.Fd())) {
		printKeyboardHelp()
		c := &console{app: a, log: appLog, opener: browser.NewOpener(localURL), quit: stop}
		go listenForKeyboard(c)
	} else if !*noKeyboard {
		fmt.Printf("\n%sKeyboard shortcuts disabled (stdin is not a terminal)%s\n\n", yellow, reset)
	}

	if err := a.Run(ctx, addr); err != nil {
		appLog.Error("Server stopped", "error", err)
		a.Close()
		os.Exit(1)
	}
	appLog.Info("Server stopped")
}

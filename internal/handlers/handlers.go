package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/bracketview/internal/render"
	"github.com/abrezinsky/bracketview/internal/services"
	"github.com/abrezinsky/bracketview/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// PageData holds the data passed to page templates
type PageData struct {
	Title string
	Page  string
	Pool  string
	Side  string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index    *template.Template
	Bracket  *template.Template
	Overlay  *template.Template
	Schedule *template.Template
	Pools    *template.Template
}

// Refresher requests an immediate bracket refresh cycle
type Refresher interface {
	Trigger()
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Services groups the service dependencies of the handlers
type Services struct {
	Bracket  services.BracketServicer
	Overlay  services.OverlayServicer
	Schedule services.ScheduleServicer
	Rotation services.RotationServicer
	Settings services.SettingsServicer
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Bracket      services.BracketServicer
	Overlay      services.OverlayServicer
	Schedule     services.ScheduleServicer
	Rotation     services.RotationServicer
	Settings     services.SettingsServicer
	Refresher    Refresher
	Health       HealthChecker
	Renderer     *render.SVG
	Hub          *websocket.Hub
	Log          HTTPLogger
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	refresher Refresher,
	health HealthChecker,
	renderer *render.SVG,
	templatesFS fs.FS,
	staticServer http.Handler,
	hub *websocket.Hub,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if renderer == nil {
		renderer = render.New(render.DefaultOptions())
	}

	return &Handlers{
		Bracket:      svc.Bracket,
		Overlay:      svc.Overlay,
		Schedule:     svc.Schedule,
		Rotation:     svc.Rotation,
		Settings:     svc.Settings,
		Refresher:    refresher,
		Health:       health,
		Renderer:     renderer,
		Hub:          hub,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(svc Services, refresher Refresher, health HealthChecker) *Handlers {
	return &Handlers{
		Bracket:   svc.Bracket,
		Overlay:   svc.Overlay,
		Schedule:  svc.Schedule,
		Rotation:  svc.Rotation,
		Settings:  svc.Settings,
		Refresher: refresher,
		Health:    health,
		Renderer:  render.New(render.DefaultOptions()),
		Log:       NoopHTTPLogger{},
		// templates left nil - API endpoints don't use templates
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "layout.html", "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Bracket, err = template.ParseFS(templatesFS, "layout.html", "bracket.html"); err != nil {
		return nil, fmt.Errorf("bracket template: %w", err)
	}
	if t.Overlay, err = template.ParseFS(templatesFS, "layout.html", "overlay.html"); err != nil {
		return nil, fmt.Errorf("overlay template: %w", err)
	}
	if t.Schedule, err = template.ParseFS(templatesFS, "layout.html", "schedule.html"); err != nil {
		return nil, fmt.Errorf("schedule template: %w", err)
	}
	if t.Pools, err = template.ParseFS(templatesFS, "layout.html", "pools.html"); err != nil {
		return nil, fmt.Errorf("pools template: %w", err)
	}

	return t, nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/abrezinsky/bracketview/internal/bracket"
	"github.com/abrezinsky/bracketview/internal/config"
	"github.com/abrezinsky/bracketview/internal/events"
	"github.com/abrezinsky/bracketview/internal/handlers"
	"github.com/abrezinsky/bracketview/internal/logger"
	"github.com/abrezinsky/bracketview/internal/render"
	"github.com/abrezinsky/bracketview/internal/repository"
	"github.com/abrezinsky/bracketview/internal/scheduler"
	"github.com/abrezinsky/bracketview/internal/services"
	"github.com/abrezinsky/bracketview/internal/websocket"
	"github.com/abrezinsky/bracketview/pkg/startgg"
)

const shutdownTimeout = 5 * time.Second

// loop is a periodic runner that stops when ctx is cancelled
type loop interface {
	Run(ctx context.Context) error
}

// App holds all application dependencies
type App struct {
	log         logger.Logger
	cfg         *config.Config
	handlers    *handlers.Handlers
	repo        *repository.Repository
	hub         *websocket.Hub
	publisher   events.Publisher
	bracket     *services.BracketService
	overlay     *services.OverlayService
	schedule    *services.ScheduleService
	rotation    *services.RotationService
	settings    *services.SettingsService
	bracketLoop *scheduler.FixedDelay
	loops       []loop
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, client startgg.Client, templatesFS, staticFS fs.FS) (*App, error) {
	pipeline, err := Pipeline(cfg)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("time zone: %w", err)
	}

	repo, err := repository.New(cfg.Server.DBPath)
	if err != nil {
		return nil, err
	}

	publisher, err := events.New(cfg.NATS.URL)
	if err != nil {
		log.Warn("Event publishing disabled", "url", cfg.NATS.URL, "error", err)
		publisher = &events.NoopPublisher{}
	}

	// Initialize services
	session := services.NewSession()
	settingsService := services.NewSettingsService(log, repo, services.Settings{
		StreamName: cfg.StartGG.StreamName,
		BaseURL:    cfg.Server.BaseURL,
	})
	bracketService := services.NewBracketService(log, client, repo, repo, publisher, session, services.BracketOptions{
		PhaseID:  cfg.StartGG.PhaseID,
		Mode:     cfg.Display.Mode,
		Pipeline: pipeline,
	})
	overlayService := services.NewOverlayService(log, client, settingsService, session, cfg.StartGG.TournamentSlug)
	scheduleService := services.NewScheduleService(log, client, session, cfg.StartGG.TournamentSlug, loc)
	rotationService := services.NewRotationService(log, session)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log)
	bracketService.SetBroadcaster(hub)
	overlayService.SetBroadcaster(hub)
	scheduleService.SetBroadcaster(hub)
	rotationService.SetBroadcaster(hub)

	a := &App{
		log:       log,
		cfg:       cfg,
		repo:      repo,
		hub:       hub,
		publisher: publisher,
		bracket:   bracketService,
		overlay:   overlayService,
		schedule:  scheduleService,
		rotation:  rotationService,
		settings:  settingsService,
	}
	a.buildLoops()

	h, err := handlers.New(
		handlers.Services{
			Bracket:  bracketService,
			Overlay:  overlayService,
			Schedule: scheduleService,
			Rotation: rotationService,
			Settings: settingsService,
		},
		a.bracketLoop,
		repo,
		render.New(render.DefaultOptions()),
		templatesFS,
		handlers.NewStaticServer(staticFS),
		hub,
		log,
	)
	if err != nil {
		publisher.Close()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	a.handlers = h

	return a, nil
}

// Pipeline builds the layout pipeline from the layout configuration
func Pipeline(cfg *config.Config) (bracket.Pipeline, error) {
	strategy, err := bracket.ParseStrategy(strings.ToLower(cfg.Layout.Strategy))
	if err != nil {
		return bracket.Pipeline{}, err
	}
	return bracket.Pipeline{
		Engine: bracket.Engine{
			Strategy:    strategy,
			ColumnPitch: cfg.Layout.ColumnPitch,
			XOffset:     cfg.Layout.XOffset,
		},
		WinnersFrame: bracket.Frame{YOffset: 0, Height: cfg.Layout.WinnersHeight},
		LosersFrame:  bracket.Frame{YOffset: cfg.LosersYOffset(), Height: cfg.Layout.LosersHeight},
	}, nil
}

// buildLoops creates the refresh and rotation loops. Stream loops are only
// started when a tournament slug is configured.
func (a *App) buildLoops() {
	iv := a.cfg.Intervals

	a.bracketLoop = scheduler.NewFixedDelay(a.log, "bracket", iv.Bracket.Duration, func(ctx context.Context) {
		a.bracket.Refresh(ctx)
	})
	a.loops = []loop{a.bracketLoop}

	if a.cfg.StartGG.TournamentSlug != "" {
		a.loops = append(a.loops,
			scheduler.NewFixedDelay(a.log, "overlay", iv.Overlay.Duration, func(ctx context.Context) {
				if _, err := a.overlay.Refresh(ctx); err != nil {
					a.log.Warn("Overlay refresh failed", "error", err)
				}
			}),
			scheduler.NewFixedDelay(a.log, "schedule", iv.Schedule.Duration, func(ctx context.Context) {
				if _, err := a.schedule.Refresh(ctx); err != nil {
					a.log.Warn("Schedule refresh failed", "error", err)
				}
			}),
		)
	} else {
		a.log.Warn("No tournament slug configured, overlay and schedule disabled")
	}

	if a.cfg.Display.Mode == config.ModePools {
		a.loops = append(a.loops, scheduler.NewEvery(a.log, "pool-cycle", iv.PoolCycle.Duration, func() {
			a.rotation.AdvancePool()
		}))
	}
	a.loops = append(a.loops, scheduler.NewEvery(a.log, "side-toggle", iv.SideToggle.Duration, func() {
		a.rotation.ToggleSide()
	}))
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Refresh requests an immediate bracket refresh
func (a *App) Refresh() {
	a.bracketLoop.Trigger()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if err := a.publisher.Close(); err != nil {
		a.log.Warn("Failed to close event publisher", "error", err)
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn("Failed to close database", "error", err)
	}
}

// Run starts the loops and the HTTP server and blocks until ctx is cancelled
// or one of them fails
func (a *App) Run(ctx context.Context, addr string) error {
	// Set default base URL if not configured, using detected LAN IP
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.setDefaultBaseURL(baseURL)

	a.hub.Start()
	srv := &http.Server{Addr: addr, Handler: a.Router()}

	g, ctx := errgroup.WithContext(ctx)
	for _, l := range a.loops {
		l := l
		g.Go(func() error { return l.Run(ctx) })
	}
	g.Go(func() error {
		a.hub.StartCountdown(ctx, func(now time.Time) string {
			return a.schedule.View(now).Countdown
		})
		return nil
	})
	g.Go(func() error {
		a.log.Info("Server starting", "url", baseURL)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.settings.GetBaseURL(ctx)

	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}

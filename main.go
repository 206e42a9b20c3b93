package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/colornode/cmd"
	"github.com/smazurov/colornode/internal/api"
	"github.com/smazurov/colornode/internal/colors"
	"github.com/smazurov/colornode/internal/config"
	"github.com/smazurov/colornode/internal/content"
	"github.com/smazurov/colornode/internal/dispatch"
	"github.com/smazurov/colornode/internal/events"
	"github.com/smazurov/colornode/internal/led"
	"github.com/smazurov/colornode/internal/logging"
	"github.com/smazurov/colornode/internal/mdns"
	"github.com/smazurov/colornode/internal/metrics"
	"github.com/smazurov/colornode/internal/metrics/collectors"
	"github.com/smazurov/colornode/internal/metrics/exporters"
	"github.com/smazurov/colornode/internal/version"
	"github.com/smazurov/colornode/ui"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8080" toml:"server.port" env:"SERVER_PORT"`

	// Content settings
	WebRoot   string `help:"Directory served as the web root (embedded page when empty)" default:"" toml:"content.web_root" env:"CONTENT_WEB_ROOT"`
	IndexName string `help:"Resource served for /" default:"index.html" toml:"content.index_name" env:"CONTENT_INDEX_NAME"`

	// Strip settings
	LEDCount     int    `help:"Number of LED positions" default:"16" toml:"strip.led_count" env:"STRIP_LED_COUNT"`
	StripDriver  string `help:"Strip driver (sim, spi)" default:"sim" toml:"strip.driver" env:"STRIP_DRIVER"`
	SPIPort      string `help:"SPI port name, first available when empty" default:"" toml:"strip.spi_port" env:"STRIP_SPI_PORT"`
	InitialColor string `help:"Color applied at startup" default:"000000" toml:"strip.initial_color" env:"STRIP_INITIAL_COLOR"`

	// mDNS settings
	Hostname    string `help:"Advertised mDNS hostname" default:"colornode" toml:"mdns.hostname" env:"MDNS_HOSTNAME"`
	MDNSEnabled bool   `help:"Advertise <hostname>.local" default:"false" toml:"mdns.enabled" env:"MDNS_ENABLED"`

	// Metrics settings
	MetricsEnabled bool `help:"Expose Prometheus metrics on /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Features settings
	StatusLEDEnabled bool `help:"Mirror strip state on the board status LED" default:"false" toml:"features.status_led_enabled" env:"FEATURES_STATUS_LED_ENABLED"`

	// Logging settings
	LoggingLevel    string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat   string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingDispatch string `help:"Dispatcher logging level" default:"info" toml:"logging.dispatch" env:"LOGGING_DISPATCH"`
	LoggingAPI      string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP     string `help:"HTTP access logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingLED      string `help:"LED logging level" default:"info" toml:"logging.led" env:"LOGGING_LED"`
	LoggingMDNS     string `help:"mDNS logging level" default:"info" toml:"logging.mdns" env:"LOGGING_MDNS"`
	LoggingMetrics  string `help:"Metrics logging level" default:"info" toml:"logging.metrics" env:"LOGGING_METRICS"`
}

func (o *Options) loggingConfig() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"dispatch": o.LoggingDispatch,
			"api":      o.LoggingAPI,
			"http":     o.LoggingHTTP,
			"led":      o.LoggingLED,
			"mdns":     o.LoggingMDNS,
			"metrics":  o.LoggingMetrics,
		},
	}
}

func newStore(opts *Options) content.Store {
	if opts.WebRoot != "" {
		return content.NewDirStore(opts.WebRoot)
	}
	return content.NewEmbedStore(ui.FS())
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		configErr := config.LoadConfig(opts, cli.Root())

		logging.Initialize(opts.loggingConfig())
		logger := logging.GetLogger("main")

		if configErr != nil {
			logger.Warn("Failed to load config", "error", configErr, "path", opts.Config)
		}

		var (
			array          *led.Array
			server         *api.Server
			eventCollector *collectors.EventCollector
			ledManager     *led.Manager
			advertiser     *mdns.Advertiser
			watcher        *config.Watcher[logging.Config]
		)

		hooks.OnStart(func() {
			logger.Info("Starting colornode", "version", version.Get().String())

			initial, err := colors.Parse(opts.InitialColor)
			if err != nil {
				logger.Error("Invalid initial color", "value", opts.InitialColor, "error", err)
				os.Exit(1)
			}

			ledLogger := logging.GetLogger("led")
			strip, err := led.NewStrip(led.StripConfig{
				Driver:   opts.StripDriver,
				SPIPort:  opts.SPIPort,
				LEDCount: opts.LEDCount,
			}, ledLogger)
			if err != nil {
				logger.Error("Failed to open LED strip", "error", err)
				os.Exit(1)
			}
			array = led.NewArray(strip)

			eventBus := events.New()

			store := newStore(opts)
			dispatcher := dispatch.New(dispatch.Options{
				Store:    store,
				Resolver: content.NewResolver(store, opts.IndexName),
				Array:    array,
				EventBus: eventBus,
				Logger:   logging.GetLogger("dispatch"),
			})

			apiOpts := &api.Options{
				Dispatcher: dispatcher,
				EventBus:   eventBus,
			}

			if opts.MetricsEnabled {
				m := metrics.New()
				eventCollector = collectors.NewEventCollector(m, eventBus)
				eventCollector.Start()
				apiOpts.MetricsHandler = exporters.HTTPHandler(m)
			}

			if opts.StatusLEDEnabled {
				logger.Info("Status LED enabled, initializing")
				ledController := led.NewController(ledLogger)
				ledManager = led.NewManager(ledController, eventBus, ledLogger)
				ledManager.Start()
				apiOpts.LEDController = ledController
			}

			server = api.NewServer(apiOpts)

			if applyErr := dispatcher.Apply(initial, events.SourceBoot); applyErr != nil {
				logger.Warn("Failed to apply initial color", "error", applyErr)
			}

			watcher = config.NewConfigWatcher(opts.Config, config.LoadLoggingConfig, logging.GetLogger("config"))
			watcher.OnReload(func(cfg logging.Config) {
				logger.Info("Config changed, updating log levels", "level", cfg.Level)
				logging.SetLevels(cfg)
			})
			if startErr := watcher.Start(); startErr != nil {
				logger.Warn("Failed to start config watcher, hot-reload disabled", "error", startErr)
			}

			if opts.MDNSEnabled {
				advertiser, err = mdns.Start(opts.Hostname, logging.GetLogger("mdns"))
				if err != nil {
					logger.Error("Failed to start mDNS responder", "error", err)
					os.Exit(1)
				}
			}

			if _, notifyErr := daemon.SdNotify(false, daemon.SdNotifyReady); notifyErr != nil {
				logger.Debug("sd_notify failed", "error", notifyErr)
			}

			logger.Info("Starting HTTP server", "port", opts.Port, "leds", array.Len())
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

			if server != nil {
				if stopErr := server.Stop(); stopErr != nil {
					logger.Error("Error stopping HTTP server", "error", stopErr)
				}
			}
			if advertiser != nil {
				if closeErr := advertiser.Close(); closeErr != nil {
					logger.Warn("Error stopping mDNS responder", "error", closeErr)
				}
			}
			if watcher != nil {
				_ = watcher.Stop()
			}
			if ledManager != nil {
				ledManager.Stop()
			}
			if eventCollector != nil {
				eventCollector.Stop()
			}
			if array != nil {
				if closeErr := array.Close(); closeErr != nil {
					logger.Error("Error closing LED strip", "error", closeErr)
				}
			}
		})
	})

	cli.Root().Version = version.Get().String()
	cli.Root().AddCommand(cmd.CreateDecodeCmd())
	cli.Root().AddCommand(cmd.CreateSetColorCmd())

	cli.Run()
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oleps69/discord-bot/audit"
	"github.com/oleps69/discord-bot/config"
	"github.com/oleps69/discord-bot/discord"
	"github.com/oleps69/discord-bot/gemini"
	"github.com/oleps69/discord-bot/metrics"
	"github.com/oleps69/discord-bot/moderation"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
)

var version = "dev"

type bot struct {
	session *discordgo.Session
	state   *moderation.State
	journal audit.Journal
}

func buildBot(cfg *config.Config, token, geminiKey string, dryRun bool) (*bot, error) {
	var journal audit.Journal
	if cfg.Audit.Enabled {
		j, err := audit.NewBadgerJournal(cfg.Audit.Path, cfg.Audit.Retention)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize audit journal: %w", err)
		}
		journal = j
	}

	closeJournal := func() {
		if journal != nil {
			_ = journal.Close()
		}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		closeJournal()
		return nil, fmt.Errorf("failed to create gateway session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentMessageContent

	state := moderation.NewState()
	actions := discord.NewActions(session, cfg.Discord.OwnerCacheSize, cfg.Discord.OwnerCacheTTL)

	pipeline, err := moderation.NewPipeline(&cfg.Moderation, state, actions, journal, dryRun)
	if err != nil {
		closeJournal()
		return nil, fmt.Errorf("failed to build moderation pipeline: %w", err)
	}

	var geminiClient *gemini.Client
	if geminiKey != "" {
		geminiClient = gemini.NewClient(geminiKey, cfg.Gemini.Model, cfg.Gemini.Endpoint,
			cfg.Gemini.Timeout, cfg.Gemini.RequestsPerMinute, cfg.Gemini.Burst)
	} else {
		slog.Warn("GEMINI_API_KEY is not set, the /ai command will be disabled.")
	}

	handler := discord.NewHandler(pipeline, discord.NewAdmin(state), actions, geminiClient)
	handler.Register(session)

	return &bot{session: session, state: state, journal: journal}, nil
}

func main() {
	showVersion := flag.Bool("version", false, "Show bot version and exit")
	configPath := flag.String("config", "./config.toml", "Path to the configuration file.")
	useDefaults := flag.Bool("use-defaults", false, "Run with internal defaults if the config file is missing.")
	validateConfig := flag.Bool("validate", false, "Validate the configuration file and exit.")
	dryRun := flag.Bool("dry-run", false, "Log what would be enforced without acting on it.")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}
	if *validateConfig {
		if _, _, err := config.Load(*configPath, false); err != nil {
			fmt.Fprintf(os.Stderr, "Configuration is INVALID: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Configuration is VALID.")
		return
	}
	if err := runApp(*configPath, *useDefaults, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "Application run failed: %v\n", err)
		os.Exit(1)
	}
}

func runApp(configPath string, useDefaults bool, dryRun bool) error {
	// A missing .env file is fine; secrets may come from the real env.
	_ = godotenv.Load()

	cfg, defaultsUsed, err := config.Load(configPath, useDefaults)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.Level.ToSlogLevel()}))
	slog.SetDefault(logger)
	if dryRun {
		slog.Warn("Bot is running in DRY-RUN mode.")
	}
	slog.Info("Moderation bot starting up", "version", version, "config_path", configPath, "using_defaults", defaultsUsed)

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return errors.New("BOT_TOKEN environment variable must be set")
	}
	geminiKey := os.Getenv("GEMINI_API_KEY")

	b, err := buildBot(cfg, token, geminiKey, dryRun)
	if err != nil {
		return err
	}
	defer func() {
		if b.journal != nil {
			if err := b.journal.Close(); err != nil {
				slog.Error("Failed to close audit journal", "error", err)
			}
		}
	}()

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	defer func() {
		if err := b.session.Close(); err != nil {
			slog.Error("Failed to close gateway session", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr)
	}

	// Hot reload applies new preloaded terms to the live registry; the
	// escalation thresholds and wiring need a restart to change.
	onReload := func(newCfg *config.Config) {
		applied := 0
		for _, rule := range newCfg.Moderation.Terms {
			level, err := moderation.ParseStrictnessLevel(rule.Level)
			if err != nil {
				slog.Error("Ignoring invalid term in reloaded config", "term", rule.Term, "error", err)
				continue
			}
			if err := b.state.Registry.Register(rule.Guild, rule.Term, level); err != nil {
				slog.Error("Ignoring invalid term in reloaded config", "term", rule.Term, "error", err)
				continue
			}
			applied++
		}
		slog.Info("Applied reloaded banned-term config", "terms", applied)
	}
	go config.StartWatcher(ctx, configPath, onReload, 0)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Bot is running. Press Ctrl+C to exit.")
	<-shutdownChan
	slog.Info("Received shutdown signal, shutting down gracefully...")
	return nil
}

func serveMetrics(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Metrics listener failed", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/podgrab-go/internal/app"
	"github.com/yourusername/podgrab-go/internal/domain"
	"github.com/yourusername/podgrab-go/internal/infrastructure"
	"github.com/yourusername/podgrab-go/pkg/logger"
)

// errRunFailures makes the process exit 1 after a run with failed entries
var errRunFailures = errors.New("one or more episodes failed to download")

var (
	configPath string
	logLevel   string
	rootCmd    = &cobra.Command{
		Use:   "podgrab",
		Short: "PodGrabber - download podcast episodes from RSS feeds",
		Long: `Pick a feed from your library or paste a feed URL, choose episodes by letter,
keyword, count or title, and download them into the configured folder.`,
		SilenceUsage: true,
		RunE:         runInteractive,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", app.DefaultConfigPath, "Config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	rootCmd.AddCommand(grabCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// runtime holds the wired components shared by all commands
type runtime struct {
	config   *domain.Config
	log      *zap.Logger
	feeds    *infrastructure.FeedSource
	library  *infrastructure.JSONLibrary
	history  *infrastructure.SQLiteHistoryRepository
	selector *app.EpisodeSelector
	manager  *app.DownloadManager
}

// bootstrap loads configuration and wires every component
func bootstrap() (*runtime, error) {
	config, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}

	log, err := logger.New(logger.Config{
		Level:      config.Logging.Level,
		Format:     config.Logging.Format,
		OutputPath: config.Logging.OutputPath,
	})
	if err != nil {
		log = logger.NewDefault()
		log.Warn("Falling back to stderr logging",
			zap.String("output_path", config.Logging.OutputPath),
			zap.Error(err))
	}

	history, err := infrastructure.NewSQLiteHistoryRepository(config.HistoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	notifier := infrastructure.NewNotificationService(&config.Notification, log)
	transfer := infrastructure.NewHTTPTransfer(&config.HTTP)

	log.Debug("PodGrabber initialized",
		zap.String("config", configPath),
		zap.String("download_folder", config.DownloadFolder),
		zap.String("library", config.LibraryPath),
		zap.String("history", config.HistoryPath))

	return &runtime{
		config:   config,
		log:      log,
		feeds:    infrastructure.NewFeedSource(&config.HTTP, &config.Feed, log),
		library:  infrastructure.NewJSONLibrary(config.LibraryPath),
		history:  history,
		selector: app.NewEpisodeSelector(),
		manager:  app.NewDownloadManager(transfer, history, notifier, &config.HTTP, log),
	}, nil
}

// Close releases the history database and flushes logs
func (r *runtime) Close() {
	if err := r.history.Close(); err != nil {
		r.log.Warn("Failed to close history database", zap.Error(err))
	}
	r.log.Sync()
}

func runInteractive(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.Close()

	session := app.NewSession(app.SessionConfig{
		In:       os.Stdin,
		Out:      os.Stdout,
		Feeds:    rt.feeds,
		Library:  rt.library,
		Selector: rt.selector,
		Manager:  rt.manager,
		Folder:   rt.config.DownloadFolder,
		Progress: newBarSink(os.Stdout),
		Logger:   rt.log,
	})
	return session.Run(cmd.Context())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRunFailures) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		stop()
		os.Exit(1)
	}
}

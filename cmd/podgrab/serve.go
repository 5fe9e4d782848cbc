package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/podgrab-go/api"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		if cmd.Flags().Changed("host") {
			rt.config.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			rt.config.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		gin.SetMode(gin.ReleaseMode)
		router := api.SetupRouter(api.Dependencies{
			Feeds:       rt.feeds,
			Library:     rt.library,
			History:     rt.history,
			Selector:    rt.selector,
			DownloadMgr: rt.manager,
			Folder:      rt.config.DownloadFolder,
		}, rt.log)

		addr := fmt.Sprintf("%s:%d", rt.config.Server.Host, rt.config.Server.Port)
		server := &http.Server{
			Addr:    addr,
			Handler: router,
		}

		errCh := make(chan error, 1)
		go func() {
			rt.log.Info("HTTP server listening", zap.String("addr", addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
			close(errCh)
		}()
		fmt.Printf("PodGrabber API listening on http://%s\n", addr)

		select {
		case <-cmd.Context().Done():
			rt.log.Info("Received shutdown signal")
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
		}

		rt.log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			rt.log.Error("Server forced to shutdown", zap.Error(err))
			return err
		}

		rt.log.Info("Server exited")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (defaults to server.host)")
	serveCmd.Flags().Int("port", 0, "Listen port (defaults to server.port)")
}

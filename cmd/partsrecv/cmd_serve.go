package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"partsrecv/internal/database"
	"partsrecv/internal/handlers"
	"partsrecv/internal/services"
	"partsrecv/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the station server",
	Long: `Starts the HTTP API backing the workstation and the handheld
scanners: scan sync, purchase order import, reconciliation and pairing.
When a feed watch directory is configured, exports dropped there are
imported automatically.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.FeedWatchDir != "" {
		w := watcher.New(cfg.FeedWatchDir, services.NewFeedService(db), logger)
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("feed watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handlers.NewRouter(cfg, db, logger),
	}

	printBanner()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printBanner() {
	ip := localIP()
	fmt.Println()
	fmt.Println("  GM Parts Receiving - Server Running")
	fmt.Println("  ============================================")
	fmt.Printf("  Workstation:  http://localhost:%s\n", cfg.Port)
	fmt.Printf("  Scanner:      http://%s:%s\n", ip, cfg.Port)
	fmt.Println("  ============================================")
	if cfg.PairingCode != "" {
		fmt.Println("  Scanner pairing: code required")
	}
	fmt.Println("  Scanner > Workstation sync: ENABLED")
	fmt.Println()
}

func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "localhost"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return "localhost"
}

package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/api"
	"github.com/bplaunch/bplaunch/internal/app"
	"github.com/bplaunch/bplaunch/internal/log"
)

// DefaultAddr is where the local API listens unless --addr says otherwise.
const DefaultAddr = "127.0.0.1:7341"

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the local HTTP API for GUI shells.",
	Long: `Serves the launcher commands over HTTP on a local address until
interrupted or until POST /quit is received.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		if _, err := facade.Initialize(); err != nil {
			log.Fatal("Failed to initialize settings: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		facade.Quitter = stop

		srv := startAPI(facade, serveAddr)
		<-ctx.Done()
		shutdownAPI(srv)
	},
}

// startAPI serves the facade on addr in the background.
func startAPI(facade *app.Facade, addr string) *http.Server {
	if !log.Verbose() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := api.NewRouter(facade, gin.LoggerWithWriter(log.Stdout))
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("API listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("API server failed: %v", err)
		}
	}()
	return srv
}

func shutdownAPI(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("API shutdown: %v", err)
	}
	log.Info("API stopped.")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", DefaultAddr, "Listen address")
}

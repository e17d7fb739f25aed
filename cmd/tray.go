package cmd

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/tray"
)

var (
	trayAPIAddr string
	minimized   bool
)

// trayCmd represents the tray command
var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Runs the system tray menu.",
	Long: `Shows a tray icon whose menu lists the configured sites and proxies for
one-click launch. The menu is rebuilt whenever the settings are saved from
this process, and on "Reload". With --api the local HTTP API is served too,
so a GUI shell can drive the same process.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		synchronizer := tray.NewSynchronizer(facade.Store, tray.NewSystrayHost())
		synchronizer.SetClickHandler(tray.ClickHandler(facade))
		facade.Tray = synchronizer
		facade.Quitter = tray.Quit

		var srv *http.Server
		onReady := func() {
			if _, err := facade.Initialize(); err != nil {
				log.Error("Failed to initialize settings: %v", err)
			}
			// syncs launch_on_startup with the OS before the first menu
			if _, err := facade.LoadSettings(); err != nil {
				log.Error("Failed to load settings: %v", err)
			}
			if err := facade.RefreshTray(); err != nil {
				log.Error("%v", err)
			}
			if trayAPIAddr != "" {
				srv = startAPI(facade, trayAPIAddr)
			}
			log.Debug("tray ready (minimized: %t)", minimized)
		}
		onExit := func() {
			if srv != nil {
				shutdownAPI(srv)
			}
			if err := synchronizer.Close(); err != nil {
				log.Warn("%v", err)
			}
		}
		tray.Run(onReady, onExit)
	},
}

func init() {
	rootCmd.AddCommand(trayCmd)
	trayCmd.Flags().StringVar(&trayAPIAddr, "api", "", "Also serve the HTTP API on this address, e.g. "+DefaultAddr)
	trayCmd.Flags().BoolVar(&minimized, "minimized", false, "Start without showing a window (used by autostart)")
}

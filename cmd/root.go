package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/app"
	"github.com/bplaunch/bplaunch/internal/autostart"
	"github.com/bplaunch/bplaunch/internal/browser"
	"github.com/bplaunch/bplaunch/internal/cache"
	"github.com/bplaunch/bplaunch/internal/launch"
	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
	"github.com/bplaunch/bplaunch/internal/util"
)

var (
	configDir      string
	verbose        bool
	refreshBrowser bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bplaunch",
	Short: "Launch browsers through named proxies with isolated profiles.",
	Long: `bplaunch keeps a list of sites and proxies and starts Chrome or Edge
configured to reach each site through its proxy, with one isolated browser
profile per site or proxy test. Run 'bplaunch tray' for the system tray menu
or 'bplaunch serve' for the local HTTP API used by GUI shells.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Settings directory (default $"+settings.ConfigDirEnv+" or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// openStore resolves the settings directory from the flag, the environment
// or the OS default.
func openStore() (*settings.Store, error) {
	dir := configDir
	if dir == "" {
		d, err := settings.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	dir, err := util.AbsPath(dir)
	if err != nil {
		return nil, err
	}
	log.Debug("using settings directory %s", dir)
	return settings.NewStore(dir)
}

// newFacade builds the facade used by every command. Commands that need a
// tray or a quit hook attach them afterwards.
func newFacade() *app.Facade {
	store, err := openStore()
	if err != nil {
		log.Fatal("Failed to open settings: %v", err)
	}

	var detector browser.Detector = browser.SystemDetector{}
	if c, err := cache.New(store.CacheDir(), cache.DefaultTTL); err != nil {
		log.Warn("Browser detection cache disabled: %v", err)
	} else {
		detector = &browser.CachedDetector{Detector: detector, Cache: c, Refresh: refreshBrowser}
	}

	return app.New(store, detector, autostart.Default(), launch.ExecLauncher{})
}

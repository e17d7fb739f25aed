package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/log"
)

// autostartCmd represents the autostart command
var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Show or change whether the tray starts at login.",
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows whether autostart is enabled.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		enabled, err := newFacade().GetAutostartStatus()
		if err != nil {
			log.Fatal("%v", err)
		}
		if enabled {
			log.Success("Autostart is enabled.")
		} else {
			log.Info("Autostart is disabled.")
		}
	},
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Starts the tray at login.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setAutostart(true)
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stops starting the tray at login.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setAutostart(false)
	},
}

// setAutostart changes the OS registration and records it in the settings.
func setAutostart(enabled bool) {
	facade := newFacade()
	if err := facade.SetAutostart(enabled); err != nil {
		log.Fatal("%v", err)
	}
	// LoadSettings syncs launch_on_startup to the new registration.
	if _, err := facade.LoadSettings(); err != nil {
		log.Warn("Autostart changed but settings could not be updated: %v", err)
	}
	if enabled {
		log.Success("Autostart enabled.")
	} else {
		log.Success("Autostart disabled.")
	}
}

func init() {
	rootCmd.AddCommand(autostartCmd)
	autostartCmd.AddCommand(autostartStatusCmd, autostartEnableCmd, autostartDisableCmd)
}

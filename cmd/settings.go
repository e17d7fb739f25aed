package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/exchange"
	"github.com/bplaunch/bplaunch/internal/log"
)

var settingsFormat string

// settingsCmd represents the settings command
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or replace the launcher settings.",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the current settings.",
	Long: `Prints the settings document, with launch_on_startup synced to the OS
autostart registration. --format selects json (default), yaml or toml.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		var format exchange.Format
		switch strings.ToLower(settingsFormat) {
		case "", "json":
			format = exchange.JSON
		case "yaml", "yml":
			format = exchange.YAML
		case "toml":
			format = exchange.TOML
		default:
			log.Fatal("Unknown format '%s' (want json, yaml or toml)", settingsFormat)
		}

		cfg, err := newFacade().LoadSettings()
		if err != nil {
			log.Fatal("Failed to load settings: %v", err)
		}
		data, err := exchange.Encode(cfg, format)
		if err != nil {
			log.Fatal("%v", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Prints the location of the settings file.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), newFacade().GetSettingsPath())
	},
}

var settingsApplyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Replaces the settings with a document, without keeping a backup.",
	Long: `Saves the given json, yaml or toml document as the settings. Sites that
reference a missing proxy are dropped, autostart is applied and a running
tray is not notified. Use 'import' to keep a backup of the current settings.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := expandArg(args[0])
		cfg, err := exchange.Import(path)
		if err != nil {
			log.Fatal("%v", err)
		}
		if err := newFacade().SaveSettings(cfg); err != nil {
			log.Fatal("Failed to save settings: %v", err)
		}
		log.Success("Applied settings from %s", path)
	},
}

var settingsBrowserPathCmd = &cobra.Command{
	Use:   "browser-path <browser-id> [file]",
	Short: "Points a browser at another executable.",
	Long: `Changes the executable of a configured browser. Without a file a native
file dialog is shown.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		path := pathArg(args[1:], func() (string, error) {
			return picker.OpenExecutable("Select browser executable", "")
		})
		if path == "" {
			return
		}
		b, err := facade.SetBrowserPath(args[0], path)
		if err != nil {
			log.Fatal("%v", err)
		}
		log.Success("Browser '%s' now uses %s", b.Name, b.Path)
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsPathCmd, settingsApplyCmd, settingsBrowserPathCmd)
	settingsShowCmd.Flags().StringVarP(&settingsFormat, "format", "f", "json", "Output format: json, yaml or toml")
}

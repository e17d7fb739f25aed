package cmd

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/dialog"
	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/util"
)

var picker dialog.Picker = dialog.Native{}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Writes the settings to a json, yaml or toml file.",
	Long: `Writes the settings to the given file, in the format its extension names.
Without a file a native save dialog is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		path := pathArg(args, func() (string, error) {
			return picker.SaveFile("Export settings", filepath.Join(facade.Store.ConfigDir(), "settings-export.json"))
		})
		if path == "" {
			return
		}
		if err := facade.ExportSettings(path); err != nil {
			log.Fatal("Failed to export settings: %v", err)
		}
		log.Success("Settings exported to %s", path)
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replaces the settings with a json, yaml or toml file.",
	Long: `Backs up the current settings, then saves the given file as the settings.
Sites that reference a missing proxy are dropped. Without a file a native
open dialog is shown.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		path := pathArg(args, func() (string, error) {
			return picker.OpenFile("Import settings", facade.Store.ConfigDir())
		})
		if path == "" {
			return
		}
		cfg, err := facade.ImportSettings(path)
		if err != nil {
			log.Fatal("Failed to import settings: %v", err)
		}
		log.Success("Imported %d site(s) and %d proxy(ies) from %s", len(cfg.Sites), len(cfg.Proxies), path)
	},
}

// pathArg returns the expanded file argument, or asks pick for one. An empty
// result means the user canceled.
func pathArg(args []string, pick func() (string, error)) string {
	if len(args) == 1 {
		return expandArg(args[0])
	}
	path, err := pick()
	if errors.Is(err, dialog.ErrCanceled) {
		log.Info("No file selected.")
		return ""
	}
	if err != nil {
		log.Fatal("%v; pass the file as an argument instead", err)
	}
	return path
}

func expandArg(arg string) string {
	path, err := util.AbsPath(arg)
	if err != nil {
		log.Fatal("Invalid path '%s': %v", arg, err)
	}
	return path
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}

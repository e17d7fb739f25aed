package cmd

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/log"
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Lists the browsers installed on this machine.",
	Long: `Probes the usual install locations of Google Chrome and Microsoft Edge.
Results are cached for a day; use --refresh to scan again. The settings
are not changed.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()

		s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
		s.Suffix = " Detecting browsers..."
		s.Writer = log.Stderr
		s.Start()
		browsers := facade.DetectBrowsers()
		s.Stop()

		if len(browsers) == 0 {
			log.Warn("No supported browser found.")
			return
		}
		log.Success("Found %d browser(s):", len(browsers))
		for _, b := range browsers {
			log.Detail("  %-8s %-16s %s", b.ID, b.Name, b.Path)
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().BoolVar(&refreshBrowser, "refresh", false, "Ignore the detection cache")
}

package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
)

var assumeYes bool

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove",
	Short:   "Remove sites or proxies.",
	Long:    `Parent command for removing sites and proxies.`,
	Aliases: []string{"rm"},
}

var removeSiteCmd = &cobra.Command{
	Use:   "site [id]",
	Short: "Removes a site.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		cfg, err := facade.Store.Load()
		if err != nil {
			log.Fatal("Failed to load settings: %v", err)
		}
		id := idArg(args, func() (string, error) { return pickSite(cfg, "Remove site:") })

		site, ok := cfg.FindSite(id)
		if !ok {
			log.Fatal("Site with ID %s not found", id)
		}
		if !confirm(fmt.Sprintf("Remove site '%s'?", site.Name)) {
			log.Info("Nothing removed.")
			return
		}
		if err := facade.RemoveSite(id); err != nil {
			log.Fatal("%v", err)
		}
		log.Success("Removed site '%s'.", site.Name)
	},
}

var removeProxyCmd = &cobra.Command{
	Use:   "proxy [id]",
	Short: "Removes a proxy and the sites that use it.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		cfg, err := facade.Store.Load()
		if err != nil {
			log.Fatal("Failed to load settings: %v", err)
		}
		id := idArg(args, func() (string, error) { return pickProxy(cfg, "Remove proxy:") })

		proxy, ok := cfg.FindProxy(id)
		if !ok {
			log.Fatal("Proxy with ID %s not found", id)
		}
		message := fmt.Sprintf("Remove proxy '%s'?", proxy.Name)
		if users := sitesUsing(cfg, id); users > 0 {
			message = fmt.Sprintf("Remove proxy '%s' and the %d site(s) that use it?", proxy.Name, users)
		}
		if !confirm(message) {
			log.Info("Nothing removed.")
			return
		}

		removed, err := facade.RemoveProxy(id)
		if err != nil {
			log.Fatal("%v", err)
		}
		log.Success("Removed proxy '%s'.", proxy.Name)
		for _, siteID := range removed {
			log.Detail("  also removed site %s", siteID)
		}
	},
}

func sitesUsing(cfg *settings.AppSettings, proxyID string) int {
	n := 0
	for _, s := range cfg.Sites {
		if s.ProxyID == proxyID {
			n++
		}
	}
	return n
}

// confirm asks a yes/no question unless --yes was given.
func confirm(message string) bool {
	if assumeYes {
		return true
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		log.Fatal("Aborted: %v", err)
	}
	return ok
}

func init() {
	rootCmd.AddCommand(removeCmd)
	removeCmd.AddCommand(removeSiteCmd, removeProxyCmd)
	removeCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

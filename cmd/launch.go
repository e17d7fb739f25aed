package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
)

// launchCmd represents the launch command
var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Opens a site, or tests a proxy, in an isolated browser profile.",
}

var launchSiteCmd = &cobra.Command{
	Use:   "site [id]",
	Short: "Opens a site through its browser and proxy.",
	Long:  `Opens the site with the given id. Without an id, pick one from a list.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		id := idArg(args, func() (string, error) {
			cfg, err := facade.Store.Load()
			if err != nil {
				return "", err
			}
			return pickSite(cfg, "Launch site:")
		})
		if err := facade.LaunchSite(id); err != nil {
			log.Fatal("%v", err)
		}
	},
}

var launchProxyCmd = &cobra.Command{
	Use:   "proxy [id]",
	Short: "Opens the default browser through a proxy.",
	Long: `Opens the default browser wired to the proxy with the given id, at the
default launch URL if one is set. Without an id, pick one from a list.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		id := idArg(args, func() (string, error) {
			cfg, err := facade.Store.Load()
			if err != nil {
				return "", err
			}
			return pickProxy(cfg, "Test proxy:")
		})
		if err := facade.LaunchProxy(id); err != nil {
			log.Fatal("%v", err)
		}
	},
}

// idArg returns the id argument or asks pick for one.
func idArg(args []string, pick func() (string, error)) string {
	if len(args) == 1 {
		return args[0]
	}
	id, err := pick()
	if err != nil {
		log.Fatal("%v", err)
	}
	return id
}

// pickSite asks the user to choose a site and returns its id.
func pickSite(cfg *settings.AppSettings, message string) (string, error) {
	if len(cfg.Sites) == 0 {
		return "", fmt.Errorf("no sites configured, use 'bplaunch add site' to add one")
	}
	options := make([]string, len(cfg.Sites))
	for i, s := range cfg.Sites {
		options[i] = fmt.Sprintf("%s (%s)", s.Name, s.URL)
	}
	return choose(message, options, func(i int) string { return cfg.Sites[i].ID })
}

// pickProxy asks the user to choose a proxy and returns its id.
func pickProxy(cfg *settings.AppSettings, message string) (string, error) {
	if len(cfg.Proxies) == 0 {
		return "", fmt.Errorf("no proxies configured, use 'bplaunch add proxy' to add one")
	}
	options := make([]string, len(cfg.Proxies))
	for i, p := range cfg.Proxies {
		options[i] = fmt.Sprintf("%s (%s)", p.Name, describeProxy(p))
	}
	return choose(message, options, func(i int) string { return cfg.Proxies[i].ID })
}

func choose(message string, options []string, idAt func(int) string) (string, error) {
	var index int
	prompt := &survey.Select{Message: message, Options: options}
	if err := survey.AskOne(prompt, &index); err != nil {
		return "", fmt.Errorf("selection aborted: %w", err)
	}
	return idAt(index), nil
}

func describeProxy(p settings.ProxyRecord) string {
	switch p.Kind() {
	case settings.KindPAC:
		if p.PacURL == "" {
			return "pac, no url"
		}
		return "pac " + p.PacURL
	case settings.KindUnknown:
		return p.Type
	default:
		return fmt.Sprintf("%s %s:%d", p.Kind(), p.Host, p.Port)
	}
}

func init() {
	rootCmd.AddCommand(launchCmd)
	launchCmd.AddCommand(launchSiteCmd, launchProxyCmd)
}

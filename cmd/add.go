package cmd

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/bplaunch/bplaunch/internal/log"
	"github.com/bplaunch/bplaunch/internal/settings"
)

var (
	newSite    settings.SiteRecord
	newProxy   settings.ProxyRecord
	newBrowser settings.BrowserRecord
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add browsers, sites or proxies.",
	Long:  `Parent command for adding browsers, sites and proxies. Values not given as flags are asked for.`,
}

var addSiteCmd = &cobra.Command{
	Use:   "site",
	Short: "Adds a site.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		// first run: fills the browser list from detection
		cfg, err := facade.Initialize()
		if err != nil {
			log.Fatal("Failed to load settings: %v", err)
		}

		site := newSite
		var qs []*survey.Question
		if site.Name == "" {
			qs = append(qs, &survey.Question{Name: "name", Prompt: &survey.Input{Message: "Site name:"}, Validate: survey.Required})
		}
		if site.URL == "" {
			qs = append(qs, &survey.Question{Name: "url", Prompt: &survey.Input{Message: "URL:", Default: "https://"}, Validate: survey.Required})
		}
		answers := struct {
			Name string
			URL  string `survey:"url"`
		}{}
		if len(qs) > 0 {
			if err := survey.Ask(qs, &answers); err != nil {
				log.Fatal("Aborted: %v", err)
			}
		}
		if site.Name == "" {
			site.Name = answers.Name
		}
		if site.URL == "" {
			site.URL = answers.URL
		}

		if site.BrowserID == "" {
			site.BrowserID = askBrowser(cfg)
		}
		if !cmd.Flags().Changed("proxy") && len(cfg.Proxies) > 0 {
			site.ProxyID = askOptionalProxy(cfg)
		}

		created, err := facade.AddSite(site)
		if err != nil {
			log.Fatal("%v", err)
		}
		log.Success("Added site '%s' (%s)", created.Name, created.ID)
	},
}

func askBrowser(cfg *settings.AppSettings) string {
	switch len(cfg.Browsers) {
	case 0:
		log.Fatal("No browsers configured. Install Chrome or Edge, or add one with 'bplaunch add browser'.")
	case 1:
		return cfg.Browsers[0].ID
	}
	options := make([]string, len(cfg.Browsers))
	var def string
	for i, b := range cfg.Browsers {
		options[i] = b.Name
		if b.ID == cfg.DefaultBrowserID {
			def = b.Name
		}
	}
	if def == "" {
		def = options[0]
	}
	var index int
	if err := survey.AskOne(&survey.Select{Message: "Browser:", Options: options, Default: def}, &index); err != nil {
		log.Fatal("Aborted: %v", err)
	}
	return cfg.Browsers[index].ID
}

func askOptionalProxy(cfg *settings.AppSettings) string {
	options := []string{"(no proxy)"}
	for _, p := range cfg.Proxies {
		options = append(options, fmt.Sprintf("%s (%s)", p.Name, describeProxy(p)))
	}
	var index int
	if err := survey.AskOne(&survey.Select{Message: "Proxy:", Options: options}, &index); err != nil {
		log.Fatal("Aborted: %v", err)
	}
	if index == 0 {
		return ""
	}
	return cfg.Proxies[index-1].ID
}

var addBrowserCmd = &cobra.Command{
	Use:   "browser",
	Short: "Adds a browser by its executable.",
	Long: `Adds a Chromium-based browser that detection did not find. Without
--path a native file dialog is shown.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		facade := newFacade()
		browser := newBrowser
		if browser.Path == "" {
			browser.Path = pathArg(nil, func() (string, error) {
				return picker.OpenExecutable("Select browser executable", "")
			})
			if browser.Path == "" {
				return
			}
		} else {
			browser.Path = expandArg(browser.Path)
		}
		if browser.Name == "" {
			if err := survey.AskOne(&survey.Input{Message: "Browser name:"}, &browser.Name, survey.WithValidator(survey.Required)); err != nil {
				log.Fatal("Aborted: %v", err)
			}
		}

		created, err := facade.AddBrowser(browser)
		if err != nil {
			log.Fatal("%v", err)
		}
		log.Success("Added browser '%s' (%s)", created.Name, created.ID)
		log.Detail("Path: %s", created.Path)
	},
}

var addProxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Adds an http, socks5 or pac proxy.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		proxy := newProxy
		if proxy.Name == "" {
			if err := survey.AskOne(&survey.Input{Message: "Proxy name:"}, &proxy.Name, survey.WithValidator(survey.Required)); err != nil {
				log.Fatal("Aborted: %v", err)
			}
		}
		if proxy.Type == "" {
			if err := survey.AskOne(&survey.Select{Message: "Type:", Options: []string{"http", "socks5", "pac"}}, &proxy.Type); err != nil {
				log.Fatal("Aborted: %v", err)
			}
		}

		switch proxy.Kind() {
		case settings.KindPAC:
			if proxy.PacURL == "" && !cmd.Flags().Changed("pac-url") {
				if err := survey.AskOne(&survey.Input{Message: "PAC URL (empty for none):"}, &proxy.PacURL); err != nil {
					log.Fatal("Aborted: %v", err)
				}
			}
		case settings.KindHTTP, settings.KindSOCKS5:
			if proxy.Host == "" {
				if err := survey.AskOne(&survey.Input{Message: "Host:"}, &proxy.Host, survey.WithValidator(survey.Required)); err != nil {
					log.Fatal("Aborted: %v", err)
				}
			}
			if proxy.Port == 0 {
				var port string
				if err := survey.AskOne(&survey.Input{Message: "Port:"}, &port, survey.WithValidator(validPort)); err != nil {
					log.Fatal("Aborted: %v", err)
				}
				proxy.Port, _ = strconv.Atoi(port)
			}
		}

		created, err := newFacade().AddProxy(proxy)
		if err != nil {
			log.Fatal("%v", err)
		}
		log.Success("Added proxy '%s' (%s)", created.Name, created.ID)
	},
}

func validPort(ans interface{}) error {
	s, _ := ans.(string)
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.AddCommand(addBrowserCmd, addSiteCmd, addProxyCmd)

	addBrowserCmd.Flags().StringVar(&newBrowser.ID, "id", "", "Browser id; generated when empty")
	addBrowserCmd.Flags().StringVar(&newBrowser.Name, "name", "", "Display name")
	addBrowserCmd.Flags().StringVar(&newBrowser.Path, "path", "", "Browser executable")

	addSiteCmd.Flags().StringVar(&newSite.Name, "name", "", "Site name")
	addSiteCmd.Flags().StringVar(&newSite.URL, "url", "", "Site URL")
	addSiteCmd.Flags().StringVar(&newSite.BrowserID, "browser", "", "Browser id (see 'bplaunch detect')")
	addSiteCmd.Flags().StringVar(&newSite.ProxyID, "proxy", "", "Proxy id; pass an empty value for none")

	addProxyCmd.Flags().StringVar(&newProxy.Name, "name", "", "Proxy name")
	addProxyCmd.Flags().StringVar(&newProxy.Type, "type", "", "http, socks5 or pac")
	addProxyCmd.Flags().StringVar(&newProxy.Host, "host", "", "Proxy host")
	addProxyCmd.Flags().IntVar(&newProxy.Port, "port", 0, "Proxy port")
	addProxyCmd.Flags().StringVar(&newProxy.Username, "username", "", "Username, used only together with a password")
	addProxyCmd.Flags().StringVar(&newProxy.Password, "password", "", "Password, used only together with a username")
	addProxyCmd.Flags().StringVar(&newProxy.PacURL, "pac-url", "", "PAC file URL")
}

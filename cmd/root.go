/*
Copyright © 2023 Chris Collins 'collins.christopher@gmail.com'

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clcollins/nowdesk/pkg/launcher"
	"github.com/clcollins/nowdesk/pkg/snow"
	"github.com/clcollins/nowdesk/pkg/tui"
)

const cfgFile = "nowdesk.yaml"
const cfgFilePath = ".config/nowdesk/"
const envPrefix = "NOWDESK"

var debug bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nowdesk",
	Short: "TUI for ServiceNow incident tasks",
	Long: `'nowdesk' is a TUI application for common ServiceNow
incident tasks.  It is intended to be used by on-call engineers
to raise incidents, review and resolve open incidents, and
subscribe users to notifications.  It is not intended to be a
full-featured ServiceNow client, but rather a simple tool to
make the common tasks quicker.`,
	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			log.SetLevel(log.DebugLevel)
			for k, v := range viper.GetViper().AllSettings() {
				if secretKey(k) {
					v = "*****"
				}
				log.Debug("Found key", k, v)
			}
		}

		reg := prometheus.NewRegistry()
		client, err := newClient(viper.GetViper(), reg)
		if err != nil {
			return err
		}

		if addr := viper.GetString("metrics_address"); addr != "" {
			go serveMetrics(addr, reg)
		}

		browser, err := launcher.NewBrowserLauncher(viper.GetString("browser"))
		if err != nil {
			return err
		}

		m, _ := tui.InitialModel(consoleConfig(client, browser, viper.GetString("actor")))

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
		_, err = p.Run()
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debugging output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env in the working directory is the local development setup
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, ".env file error: "+err.Error())
	}

	// Find home directory.
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(home + "/" + cfgFilePath)
	viper.SetConfigName(cfgFile)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "Config file not found: "+err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "Config file error: "+err.Error())
		}
	}
}

// credentialsFromConfig builds the request credentials for the configured
// auth_mode.
func credentialsFromConfig(v *viper.Viper) (snow.Credentials, error) {
	switch mode := v.GetString("auth_mode"); mode {
	case snow.ModeToken:
		token := v.GetString("token")
		if token == "" {
			return nil, errors.New("auth_mode token requires 'token'")
		}
		return snow.SessionToken{Token: token}, nil

	case snow.ModeBasic:
		username, password := v.GetString("username"), v.GetString("password")
		if username == "" || password == "" {
			return nil, errors.New("auth_mode basic requires 'username' and 'password'")
		}
		return snow.BasicAuth{Username: username, Password: password}, nil

	case snow.ModeSession:
		return snow.NewSession(v.GetString("session_cookie"))

	case "":
		return nil, errors.New("missing required key: auth_mode")

	default:
		return nil, fmt.Errorf("unknown auth_mode %q; expected one of %s, %s, %s", mode, snow.ModeToken, snow.ModeBasic, snow.ModeSession)
	}
}

// newClient builds the Table API client from config, registering the
// gateway metrics on reg.
func newClient(v *viper.Viper, reg prometheus.Registerer) (*snow.Client, error) {
	creds, err := credentialsFromConfig(v)
	if err != nil {
		return nil, err
	}
	return snow.NewClient(snow.Config{
		InstanceURL: v.GetString("instance_url"),
		Credentials: creds,
		Timeout:     v.GetDuration("request_timeout"),
		Metrics:     snow.NewMetrics(reg),
	})
}

// consoleConfig wires the gateways of client into the console. Only
// session credentials put the console behind the authentication probe.
func consoleConfig(client *snow.Client, browser launcher.BrowserLauncher, actor string) tui.Config {
	cfg := tui.Config{
		Incidents:     client.Gateway(snow.IncidentResource),
		Users:         snow.NewUserLookup(client.Gateway(snow.UserResource)),
		Notifications: snow.NewNotificationLookup(client.Gateway(snow.NotificationResource)),
		Subscriptions: snow.NewSubscriptionGateway(client.Gateway(snow.SubscriptionResource)),
		InstanceURL:   client.BaseURL(),
		Actor:         actor,
		Launcher:      browser,
		Debug:         debug,
	}
	if snow.RequiresProbe(client.Credentials()) {
		cfg.Probe = client.Probe
	}
	return cfg
}

func serveMetrics(addr string, g prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	log.Info("cmd.serveMetrics", "address", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("cmd.serveMetrics", "error", err)
	}
}

func secretKey(k string) bool {
	switch k {
	case "token", "password", "session_cookie":
		return true
	}
	return false
}

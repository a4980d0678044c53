package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clcollins/nowdesk/pkg/deprecation"
	"github.com/clcollins/nowdesk/pkg/launcher"
	"github.com/clcollins/nowdesk/pkg/snow"
)

const (
	exampleConfig = `
# Example nowdesk configuration file
---
# This is an example configuration file for nowdesk.  It is intended to be used
# as a reference for the configuration options available to the user.  The
# configuration file is located at ~/.config/nowdesk/nowdesk.yaml
#
# Every key may also be set from the environment with the NOWDESK_ prefix,
# e.g. NOWDESK_INSTANCE_URL, or from a .env file in the working directory.

# Required configuration options

# ServiceNow instance
instance_url: https://<instance>.service-now.com

# How requests authenticate: token, basic or session
auth_mode: token

# auth_mode: token - the session user token (g_ck)
token: <ServiceNow user token>

# auth_mode: basic - a service account
# username: <ServiceNow user name>
# password: <ServiceNow password>

# auth_mode: session - the Cookie header of a logged-in browser session
# session_cookie: "JSESSIONID=...; glide_user_route=..."

# Optional configuration options

# Recorded as the resolver of incidents resolved or closed from nowdesk
actor: System

# Command used to open incidents in the browser
browser: xdg-open %%URL%%

# Timeout for each request to the instance
request_timeout: 30s

# Serve Prometheus metrics for the instance requests on this address
# metrics_address: localhost:9090`
)

const description = `The config command is used to create or validate the nowdesk config file.
The config file is located at ~/.config/nowdesk/nowdesk.yaml and is used to store
the configuration options for the nowdesk application.`

var (
	requiredKeys = map[string]string{
		"instance_url": "ServiceNow instance URL",
		"auth_mode":    "How requests authenticate (token, basic or session)",
	}
	modeKeys = map[string][]string{
		snow.ModeToken: {"token"},
		snow.ModeBasic: {"username", "password"},
	}
	defaultOptionalKeys = map[string]string{
		"actor":           "System",
		"browser":         launcher.DefaultCommand,
		"request_timeout": "30s",
	}
	optionalKeys = map[string]string{
		"actor":           fmt.Sprintf("Resolver recorded on resolve and close (default: %v)", defaultOptionalKeys["actor"]),
		"browser":         fmt.Sprintf("Command used to open incidents (default: %v)", defaultOptionalKeys["browser"]),
		"request_timeout": fmt.Sprintf("Timeout for each request (default: %v)", defaultOptionalKeys["request_timeout"]),
	}
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:          "config",
	Short:        "Create or validate the nowdesk config file",
	Long:         description + "\n\n" + exampleConfig,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case cmd.Flag("create").Value.String() == "true":
			// exampleConfig holds %%URL%%, so it is not passed through fmt
			_, err := io.WriteString(cmd.OutOrStdout(), exampleConfig+"\n")
			return err
		case cmd.Flag("validate").Value.String() == "true":
			err := validateConfig(viper.GetViper())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Config file is valid")
			return nil
		default:
			err := cmd.Usage()
			return err
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().BoolP("create", "c", false, "print a sample config file")
	configCmd.Flags().BoolP("validate", "v", false, "validate the config file")
	configCmd.MarkFlagsMutuallyExclusive("create", "validate")
}

// validateConfig checks the settings in v, and fills in defaults for
// missing optional keys
func validateConfig(v *viper.Viper) error {
	errs := []error{}
	settings := v.AllSettings()
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if deprecation.Deprecated(k) {
			if r, ok := deprecation.Replacement(k); ok {
				log.Warn("Found deprecated key; use its replacement instead", "key_name", k, "replacement", r)
			} else {
				log.Info("Found deprecated key; you may remove this from your config", "key_name", k)
			}
			continue
		}

		val := fmt.Sprintf("%v", settings[k])
		if secretKey(k) {
			val = "*****"
		}
		log.Debug("Found key", k, val)
	}

	for _, k := range sortedKeys(requiredKeys) {
		if !v.IsSet(k) {
			errs = append(errs, fmt.Errorf("missing required key: %s", k))
			log.Error("Missing required key", "key_name", k, "key_description", requiredKeys[k])
		}
	}

	mode := v.GetString("auth_mode")
	switch mode {
	case "":
	case snow.ModeToken, snow.ModeBasic:
		for _, k := range modeKeys[mode] {
			if !v.IsSet(k) {
				errs = append(errs, fmt.Errorf("auth_mode %s requires key: %s", mode, k))
			}
		}
	case snow.ModeSession:
		if !v.IsSet("session_cookie") {
			log.Warn("auth_mode session without session_cookie; the console will ask you to sign in")
		}
	default:
		errs = append(errs, fmt.Errorf("invalid auth_mode: %q", mode))
	}

	if u := v.GetString("instance_url"); u != "" {
		if _, err := snow.NewClient(snow.Config{InstanceURL: u, Credentials: snow.SessionToken{}}); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := launcher.NewBrowserLauncher(v.GetString("browser")); err != nil {
		errs = append(errs, err)
	}

	for _, k := range sortedKeys(optionalKeys) {
		if !v.IsSet(k) {
			log.Warn("missing optional key: " + k + "; using default value " + defaultOptionalKeys[k])
			v.SetDefault(k, defaultOptionalKeys[k])
		}
	}

	return errors.Join(errs...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

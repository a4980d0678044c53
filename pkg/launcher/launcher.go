// Package launcher opens incidents in the instance's web UI with a user
// configured command.
package launcher

import (
	"errors"
	"fmt"
	"strings"
)

// URLVar is replaced with the incident address in the browser command.
const URLVar = "%%URL%%"

// DefaultCommand is used when no browser command is configured.
const DefaultCommand = "xdg-open " + URLVar

type BrowserLauncher struct {
	Enabled bool
	command []string
}

func NewBrowserLauncher(command string) (BrowserLauncher, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}

	launcher := BrowserLauncher{
		command: strings.Fields(command),
	}

	if err := launcher.validate(); err != nil {
		return BrowserLauncher{}, err
	}

	return launcher, nil
}

func (l *BrowserLauncher) validate() error {
	errs := []error{}

	if len(l.command) == 0 {
		errs = append(errs, errors.New("browser command is not set"))
	}

	if len(l.command) > 0 && strings.Contains(l.command[0], "%%") {
		errs = append(errs, errors.New("first browser argument cannot have a replaceable"))
	}

	if !strings.Contains(strings.Join(l.command, " "), URLVar) {
		errs = append(errs, fmt.Errorf("browser command must contain %s", URLVar))
	}

	if len(errs) > 0 {
		return fmt.Errorf("launcher error: %w", errors.Join(errs...))
	}

	l.Enabled = true
	return nil
}

// BuildCommand returns the argv that opens url. The first argument is
// never substituted.
func (l *BrowserLauncher) BuildCommand(url string) []string {
	if len(l.command) == 0 {
		return nil
	}
	command := []string{l.command[0]}
	for _, arg := range l.command[1:] {
		command = append(command, strings.ReplaceAll(arg, URLVar, url))
	}
	return command
}

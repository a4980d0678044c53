package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/clcollins/nowdesk/pkg/classify"
	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/snow"
)

var incidentFilter string

// incidentGateway builds the incident gateway from the loaded config
func incidentGateway() (snow.RecordGateway, error) {
	client, err := newClient(viper.GetViper(), nil)
	if err != nil {
		return nil, err
	}
	return client.Gateway(snow.IncidentResource), nil
}

var incidentCmd = &cobra.Command{
	Use:   "incident",
	Short: "Work with incidents from the command line",
}

var incidentListCmd = &cobra.Command{
	Use:          "list",
	Short:        "List recent incidents",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := classify.ParseFilter(incidentFilter)
		if err != nil {
			return err
		}
		gw, err := incidentGateway()
		if err != nil {
			return err
		}
		return listIncidents(cmd.Context(), gw, f, cmd.OutOrStdout())
	},
}

var incidentGetCmd = &cobra.Command{
	Use:          "get <sys_id>",
	Short:        "Show a single incident",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := incidentGateway()
		if err != nil {
			return err
		}
		return showIncident(cmd.Context(), gw, args[0], cmd.OutOrStdout())
	},
}

var incidentResolveCmd = &cobra.Command{
	Use:          "resolve <sys_id>",
	Short:        "Resolve an incident",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := incidentGateway()
		if err != nil {
			return err
		}
		return transitionIncident(cmd.Context(), gw, args[0], incident.ResolvePayload(viper.GetString("actor"), time.Now()), cmd.OutOrStdout())
	},
}

var incidentCloseCmd = &cobra.Command{
	Use:          "close <sys_id>",
	Short:        "Close an incident",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := incidentGateway()
		if err != nil {
			return err
		}
		return transitionIncident(cmd.Context(), gw, args[0], incident.ClosePayload(viper.GetString("actor"), time.Now()), cmd.OutOrStdout())
	},
}

var incidentDeleteCmd = &cobra.Command{
	Use:          "delete <sys_id>",
	Short:        "Delete an incident",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := incidentGateway()
		if err != nil {
			return err
		}
		return deleteIncident(cmd.Context(), gw, args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(incidentCmd)
	incidentCmd.AddCommand(incidentListCmd, incidentGetCmd, incidentResolveCmd, incidentCloseCmd, incidentDeleteCmd)

	incidentListCmd.Flags().StringVarP(&incidentFilter, "filter", "f", string(classify.FilterAll), "show only all, active, resolved or closed incidents")
}

var (
	cliTableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	// Cells are rendered with the tail-truncating table writer, which
	// reserves a cell for the tail; the padding keeps full values intact.
	cliTableCell = lipgloss.NewStyle().Padding(0, 1)
)

func newCLITable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(cliTableBorder).
		StyleFunc(func(row, col int) lipgloss.Style { return cliTableCell })
}

func listIncidents(ctx context.Context, gw snow.RecordGateway, f classify.Filter, out io.Writer) error {
	records, err := gw.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list incidents: %w", err)
	}
	incs := incident.Filter(incident.FromRecords(records), f)
	if len(incs) == 0 {
		fmt.Fprintln(out, "No incidents found.")
		return nil
	}

	t := newCLITable().
		Headers("SYS_ID", "NUMBER", "STATE", "PRIORITY", "ASSIGNED TO", "SUMMARY")
	for _, inc := range incs {
		t.Row(inc.ID, inc.Number, inc.StateClass().Label, inc.PriorityClass().Label, inc.Assignee(), inc.Title())
	}
	fmt.Fprintln(out, t.Render())

	stats := incident.Count(incs)
	fmt.Fprintf(out, "%d incidents (%d active, %d resolved, %d closed)\n", stats.Total, stats.Active, stats.Resolved, stats.Closed)
	return nil
}

func showIncident(ctx context.Context, gw snow.RecordGateway, id string, out io.Writer) error {
	rec, err := gw.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get incident %s: %w", id, err)
	}
	inc := incident.FromRecord(rec)

	t := newCLITable().
		Row("Number", inc.Number).
		Row("Summary", inc.Title()).
		Row("State", inc.StateClass().Label).
		Row("Priority", inc.PriorityClass().Label).
		Row("Impact", orNotSpecified(classify.Impact(inc.Impact))).
		Row("Urgency", orNotSpecified(classify.Urgency(inc.Urgency))).
		Row("Assigned to", inc.Assignee()).
		Row("Caller", orNotSpecified(inc.CallerID)).
		Row("Created", incident.FormatTimestamp(inc.CreatedAt)).
		Row("Updated", incident.FormatTimestamp(inc.UpdatedAt))
	fmt.Fprintln(out, t.Render())

	if inc.Description != "" {
		fmt.Fprintln(out, inc.Description)
	}
	return nil
}

// transitionIncident applies payload unless the incident is already
// resolved or closed.
func transitionIncident(ctx context.Context, gw snow.RecordGateway, id string, payload map[string]any, out io.Writer) error {
	rec, err := gw.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get incident %s: %w", id, err)
	}
	inc := incident.FromRecord(rec)
	if inc.Terminal() {
		return fmt.Errorf("incident %s is already %s", inc.Number, inc.StateClass().Label)
	}

	rec, err = gw.Update(ctx, id, payload)
	if err != nil {
		return fmt.Errorf("failed to update incident %s: %w", inc.Number, err)
	}
	updated := incident.FromRecord(rec)
	log.Info("cmd.transitionIncident", "number", inc.Number, "state", updated.StateClass().Label)
	fmt.Fprintf(out, "%s is now %s\n", inc.Number, updated.StateClass().Label)
	return nil
}

func deleteIncident(ctx context.Context, gw snow.RecordGateway, id string, out io.Writer) error {
	ok, err := gw.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident %s: %w", id, err)
	}
	if ok {
		fmt.Fprintf(out, "deleted incident %s\n", id)
	}
	return nil
}

func orNotSpecified(s string) string {
	if s == "" {
		return incident.NotSpecified
	}
	return s
}

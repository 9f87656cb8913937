package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/aquaeye/cmd/cli/client"
	"github.com/aquaeye/internal/models"
	"github.com/spf13/cobra"
)

// NewAlertCommand lists, acknowledges and resolves alerts via the API.
func NewAlertCommand(apiClient *client.APIClient) *cobra.Command {
	alertCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage alerts",
	}

	var unresolvedOnly bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resolved *bool
			if unresolvedOnly {
				f := false
				resolved = &f
			}

			alerts, err := apiClient.ListAlerts(resolved)
			if err != nil {
				return err
			}

			printAlerts(alerts)
			return nil
		},
	}
	listCmd.Flags().BoolVar(&unresolvedOnly, "unresolved", false, "Show only unresolved alerts")

	ackCmd := &cobra.Command{
		Use:   "ack [id]",
		Short: "Acknowledge an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %v", err)
			}
			if err := apiClient.AcknowledgeAlert(uint(id)); err != nil {
				return err
			}
			fmt.Printf("Alert %d acknowledged\n", id)
			return nil
		},
	}

	resolveCmd := &cobra.Command{
		Use:   "resolve [id]",
		Short: "Resolve an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %v", err)
			}
			if err := apiClient.ResolveAlert(uint(id)); err != nil {
				return err
			}
			fmt.Printf("Alert %d resolved\n", id)
			return nil
		},
	}

	alertCmd.AddCommand(listCmd, ackCmd, resolveCmd)
	return alertCmd
}

func printAlerts(alerts []models.Alert) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(w, "ID\tSEVERITY\tPOND\tPARAMETER\tMESSAGE\tRESOLVED\t")
	for _, a := range alerts {
		param := "-"
		if a.Parameter != nil {
			param = string(*a.Parameter)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%t\t\n",
			a.ID, a.Severity, a.PondID, param, a.Message, a.IsResolved)
	}
	w.Flush()
}

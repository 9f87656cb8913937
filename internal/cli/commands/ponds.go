package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/aquaeye/cmd/cli/client"
	"github.com/spf13/cobra"
)

// NewPondCommand lists monitored ponds via the API.
func NewPondCommand(apiClient *client.APIClient) *cobra.Command {
	return &cobra.Command{
		Use:   "ponds",
		Short: "List monitored ponds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ponds, err := apiClient.ListPonds()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.TabIndent)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tFARM\tACTIVE\t")
			for _, p := range ponds {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\t\n",
					p.ID, p.Name, p.Type, p.FarmID, p.IsActive)
			}
			w.Flush()
			return nil
		},
	}
}

package commands

import (
	"fmt"
	"strconv"

	"github.com/aquaeye/cmd/cli/client"
	"github.com/spf13/cobra"
)

// NewEngineCommand shows engine status and injects test scenarios.
func NewEngineCommand(apiClient *client.APIClient) *cobra.Command {
	engineCmd := &cobra.Command{
		Use:   "engine",
		Short: "Inspect and exercise the telemetry engine",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show engine status",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := apiClient.EngineStatus()
			if err != nil {
				return err
			}

			fmt.Printf("Running:             %t\n", status.Running)
			fmt.Printf("Simulation enabled:  %t\n", status.SimulationEnabled)
			fmt.Printf("Generation interval: %s\n", status.GenerationInterval)
			fmt.Printf("Evaluation interval: %s\n", status.EvaluationInterval)
			return nil
		},
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [pond-id] [scenario]",
		Short: "Inject a forced-condition reading (high_temperature, low_oxygen, ph_spike, sensor_failure)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pondID, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid pond ID: %v", err)
			}
			if err := apiClient.InjectScenario(uint(pondID), args[1]); err != nil {
				return err
			}
			fmt.Printf("Scenario %q injected for pond %d\n", args[1], pondID)
			return nil
		},
	}

	engineCmd.AddCommand(statusCmd, scenarioCmd)
	return engineCmd
}

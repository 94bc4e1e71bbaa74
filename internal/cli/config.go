package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vetgate/internal/config"
)

// configCmd prints the effective configuration after the full merge, so CI
// setups can see exactly what a run would use.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig, buildOverrides())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = configExitCode(err)
			return nil
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		return nil
	},
}

func init() {
	addReviewFlags(configCmd)
}

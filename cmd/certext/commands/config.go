package commands

import (
	"github.com/spf13/cobra"
	"reactor.de/certext/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Work with extension profiles",
}

// config validate
var configValidateCmd = &cobra.Command{
	Use:   "validate <profile>",
	Short: "Validate the syntax, schema and extensions of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.Action("Validating profile %s", args[0])
		cfg, err := getApp(cmd).LoadProfile(args[0])
		if err != nil {
			return err
		}
		ui.Success("Profile is valid (%d extensions)", len(cfg.Extensions))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/domain"
	"reactor.de/certext/internal/infra/clock"
	"reactor.de/certext/internal/infra/config"
	"reactor.de/certext/internal/infra/crypto/extensions"
	"reactor.de/certext/internal/infra/crypto/hash"
	"reactor.de/certext/internal/infra/logging"
	"reactor.de/certext/internal/infra/store"
)

// AppContext holds all the dependencies for the application.
// It is attached to the command's context for access in RunE functions.
type AppContext struct {
	App *app.Application
}

var appContextKey = &struct{}{}

var rootCmd = &cobra.Command{
	Use:   "certext",
	Short: "certext inspects X.509 certificates and their extensions.",
	Long: `certext decodes X.509 certificates and certificate extensions, checks
certificate chains, and builds encoded extension blocks from YAML profiles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		rootPath, err := getRootPath(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		registry := extensions.DefaultRegistry()
		application := app.NewApplication(
			logger,
			config.NewYAMLConfigLoader(registry),
			store.NewFileStore(rootPath),
			hash.NewProvider(),
			registry,
			clock.NewService(),
		)

		ctx := context.WithValue(cmd.Context(), appContextKey, &AppContext{App: application})
		cmd.SetContext(ctx)
		return nil
	},
}

func newLogger(cmd *cobra.Command) (domain.Logger, error) {
	path, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = os.Getenv("CERTEXT_LOG_FILE")
	}
	if path == "" {
		return logging.Discard(), nil
	}
	return logging.NewFileLogger(path)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("root", "", "Directory relative paths are resolved against (env: CERTEXT_ROOT)")
	rootCmd.PersistentFlags().String("log-file", "", "Append a log of each run to this file (env: CERTEXT_LOG_FILE)")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(extCmd)
	rootCmd.AddCommand(configCmd)
}

package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/pathutil"
)

// getApp retrieves the application context from the command.
func getApp(cmd *cobra.Command) *app.Application {
	return cmd.Context().Value(appContextKey).(*AppContext).App
}

// getRootPath determines the base directory from flags or environment variables.
func getRootPath(cmd *cobra.Command) (string, error) {
	rootPath, err := cmd.Flags().GetString("root")
	if err != nil {
		return "", err
	}
	if rootPath == "" {
		rootPath = os.Getenv("CERTEXT_ROOT")
	}
	if rootPath == "" {
		rootPath, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not determine current directory: %w", err)
		}
	}
	rootPath, err = filepath.Abs(pathutil.Expand(rootPath))
	if err != nil {
		return "", fmt.Errorf("could not get absolute path for root: %w", err)
	}
	return rootPath, nil
}

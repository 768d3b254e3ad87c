package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"reactor.de/certext/internal/ui"
)

var inspectAttributes bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <cert-file>",
	Short: "Show the contents and extensions of certificates",
	Long: `Show the subject, validity, key and extensions of every certificate in a
DER or PEM file. Use --attributes to print the flat subject and issuer
attribute view as well.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := getApp(cmd)
		records, err := app.LoadCertificates(args[0])
		if err != nil {
			return err
		}
		now := app.Clock().Now()
		for i, r := range records {
			if i > 0 {
				fmt.Println()
			}
			if err := ui.PrintCertInfo(os.Stdout, r, app.Hashes(), now); err != nil {
				return err
			}
			if inspectAttributes {
				fmt.Println()
				ui.PrintAttributes(os.Stdout, r.SubjectAttributes(), r.IssuerAttributes())
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectAttributes, "attributes", false, "Also print subject and issuer attributes")
}

package commands

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/ui"
)

var (
	verifyProfile string
	verifyJSON    bool
)

type chainPositionJSON struct {
	Position int      `json:"position"`
	Subject  string   `json:"subject"`
	Status   []string `json:"status"`
}

var verifyCmd = &cobra.Command{
	Use:   "verify <leaf> [intermediate...] [anchor]",
	Short: "Check an ordered certificate chain",
	Long: `Check a certificate chain ordered from the leaf to the trust anchor.
Files may hold several PEM certificates; they are read in order.
The policy section of --profile sets the chain length limit, signature
checks and a fixed validation time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application := getApp(cmd)
		report, err := application.VerifyChain(verifyProfile, args...)
		if err != nil && !errors.Is(err, app.ErrChainInvalid) {
			return err
		}

		if verifyJSON {
			out := make([]chainPositionJSON, 0, len(report.Chain))
			for i, r := range report.Chain {
				codes := []string{}
				for _, code := range report.Status[i].Sorted() {
					codes = append(codes, code.String())
				}
				out = append(out, chainPositionJSON{Position: i, Subject: r.SubjectDN().String(), Status: codes})
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if encErr := encoder.Encode(out); encErr != nil {
				return encErr
			}
			return err
		}

		if printErr := ui.PrintChainStatus(os.Stdout, report.Chain, report.Status); printErr != nil {
			return printErr
		}
		if err != nil {
			return err
		}
		ui.Success("Chain of %d certificates is valid", len(report.Chain))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyProfile, "profile", "", "Profile whose policy section configures the checks")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Output the per-position status as JSON")
}

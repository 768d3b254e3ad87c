package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"reactor.de/certext/internal/app"
	"reactor.de/certext/internal/ui"
)

var extCmd = &cobra.Command{
	Use:   "ext",
	Short: "Build and decode certificate extensions",
}

// ext build
var (
	buildFormat string
	buildOut    string
)
var extBuildCmd = &cobra.Command{
	Use:   "build <profile>",
	Short: "Encode the extensions section of a profile",
	Long: `Encode the extensions section of a YAML profile as a DER Extensions
SEQUENCE. The result is written to stdout, or to --out together with a
summary table.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application := getApp(cmd)
		x, der, err := application.BuildExtensions(args[0])
		if err != nil {
			return err
		}
		data, err := app.EncodeOutput(der, buildFormat)
		if err != nil {
			return err
		}
		if buildOut == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := application.WriteOutput(buildOut, data); err != nil {
			return err
		}
		if err := ui.PrintExtensions(os.Stdout, x); err != nil {
			return err
		}
		ui.Success("Wrote %d extensions to %s", x.Len(), buildOut)
		return nil
	},
}

// ext decode
var extDecodeCmd = &cobra.Command{
	Use:   "decode <file|hex:...|base64:...>",
	Short: "Decode an encoded Extensions SEQUENCE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application := getApp(cmd)
		der, err := application.ReadEncodedInput(args[0])
		if err != nil {
			return err
		}
		x, err := application.DecodeExtensions(der)
		if err != nil {
			return err
		}
		if x.Len() == 0 {
			fmt.Println("No extensions.")
			return nil
		}
		return ui.PrintExtensions(os.Stdout, x)
	},
}

// ext list
var extListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the extension names usable in profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range getApp(cmd).ListExtensions() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	extBuildCmd.Flags().StringVarP(&buildFormat, "format", "f", app.FormatHex, "Output format: hex, base64, der or pem")
	extBuildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "Write the encoded extensions to this file")

	extCmd.AddCommand(extBuildCmd)
	extCmd.AddCommand(extDecodeCmd)
	extCmd.AddCommand(extListCmd)
}

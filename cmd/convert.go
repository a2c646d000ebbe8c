package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notargets/freefemio/readfiles"
)

// ConvertCmd represents the convert command
var ConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Decode previously captured solver output",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			blobFile, icFile string
			blob             string
		)
		if blobFile, err = cmd.Flags().GetString("blob"); err != nil {
			return
		}
		if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if len(blobFile) == 0 {
			return fmt.Errorf("must supply a solver output file (-b, --blob)")
		}
		ip, err := processInput(icFile)
		if err != nil {
			return
		}
		if blob, err = readfiles.ReadBlob(blobFile); err != nil {
			return
		}
		return Process(blob, ip, cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr(), ip.Verbose))
	},
}

func init() {
	rootCmd.AddCommand(ConvertCmd)
	ConvertCmd.Flags().StringP("blob", "b", "", "captured solver output, optionally .gz or .zst compressed")
	ConvertCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters")
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/notargets/freefemio/readfiles"
	"github.com/notargets/freefemio/solver"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a FreeFem++ script and decode the sections it prints",
	Long: `Runs the solver on a script file. The script's standard output is
decoded according to the input parameters file, and can be kept with --save
for later use with the convert command.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			script, icFile, saveFile string
			data                     []byte
			output                   string
		)
		if script, err = cmd.Flags().GetString("script"); err != nil {
			return
		}
		if icFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if saveFile, err = cmd.Flags().GetString("save"); err != nil {
			return
		}
		if len(script) == 0 {
			return fmt.Errorf("must supply a script file (-s, --script) in FreeFem++ .edp format")
		}
		ip, err := processInput(icFile)
		if err != nil {
			return
		}
		if data, err = os.ReadFile(script); err != nil {
			return
		}
		logger := newLogger(cmd.ErrOrStderr(), ip.Verbose)
		if ip.Verbose {
			ip.Print(cmd.OutOrStdout())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		runner := solver.NewRunner(
			solver.WithExecutable(ip.Solver, ip.SolverArgs...),
			solver.WithVerbose(ip.Verbose),
			solver.WithLogger(logger),
		)
		if output, err = runner.Run(ctx, string(data)); err != nil {
			return
		}
		if saveFile != "" {
			if err = readfiles.WriteBlob(saveFile, output); err != nil {
				return
			}
		}
		return Process(output, ip, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("script", "s", "", "FreeFem++ script to run")
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Matrices, Vectors to decode\n\t- MeshFile to write")
	RunCmd.Flags().StringP("save", "o", "", "keep the raw solver output in this file (.gz and .zst are compressed)")
}

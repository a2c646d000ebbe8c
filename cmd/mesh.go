package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/freefemio/mesh"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Convert a mesh file (.msh, .su2, .cbor) to FreeFem++ .msh or .cbor",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			in, out string
			m       *mesh.TriMesh
		)
		if in, err = cmd.Flags().GetString("input"); err != nil {
			return
		}
		if out, err = cmd.Flags().GetString("output"); err != nil {
			return
		}
		if len(in) == 0 || len(out) == 0 {
			return fmt.Errorf("must supply an input (-i) and output (-o) mesh file")
		}
		logger := newLogger(cmd.ErrOrStderr(), viper.GetBool("verbose"))
		if m, err = mesh.ReadMeshFile(in, mesh.WithLogger(logger), mesh.WithStrict(viper.GetBool("strict"))); err != nil {
			return
		}
		format := "msh"
		if strings.EqualFold(filepath.Ext(out), ".cbor") {
			format = "cbor"
		}
		if out, err = writeMesh(out, format, m); err != nil {
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), m.Statistics())
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote mesh to %s\n", out)
		return
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("input", "i", "", "mesh file to read")
	MeshCmd.Flags().StringP("output", "o", "", "mesh file to write, .cbor for binary output")
}

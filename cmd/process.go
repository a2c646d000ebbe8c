package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/notargets/freefemio/InputParameters"
	"github.com/notargets/freefemio/freefem"
	"github.com/notargets/freefemio/mesh"
	"github.com/notargets/freefemio/utils"
)

// processInput loads the input parameters file, or defaults when none is
// given, then applies any flag, environment or config file overrides
func processInput(icFile string) (ip *InputParameters.InputParameters, err error) {
	ip = &InputParameters.InputParameters{}
	if icFile != "" {
		var data []byte
		if data, err = os.ReadFile(icFile); err != nil {
			return nil, err
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", icFile, err)
		}
	} else {
		ip.SetDefaults()
	}
	if viper.IsSet("solver") {
		ip.Solver = viper.GetString("solver")
	}
	if viper.IsSet("sparseFormat") {
		ip.SparseFormat = viper.GetString("sparseFormat")
	}
	if viper.IsSet("strict") {
		ip.StrictBoundaries = viper.GetBool("strict")
	}
	if viper.IsSet("verbose") {
		ip.Verbose = viper.GetBool("verbose")
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

type nnzer interface {
	NNZ() int
}

// Process decodes every section ip asks for from blob, writing the mesh to
// disk and a summary of each decoded object to out
func Process(blob string, ip *InputParameters.InputParameters, out io.Writer, logger *slog.Logger) (err error) {
	var sf utils.SparseFormat
	if sf, err = utils.NewSparseFormat(ip.SparseFormat); err != nil {
		return
	}
	opts := []freefem.Option{
		freefem.WithSparseFormat(sf),
		freefem.WithStrictBoundaries(ip.StrictBoundaries),
		freefem.WithLogger(logger),
	}
	if ip.NoFlip {
		opts = append(opts, freefem.WithoutReversal())
	}
	dec := freefem.NewDecoder(opts...)

	if ip.Mesh {
		var m *mesh.TriMesh
		if m, err = dec.Mesh(blob); err != nil {
			return fmt.Errorf("decoding mesh: %w", err)
		}
		fmt.Fprint(out, m.Statistics())
		if ip.MeshFile != "" {
			var fn string
			if fn, err = writeMesh(filepath.Join(ip.OutputDir, ip.MeshFile), ip.MeshFormat, m); err != nil {
				return
			}
			fmt.Fprintf(out, "Wrote mesh to %s\n", fn)
		}
	}
	for _, name := range ip.Matrices {
		M, err := dec.Matrix(blob, name)
		if err != nil {
			return err
		}
		nr, nc := M.Dims()
		fmt.Fprintf(out, "Matrix[%s] %d x %d", name, nr, nc)
		if sp, ok := M.(nnzer); ok {
			fmt.Fprintf(out, ", %d stored coefficients", sp.NNZ())
		}
		fmt.Fprintf(out, " (%s)\n", sf)
	}
	for _, name := range ip.Vectors {
		v, err := dec.Vector(blob, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Vector[%s] length %d\n", name, v.Len())
	}
	return
}

func writeMesh(filename, format string, m *mesh.TriMesh) (string, error) {
	if format != "cbor" {
		return mesh.SaveMsh(filename, m)
	}
	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err = mesh.EncodeCBOR(file, m); err != nil {
		file.Close()
		return "", err
	}
	return filename, file.Close()
}

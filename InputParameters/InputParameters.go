package InputParameters

import (
	"fmt"
	"io"

	"github.com/ghodss/yaml"

	"github.com/notargets/freefemio/solver"
	"github.com/notargets/freefemio/utils"
)

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title            string   `json:"Title"`
	Solver           string   `json:"Solver"`
	SolverArgs       []string `json:"SolverArgs"`
	SparseFormat     string   `json:"SparseFormat"` // csr, csc, coo, dok or raw
	StrictBoundaries bool     `json:"StrictBoundaries"`
	NoFlip           bool     `json:"NoFlip"`
	Mesh             bool     `json:"Mesh"`       // decode the nodes/triangles/boundaries sections
	MeshFile         string   `json:"MeshFile"`   // where to write the decoded mesh
	MeshFormat       string   `json:"MeshFormat"` // msh or cbor
	Matrices         []string `json:"Matrices"`
	Vectors          []string `json:"Vectors"`
	OutputDir        string   `json:"OutputDir"`
	Verbose          bool     `json:"Verbose"`
}

func (ip *InputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	ip.SetDefaults()
	return ip.Validate()
}

func (ip *InputParameters) SetDefaults() {
	if ip.Solver == "" {
		ip.Solver = solver.DefaultExecutable
	}
	if ip.SolverArgs == nil {
		ip.SolverArgs = append([]string(nil), solver.DefaultArgs...)
	}
	if ip.SparseFormat == "" {
		ip.SparseFormat = utils.SparseCSR.String()
	}
	if ip.MeshFormat == "" {
		ip.MeshFormat = "msh"
	}
	if ip.OutputDir == "" {
		ip.OutputDir = "."
	}
}

func (ip *InputParameters) Validate() (err error) {
	if _, err = utils.NewSparseFormat(ip.SparseFormat); err != nil {
		return
	}
	switch ip.MeshFormat {
	case "msh", "cbor":
	default:
		return fmt.Errorf("unknown MeshFormat [%s], want msh or cbor", ip.MeshFormat)
	}
	return
}

func (ip *InputParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s %v]\t= Solver\n", ip.Solver, ip.SolverArgs)
	fmt.Fprintf(w, "[%s]\t\t\t= Sparse Format\n", ip.SparseFormat)
	fmt.Fprintf(w, "[%v]\t\t\t= Strict Boundaries\n", ip.StrictBoundaries)
	fmt.Fprintf(w, "[%v]\t\t\t= No Edge Reversal\n", ip.NoFlip)
	if ip.Mesh {
		fmt.Fprintf(w, "[%s] (%s)\t= Mesh File\n", ip.MeshFile, ip.MeshFormat)
	}
	for _, name := range ip.Matrices {
		fmt.Fprintf(w, "Matrix[%s]\n", name)
	}
	for _, name := range ip.Vectors {
		fmt.Fprintf(w, "Vector[%s]\n", name)
	}
}

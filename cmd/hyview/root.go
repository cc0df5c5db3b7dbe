package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hyview/internal/models"
	"hyview/internal/progress"
	"hyview/pkg/config"
	"hyview/pkg/cube"
	"hyview/pkg/envi"
	"hyview/pkg/normalize"
)

// app carries the state shared by all subcommands
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	selection  models.Selection

	cfg *config.Config
	log *progress.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "hyview",
		Short: "Hyperspectral image viewer (BIL-interleaved ENVI image assumed)",
		Long: `Hyperspectral image viewer (BIL-interleaved ENVI image assumed).

Reads the header next to FILE (FILE with its extension replaced by .hdr),
loads the selected image subset and prints, plots or exports it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "hyview.yaml", "YAML configuration file (defaults are used if it does not exist)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	addSubsetFlags(pf, &a.selection)

	root.AddCommand(
		newInfoCmd(a),
		newSpectrumCmd(a),
		newExportCmd(a),
		newConvertCmd(a),
		newConfigCmd(a),
	)
	return root
}

// addSubsetFlags registers the image subset flags. 0 keeps the default:
// the start of the image for start flags, the full extent for end flags.
func addSubsetFlags(fs *pflag.FlagSet, sel *models.Selection) {
	fs.IntVar(&sel.StartSample, "startpix", 0, "start pixel (chosen pixel for spectrum)")
	fs.IntVar(&sel.EndSample, "endpix", 0, "end pixel")
	fs.IntVar(&sel.StartLine, "startline", 0, "start line (chosen line for spectrum)")
	fs.IntVar(&sel.EndLine, "endline", 0, "end line")
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = progress.New(a.stderr, a.verbose || cfg.Output.Verbose)
	return nil
}

func (a *app) normalizer() (*normalize.Normalizer, error) {
	return normalize.New(a.cfg.Display.ClipSigma, uint8(a.cfg.Display.ConstantLevel))
}

// load reads the header and the selected subset of an image.
func (a *app) load(path string) (*envi.Header, envi.ImageSubset, *cube.Cube, error) {
	a.log.Step("header", envi.HeaderPath(path))
	h, err := envi.ReadHeader(path)
	if err != nil {
		a.log.Done("failed")
		return nil, envi.ImageSubset{}, nil, err
	}
	a.log.Done(fmt.Sprintf("lines=%d samples=%d bands=%d offset=%d type=%s",
		h.Lines, h.Samples, h.Bands, h.ByteOffset, h.DataType))
	if h.WavelengthFallback {
		a.log.Warn("could not extract wavelengths, using band indices 0..%d", h.Bands-1)
	}
	a.log.Debug("Wavelengths: %v", h.Wavelengths)

	subset, err := models.SelectionFromConfig(a.cfg).Override(a.selection).Resolve(h)
	if err != nil {
		return nil, envi.ImageSubset{}, nil, err
	}

	a.log.Step("read", subset)
	c, err := envi.ReadImage(path, h, subset)
	if err != nil {
		a.log.Done("failed")
		return nil, envi.ImageSubset{}, nil, err
	}
	a.log.Done(fmt.Sprintf("%d lines x %d samples x %d bands", c.Lines, c.Samples, c.Bands))
	return h, subset, c, nil
}

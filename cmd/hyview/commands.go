package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hyview/pkg/config"
	"hyview/pkg/envi"
	"hyview/pkg/visualization"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print the header and per-band statistics of the selected subset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, subset, c, err := a.load(args[0])
			if err != nil {
				return err
			}
			norm, err := a.normalizer()
			if err != nil {
				return err
			}

			out := a.stdout
			fmt.Fprintf(out, "file:        %s\n", args[0])
			fmt.Fprintf(out, "header:      %s\n", envi.HeaderPath(args[0]))
			fmt.Fprintf(out, "samples:     %d\n", h.Samples)
			fmt.Fprintf(out, "lines:       %d\n", h.Lines)
			fmt.Fprintf(out, "bands:       %d\n", h.Bands)
			fmt.Fprintf(out, "offset:      %d\n", h.ByteOffset)
			fmt.Fprintf(out, "data type:   %s (%d)\n", h.DataType, h.DataType.Code())
			fmt.Fprintf(out, "subset:      %s\n", subset)
			if h.WavelengthFallback {
				fmt.Fprintf(out, "wavelengths: band indices (list could not be parsed)\n")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%5s %12s %8s %14s %14s %14s %14s\n",
				"band", "wavelength", "valid", "mean", "stddev", "clip low", "clip high")
			for b := 0; b < c.Bands; b++ {
				st, err := norm.Statistics(c, b)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%5d %12.3f %8d %14.6g %14.6g %14.6g %14.6g\n",
					b, h.Wavelengths[b], st.Count, st.Mean, st.StdDev, st.ClipLow, st.ClipHigh)
			}
			return nil
		},
	}
}

func newSpectrumCmd(a *app) *cobra.Command {
	var line, sample int
	cmd := &cobra.Command{
		Use:   "spectrum FILE",
		Short: "Print the spectrum of one pixel of the selected subset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, _, c, err := a.load(args[0])
			if err != nil {
				return err
			}
			viewer, err := visualization.NewViewer(c, h.Wavelengths, visualization.DefaultOptions())
			if err != nil {
				return err
			}
			sp, err := viewer.Spectrum(line, sample)
			if err != nil {
				return err
			}
			if sp.Dropped > 0 {
				a.log.Warn("%d bands with invalid values left out", sp.Dropped)
			}

			fmt.Fprintf(a.stdout, "# line %d, sample %d\n", line, sample)
			fmt.Fprintf(a.stdout, "# wavelength\tvalue\n")
			for i := range sp.Values {
				fmt.Fprintf(a.stdout, "%g\t%g\n", sp.Wavelengths[i], sp.Values[i])
			}
			if wl, v, ok := sp.Peak(); ok {
				mean, std := sp.MeanStdDev()
				a.log.Info("peak %g at %g nm, mean %g, stddev %g", v, wl, mean, std)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&line, "line", 0, "line within the subset")
	cmd.Flags().IntVar(&sample, "sample", 0, "sample within the subset")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		band int
		all  bool
		out  string
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Save band images of the selected subset",
		Long: `Save band images of the selected subset.

With --band, one band is written to --out (PNG or JPEG by extension).
With --all, every band is written to the directory --out as band_NNN.<format>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == cmd.Flags().Changed("band") {
				return fmt.Errorf("exactly one of --band and --all is required")
			}
			h, _, c, err := a.load(args[0])
			if err != nil {
				return err
			}
			norm, err := a.normalizer()
			if err != nil {
				return err
			}
			viewer, err := visualization.NewViewer(c, h.Wavelengths, visualization.Options{
				Normalizer: norm,
				Width:      a.cfg.Display.Width,
				Quality:    a.cfg.Export.Quality,
				NumCores:   a.cfg.Export.NumCores,
			})
			if err != nil {
				return err
			}

			if all {
				dir := out
				if dir == "" {
					dir = a.cfg.Export.OutputDir
				}
				a.log.Step("export", fmt.Sprintf("%d bands to %s", c.Bands, dir))
				if err := viewer.SaveBandSequence(dir, a.cfg.Export.Format); err != nil {
					a.log.Done("failed")
					return err
				}
				a.log.Done("ok")
				a.log.Total()
				return nil
			}

			filename := out
			if filename == "" {
				filename = visualization.BandFilename(band, strings.ToLower(a.cfg.Export.Format))
			}
			wl, err := viewer.Wavelength(band)
			if err != nil {
				return err
			}
			a.log.Step("export", fmt.Sprintf("band %d (%g nm) to %s", band, wl, filename))
			if err := viewer.SaveBand(band, filename); err != nil {
				a.log.Done("failed")
				return err
			}
			a.log.Done("ok")
			return nil
		},
	}
	cmd.Flags().IntVar(&band, "band", 0, "band to export")
	cmd.Flags().BoolVar(&all, "all", false, "export every band")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (--band) or directory (--all)")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert FILE OUTBASE",
		Short: "Write the selected subset as a float32 BIL image OUTBASE.img with header OUTBASE.hdr",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, _, c, err := a.load(args[0])
			if err != nil {
				return err
			}
			base := args[1]
			a.log.Step("write", envi.ImagePath(base))
			if err := envi.Write(base, c, h.Wavelengths); err != nil {
				a.log.Done("failed")
				return err
			}
			a.log.Done(fmt.Sprintf("%d lines x %d samples x %d bands", c.Lines, c.Samples, c.Bands))
			a.log.Total()
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// The file may be missing or broken; these commands must not load it.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a configuration file with default values",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.CreateDefaultConfigFile(path); err != nil {
				return err
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(a.stdout, "Configuration written to %s\n", abs)
			return nil
		},
	})
	return cmd
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/nvr-ai/go-imgshift/batch"
	"github.com/nvr-ai/go-imgshift/images"
	"github.com/nvr-ai/go-imgshift/util"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return data, nil
}

func (a *app) writeOutput(path string, in, out []byte) error {
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	a.logger.Info("wrote output",
		zap.String("path", path),
		zap.Stringer("format", images.Sniff(out)),
		zap.String("in", humanize.Bytes(uint64(len(in)))),
		zap.String("out", humanize.Bytes(uint64(len(out)))),
	)
	return nil
}

func newSniffCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "sniff <file>",
		Annotations: map[string]string{readOnlyAnnotation: "true"},
		Short:       "Print the container format detected from magic bytes",
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			f := images.Sniff(data)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f, f.MimeType())
			return nil
		},
	}
}

func newDimsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "dims <file>",
		Annotations: map[string]string{readOnlyAnnotation: "true"},
		Short:       "Decode an image and print its width and height",
		Args:        cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			info, err := a.pipe.Inspect(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%dx%d\t%s\t%.2f MP\t%s", info.Width, info.Height, info.Format, info.Megapixels(), info.Tier())
			if res, ok := images.LargestResolutionWithin(info.Width, info.Height); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "\t>= %s", res.Name)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

// intFlag returns the flag value when set on the command line, else def.
func intFlag(cmd *cobra.Command, name string, def int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return def
}

func floatFlag(cmd *cobra.Command, name string, def float64) float64 {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetFloat64(name)
		return v
	}
	return def
}

func stringFlag(cmd *cobra.Command, name, def string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return def
}

func boolFlag(cmd *cobra.Command, name string, def bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return def
}

func newConvertCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode an image into another format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.pipe.ConvertToFormat(in,
				stringFlag(cmd, "format", a.cfg.TargetFormat),
				intFlag(cmd, "quality", a.cfg.Quality))
			if err != nil {
				return err
			}
			return a.writeOutput(args[1], in, out)
		},
	}
	cmd.Flags().String("format", "jpeg", "target format: jpeg, png, webp, gif, bmp")
	cmd.Flags().Int("quality", 85, "baseline encoder quality (1-100)")
	return cmd
}

func newEvadeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evade <in> <out>",
		Short: "Apply noise, jitter and watermark, writing lossless WebP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.pipe.ApplyEvasion(in, floatFlag(cmd, "noise", a.cfg.NoiseIntensity))
			if err != nil {
				return err
			}
			return a.writeOutput(args[1], in, out)
		},
	}
	cmd.Flags().Float64("noise", 0.5, "noise intensity (0-1)")
	return cmd
}

func newProcessCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <in> <out>",
		Short: "Convert or evade in one step, normalising WebP sources to JPEG first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.pipe.Process(in,
				stringFlag(cmd, "format", a.cfg.TargetFormat),
				intFlag(cmd, "quality", a.cfg.Quality),
				boolFlag(cmd, "evade", a.cfg.Evasion),
				floatFlag(cmd, "noise", a.cfg.NoiseIntensity))
			if err != nil {
				return err
			}
			return a.writeOutput(args[1], in, out)
		},
	}
	cmd.Flags().String("format", "jpeg", "target format when evasion is off")
	cmd.Flags().Int("quality", 85, "baseline encoder quality (1-100)")
	cmd.Flags().Bool("evade", false, "apply the evasion transform")
	cmd.Flags().Float64("noise", 0.5, "noise intensity (0-1)")
	return cmd
}

func newCompressCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compress <in> <out>",
		Short: "Re-encode as JPEG unless the input is below the skip size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(args[0])
			if err != nil {
				return err
			}
			skip := intFlag(cmd, "skip-kb", a.cfg.SkipKB) * 1024
			out, err := a.pipe.CompressJPEG(in, intFlag(cmd, "quality", a.cfg.Quality), skip)
			if err != nil {
				return err
			}
			return a.writeOutput(args[1], in, out)
		},
	}
	cmd.Flags().Int("quality", 85, "JPEG quality (1-100)")
	cmd.Flags().Int("skip-kb", 0, "leave inputs smaller than this many KiB untouched")
	return cmd
}

func newBatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Run one operation over every image in a directory and zip the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := batch.ParseMode(stringFlag(cmd, "mode", string(batch.ModeConvert)))
			if !ok {
				return errors.Errorf("unknown batch mode %q", stringFlag(cmd, "mode", ""))
			}
			outPath, _ := cmd.Flags().GetString("out")

			files, err := util.LoadDirectoryImageFiles(args[0])
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return errors.Errorf("no images found in %s", args[0])
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			runner := batch.NewRunner(a.pipe,
				batch.WithConcurrency(intFlag(cmd, "concurrency", a.cfg.Concurrency)),
				batch.WithLogger(a.logger),
			)
			req := batch.Request{
				Target:         stringFlag(cmd, "format", a.cfg.TargetFormat),
				Quality:        intFlag(cmd, "quality", a.cfg.Quality),
				Evasion:        boolFlag(cmd, "evade", a.cfg.Evasion),
				NoiseIntensity: floatFlag(cmd, "noise", a.cfg.NoiseIntensity),
			}
			bufs := lo.Map(files, func(f util.ImageFile, _ int) []byte { return f.Data })
			names := lo.Map(files, func(f util.ImageFile, _ int) string { return f.Name })

			results, runErr := runner.Run(ctx, mode, bufs, req)

			var archive bytes.Buffer
			n, err := batch.WriteArchive(&archive, results, names)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, archive.Bytes(), 0o644); err != nil {
				return errors.Wrapf(err, "write %s", outPath)
			}

			for _, res := range results {
				if !res.OK() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", files[res.Index].Path, res.Err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d/%d images written to %s (%s)\n",
				n, len(files), outPath, humanize.Bytes(uint64(archive.Len())))
			runner.Tracker().LogReport(a.logger)
			return runErr
		},
	}
	cmd.Flags().String("out", "imgshift.zip", "output zip archive")
	cmd.Flags().String("mode", "convert", "operation: convert, evade, process")
	cmd.Flags().String("format", "jpeg", "target format for convert and process")
	cmd.Flags().Int("quality", 85, "baseline encoder quality (1-100)")
	cmd.Flags().Bool("evade", false, "apply evasion in process mode")
	cmd.Flags().Float64("noise", 0.5, "noise intensity (0-1)")
	cmd.Flags().Int("concurrency", 0, "parallel workers (0 = one per CPU)")
	return cmd
}

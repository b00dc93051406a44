package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Seednode/mediabox/bytesize"
	"github.com/Seednode/mediabox/media"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHumanizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "humanize [bytes...]",
		Short: "Print byte counts using binary units (B, KiB, MiB, GiB, TiB).",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			for _, arg := range args {
				var bytes *float64
				if v, ok := bytesize.Parse(arg); ok {
					bytes = &v
				}

				if _, err := fmt.Fprintln(out, bytesize.Humanize(bytes)); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func printInfo(w io.Writer, info media.Info) error {
	_, err := fmt.Fprintf(w, "%s\n  size:  %s (%s, %s)\n  type:  %s\n",
		info.Name, info.SizeHuman, info.SizeSI, info.SizeExact, info.ContentType)
	if err != nil || info.Image == nil {
		return err
	}

	_, err = fmt.Fprintf(w, "  image: %s %dx%d %s (%s)\n",
		info.Image.Format, info.Image.Width, info.Image.Height, info.Image.ColorModel, info.Image.Pixels)

	return err
}

func inspectFile(path string) (media.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return media.Info{}, err
	}
	defer f.Close()

	return media.Inspect(path, f, 0)
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info file...",
		Short: "Describe media files: size, content type, and image details.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error

			for _, path := range args {
				info, err := inspectFile(path)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", path, err))

					continue
				}

				if err := printInfo(cmd.OutOrStdout(), info); err != nil {
					return err
				}
			}

			return errors.Join(errs...)
		},
	}
}

func convertFile(in, out string, opts media.ConvertOptions) (media.Result, error) {
	src, err := os.Open(in)
	if err != nil {
		return media.Result{}, err
	}
	defer src.Close()

	dst, err := os.Create(out)
	if err != nil {
		return media.Result{}, err
	}

	res, err := media.Convert(src, opts, dst)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(out)

		return media.Result{}, err
	}

	return res, nil
}

func newConvertCmd(v *viper.Viper) *cobra.Command {
	var (
		format string
		opts   media.ConvertOptions
	)

	cmd := &cobra.Command{
		Use:   "convert input output",
		Short: "Convert an image to png, jpeg, gif, bmp, or tiff.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error

			if format != "" {
				opts.Format, err = media.ParseFormat(format)
			} else {
				opts.Format, err = media.FormatFromPath(args[1])
			}
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("quality") && opts.Quality == 0 {
				return fmt.Errorf("%w: 0", media.ErrInvalidQuality)
			}

			res, err := convertFile(args[0], args[1], opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %s %dx%d, %s\n",
				args[0], args[1], res.OutputFormat, res.Width, res.Height, bytesize.HumanizeInt(res.Bytes))

			return err
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&format, "format", "f", "", "output format, inferred from the output extension if unset (env: MEDIABOX_FORMAT)")
	fs.IntVarP(&opts.Quality, "quality", "q", media.DefaultQuality, "jpeg quality, 1-100 (env: MEDIABOX_QUALITY)")
	fs.IntVar(&opts.Width, "width", 0, "resize to this width, 0 keeps the aspect ratio (env: MEDIABOX_WIDTH)")
	fs.IntVar(&opts.Height, "height", 0, "resize to this height, 0 keeps the aspect ratio (env: MEDIABOX_HEIGHT)")

	bindEnv(v, fs)

	return cmd
}

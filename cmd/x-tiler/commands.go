package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ItsNotGoodName/x-tiler/internal/config"
	"github.com/ItsNotGoodName/x-tiler/internal/geom"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

func newPreviewCommand(options func() *Options) *cobra.Command {
	var windows, width, height int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the layout of a number of windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if windows < 0 {
				return fmt.Errorf("windows=%d: must not be negative", windows)
			}

			cfg, err := config.Load(config.NewDriver(options().Config))
			if err != nil {
				return err
			}

			m, err := cfg.Mosaic()
			if err != nil {
				return err
			}

			output := geom.Rect{W: width, H: height}
			rects, degenerate := m.Windows(output, windows)
			if degenerate > 0 {
				slog.Warn("Output is too small for the layout", "output", output, "windows", windows, "degenerate", degenerate)
			}

			return renderPreview(cmd.OutOrStdout(), output, rects)
		},
	}

	cmd.Flags().IntVarP(&windows, "windows", "n", 3, "number of windows")
	cmd.Flags().IntVar(&width, "width", 1920, "output width")
	cmd.Flags().IntVar(&height, "height", 1080, "output height")

	return cmd
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderPreview(w io.Writer, output geom.Rect, rects []geom.Rect) error {
	rows := make([][]string, 0, len(rects))
	for i, r := range rects {
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(r.X),
			strconv.Itoa(r.Y),
			strconv.Itoa(r.W),
			strconv.Itoa(r.H),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("#", "X", "Y", "W", "H").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintf(w, "output %s\n%s\n", output, t.Render())
	return err
}

func newConfigCommand(options func() *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.NewDriver(options().Config))
			if err != nil {
				return err
			}

			if _, err := cfg.Mosaic(); err != nil {
				return err
			}

			pp.Fprintln(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

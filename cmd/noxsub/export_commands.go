package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"noxsub/internal/editor"
	"noxsub/internal/project"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export transcripts from a project",
	}

	exportCmd.AddCommand(newExportSRTCommand(ctx))
	exportCmd.AddCommand(newExportVTTCommand(ctx))

	return exportCmd
}

func newExportSRTCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "srt <project-id>",
		Short: "Write the caption set as a SubRip (.srt) transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				target, err := exportTarget(ctx, ed, output, ".srt")
				if err != nil {
					return err
				}
				return writeExport(cmd, target, ed.WriteSRT)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (defaults to the export dir, '-' for stdout)")
	return cmd
}

func newExportVTTCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "vtt <project-id>",
		Short: "Write the caption set as a styled WebVTT preview track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				target, err := exportTarget(ctx, ed, output, ".vtt")
				if err != nil {
					return err
				}
				return writeExport(cmd, target, ed.WritePreviewTrack)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (defaults to the export dir, '-' for stdout)")
	return cmd
}

func exportTarget(ctx *commandContext, ed *editor.Editor, output, ext string) (string, error) {
	output = strings.TrimSpace(output)
	if output == "-" {
		return "-", nil
	}
	if output != "" {
		return output, nil
	}
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(ed.Project().VideoFilename, filepath.Ext(ed.Project().VideoFilename))
	if base == "" {
		base = "captions"
	}
	return filepath.Join(cfg.Paths.ExportDir, base+ext), nil
}

func writeExport(cmd *cobra.Command, target string, write func(w io.Writer) error) error {
	if target == "-" {
		return write(cmd.OutOrStdout())
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(target)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("finish %s: %w", target, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
	return nil
}

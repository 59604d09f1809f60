package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"noxsub/internal/caption"
	"noxsub/internal/media"
	"noxsub/internal/project"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var title string
	var duration float64

	cmd := &cobra.Command{
		Use:   "import <video-path>",
		Short: "Stage a local video and create a project for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			source, err := media.Acquire(args[0], cfg.Paths.StagingDir)
			if err != nil {
				return err
			}

			projectTitle := strings.TrimSpace(title)
			if projectTitle == "" {
				projectTitle = media.DeriveTitle(args[0])
			}

			proj := &project.Project{
				Title:         projectTitle,
				VideoPath:     source.Path,
				VideoFilename: source.Filename,
				Duration:      duration,
				Language:      cfg.Transcription.Language,
				Model:         cfg.Transcription.Model,
			}
			if duration > 0 {
				if err := proj.SetCaptions([]caption.Caption{caption.Placeholder(duration)}); err != nil {
					source.Release()
					return err
				}
			}
			if err := proj.SetStyle(cfg.Style.CaptionStyle()); err != nil {
				source.Release()
				return err
			}

			created, err := store.Create(cmd.Context(), proj)
			if err != nil {
				source.Release()
				return fmt.Errorf("create project: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s as project %d (%s)\n", source.Filename, created.ID, created.Title)
			if duration <= 0 {
				fmt.Fprintln(out, "Duration unknown; pass --duration before generating captions.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Project title (derived from the filename when omitted)")
	cmd.Flags().Float64Var(&duration, "duration", 0, "Video duration in seconds")
	return cmd
}

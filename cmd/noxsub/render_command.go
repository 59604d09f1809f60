package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"noxsub/internal/editor"
	"noxsub/internal/project"
	"noxsub/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var qualityFlag string

	cmd := &cobra.Command{
		Use:   "render <project-id>",
		Short: "Render the captioned video through the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			quality := qualityFlag
			if quality == "" {
				quality = cfg.Render.Quality
			}
			tier, err := render.ParseQuality(quality)
			if err != nil {
				return err
			}

			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				client, err := ctx.backendClient()
				if err != nil {
					return err
				}
				exporter := render.NewExporter(client, cfg.Paths.ExportDir, ctx.log())

				sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Rendering %q at %s...\n", ed.Project().Title, tier.Label())

				result, err := ed.RenderVideo(sigCtx, exporter, tier)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Rendered video saved to %s\n", result.Path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Render quality: low (720p), medium (1080p), or high (4K)")
	return cmd
}

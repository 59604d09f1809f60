package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"noxsub/internal/editor"
	"noxsub/internal/language"
	"noxsub/internal/project"
	"noxsub/internal/session"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var langFlag string
	var modelFlag string
	var durationFlag float64

	cmd := &cobra.Command{
		Use:   "generate <project-id>",
		Short: "Generate captions for a project via the transcription backend",
		Long:  "Uploads the project's video, follows live progress, and adopts the resulting captions. Ctrl-C cancels the attempt without recording an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				proj := ed.Project()
				if langFlag != "" {
					normalized, err := language.Normalize(langFlag)
					if err != nil {
						return err
					}
					proj.Language = normalized
				}
				if modelFlag != "" {
					proj.Model = modelFlag
				}
				if durationFlag > 0 {
					proj.Duration = durationFlag
				}

				sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				if err := ed.Generate(context.Background()); err != nil {
					return err
				}
				go func() {
					<-sigCtx.Done()
					ed.CancelGeneration()
				}()

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Generating captions for %q (%s, model %s)\n",
					proj.Title, language.DisplayName(proj.Language), proj.Model)

				progressDone := make(chan struct{})
				go func() {
					ticker := time.NewTicker(250 * time.Millisecond)
					defer ticker.Stop()
					for {
						select {
						case <-progressDone:
							return
						case <-ticker.C:
							snap := ed.SessionSnapshot()
							if snap.State.Terminal() {
								continue
							}
							fmt.Fprintf(out, "\r%-60s %3d%%  %s", truncateText(snap.Status, 60), snap.Percent, formatElapsed(snap.Elapsed))
						}
					}
				}()

				snap, err := ed.WaitGeneration(context.Background())
				close(progressDone)
				fmt.Fprintln(out)
				if err != nil {
					return err
				}

				switch snap.State {
				case session.StateSucceeded:
					if err := ed.Save(context.Background()); err != nil {
						return err
					}
					fmt.Fprintf(out, "Generated %d captions in %s\n", len(snap.Captions), formatElapsed(snap.Elapsed))
					return nil
				case session.StateFailed:
					// The placeholder caption was adopted so editing can
					// continue; persist it before reporting the failure.
					if err := ed.Save(context.Background()); err != nil {
						return err
					}
					return errors.New(snap.Err)
				case session.StateCancelled:
					fmt.Fprintln(out, "Generation cancelled")
					return nil
				default:
					return fmt.Errorf("generation ended in unexpected state %s", snap.State)
				}
			})
		},
	}

	cmd.Flags().StringVar(&langFlag, "language", "", "Transcription language code (defaults to the project setting)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "Transcription model (defaults to the project setting)")
	cmd.Flags().Float64Var(&durationFlag, "duration", 0, "Video duration in seconds, if not recorded at import")
	return cmd
}

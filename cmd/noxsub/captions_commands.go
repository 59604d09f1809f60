package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"noxsub/internal/editor"
	"noxsub/internal/project"
)

func newCaptionsCommand(ctx *commandContext) *cobra.Command {
	captionsCmd := &cobra.Command{
		Use:   "captions",
		Short: "List and edit a project's captions",
	}

	captionsCmd.AddCommand(newCaptionsListCommand(ctx))
	captionsCmd.AddCommand(newCaptionsAddCommand(ctx))
	captionsCmd.AddCommand(newCaptionsRemoveCommand(ctx))
	captionsCmd.AddCommand(newCaptionsSetTextCommand(ctx))
	captionsCmd.AddCommand(newCaptionsSetTimingCommand(ctx))

	return captionsCmd
}

func newCaptionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project-id>",
		Short: "Show the caption set in its editing order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				captions := ed.Captions()
				if len(captions) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No captions yet; run `noxsub generate` or `noxsub captions add`.")
					return nil
				}
				rows := make([][]string, 0, len(captions))
				for _, c := range captions {
					rows = append(rows, []string{
						fmt.Sprintf("%d", c.ID),
						formatSeconds(c.Start),
						formatSeconds(c.End),
						truncateText(c.Text, 60),
					})
				}
				aligns := []columnAlignment{alignRight, alignRight, alignRight, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Start", "End", "Text"}, rows, aligns))
				return nil
			})
		},
	}
}

func newCaptionsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <project-id>",
		Short: "Append a new caption after the last one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				added := ed.AddCaption()
				if err := ed.Save(context.Background()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added caption %d (%s to %s)\n",
					added.ID, formatSeconds(added.Start), formatSeconds(added.End))
				return nil
			})
		},
	}
}

func newCaptionsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project-id> <caption-id>",
		Aliases: []string{"remove"},
		Short:   "Delete a caption",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			captionID, err := parseCaptionID(args[1])
			if err != nil {
				return err
			}
			return ctx.withEditor(projectID, func(ed *editor.Editor, store *project.Store) error {
				if err := ed.RemoveCaption(captionID); err != nil {
					return err
				}
				if err := ed.Save(context.Background()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed caption %d\n", captionID)
				return nil
			})
		},
	}
}

func newCaptionsSetTextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-text <project-id> <caption-id> <text>...",
		Short: "Replace a caption's text without touching its timing",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			captionID, err := parseCaptionID(args[1])
			if err != nil {
				return err
			}
			text := strings.Join(args[2:], " ")
			return ctx.withEditor(projectID, func(ed *editor.Editor, store *project.Store) error {
				if err := ed.SetCaptionText(captionID, text); err != nil {
					return err
				}
				if err := ed.Save(context.Background()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated caption %d\n", captionID)
				return nil
			})
		},
	}
}

func newCaptionsSetTimingCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-timing <project-id> <caption-id> <start> <end>",
		Short: "Adjust a caption's start and end seconds",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			captionID, err := parseCaptionID(args[1])
			if err != nil {
				return err
			}
			start, err := parseSeconds(args[2])
			if err != nil {
				return err
			}
			end, err := parseSeconds(args[3])
			if err != nil {
				return err
			}
			return ctx.withEditor(projectID, func(ed *editor.Editor, store *project.Store) error {
				if err := ed.SetCaptionTiming(captionID, start, end); err != nil {
					return err
				}
				if err := ed.Save(context.Background()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated caption %d (%s to %s)\n",
					captionID, formatSeconds(start), formatSeconds(end))
				return nil
			})
		},
	}
}

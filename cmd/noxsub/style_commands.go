package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"noxsub/internal/caption"
	"noxsub/internal/editor"
	"noxsub/internal/project"
)

func newStyleCommand(ctx *commandContext) *cobra.Command {
	styleCmd := &cobra.Command{
		Use:   "style",
		Short: "Show or replace a project's caption style",
	}

	styleCmd.AddCommand(newStyleShowCommand(ctx))
	styleCmd.AddCommand(newStyleSetCommand(ctx))

	return styleCmd
}

func newStyleShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Print the active caption style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				style := ed.Style()
				rows := [][]string{
					{"Font size", fmt.Sprintf("%dpx", style.FontSize)},
					{"Color", style.Color},
					{"Font family", style.FontFamily},
					{"Position", string(style.Position)},
					{"Background", style.BackgroundColor},
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Property", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newStyleSetCommand(ctx *commandContext) *cobra.Command {
	var fontSize int
	var color string
	var fontFamily string
	var position string
	var background string

	cmd := &cobra.Command{
		Use:   "set <project-id>",
		Short: "Replace the caption style",
		Long:  "Builds a complete style from the current one plus the given flags and applies it in one replacement.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			return ctx.withEditor(id, func(ed *editor.Editor, store *project.Store) error {
				style := ed.Style()
				if cmd.Flags().Changed("font-size") {
					style.FontSize = fontSize
				}
				if cmd.Flags().Changed("color") {
					style.Color = color
				}
				if cmd.Flags().Changed("font-family") {
					style.FontFamily = fontFamily
				}
				if cmd.Flags().Changed("position") {
					pos, ok := caption.ParsePosition(position)
					if !ok {
						return fmt.Errorf("unknown position %q (expected top, middle, or bottom)", position)
					}
					style.Position = pos
				}
				if cmd.Flags().Changed("background") {
					style.BackgroundColor = background
				}

				if err := ed.SetStyle(style); err != nil {
					return err
				}
				if err := ed.Save(context.Background()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Style updated")
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&fontSize, "font-size", 0, "Font size in pixels")
	cmd.Flags().StringVar(&color, "color", "", "Text color (CSS value)")
	cmd.Flags().StringVar(&fontFamily, "font-family", "", "Font family (CSS value)")
	cmd.Flags().StringVar(&position, "position", "", "Caption position: top, middle, or bottom")
	cmd.Flags().StringVar(&background, "background", "", "Background color (CSS value)")
	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	projectsCmd := &cobra.Command{
		Use:   "projects",
		Short: "List and manage saved projects",
	}

	projectsCmd.AddCommand(newProjectsListCommand(ctx))
	projectsCmd.AddCommand(newProjectsRemoveCommand(ctx))

	return projectsCmd
}

func newProjectsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show saved projects, most recently edited first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			projects, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet; run `noxsub import` or `noxsub fetch`.")
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				captions, err := p.Captions()
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", p.ID),
					truncateText(p.Title, 40),
					p.VideoFilename,
					formatSeconds(p.Duration),
					fmt.Sprintf("%d", len(captions)),
					p.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Title", "Video", "Duration", "Captions", "Updated"}, rows, aligns))
			return nil
		},
	}
}

func newProjectsRemoveCommand(ctx *commandContext) *cobra.Command {
	var keepVideo bool

	cmd := &cobra.Command{
		Use:     "rm <project-id>",
		Aliases: []string{"remove"},
		Short:   "Delete a project and its staged video copy",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			proj, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if !keepVideo && proj.VideoPath != "" {
				if err := os.Remove(proj.VideoPath); err != nil && !os.IsNotExist(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: staged video not removed: %v\n", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %d (%s)\n", id, proj.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepVideo, "keep-video", false, "Leave the staged video copy in place")
	return cmd
}

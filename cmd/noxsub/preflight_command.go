package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"noxsub/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, disk space, and backend reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, client)
			rows := make([][]string, 0, len(results))
			for _, res := range results {
				status := "FAIL"
				if res.Passed {
					status = "OK"
				}
				rows = append(rows, []string{res.Name, status, res.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if !preflight.Passed(results) {
				return fmt.Errorf("%d preflight check(s) failed", countFailed(results))
			}
			return nil
		},
	}
}

func countFailed(results []preflight.Result) int {
	failed := 0
	for _, res := range results {
		if !res.Passed {
			failed++
		}
	}
	return failed
}

package preflight

import (
	"context"

	"noxsub/internal/backend"
	"noxsub/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all preflight checks for the given config. The backend
// client is optional; without one the connectivity check is skipped.
func RunAll(ctx context.Context, cfg *config.Config, client *backend.Client) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))
	results = append(results, CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckFreeSpace("Staging free space", cfg.Paths.StagingDir, minStagingBytes))

	if client != nil {
		results = append(results, CheckBackend(ctx, client))
	}

	return results
}

// Passed reports whether every result in the set succeeded.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

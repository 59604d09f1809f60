package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"noxsub/internal/caption"
	"noxsub/internal/fileutil"
	"noxsub/internal/project"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <youtube-url-or-id>",
		Short: "Download a YouTube video through the backend and create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.backendClient()
			if err != nil {
				return err
			}

			videoID, err := extractYouTubeID(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			meta, err := client.YouTubeMetadata(cmd.Context(), videoID)
			if err != nil {
				return fmt.Errorf("look up video metadata: %w", err)
			}
			fmt.Fprintf(out, "Found %q by %s (%.0fs)\n", meta.Title, meta.ChannelTitle, meta.Duration)

			watchURL := "https://www.youtube.com/watch?v=" + videoID
			filename, err := client.DownloadVideo(cmd.Context(), watchURL)
			if err != nil {
				return fmt.Errorf("download video: %w", err)
			}

			stagedPath, err := fileutil.UniquePath(cfg.Paths.StagingDir, filename)
			if err != nil {
				return fmt.Errorf("stage path: %w", err)
			}
			f, err := os.Create(stagedPath)
			if err != nil {
				return fmt.Errorf("create staging file: %w", err)
			}
			if err := client.FetchFile(cmd.Context(), filename, f); err != nil {
				f.Close()
				os.Remove(stagedPath)
				return fmt.Errorf("fetch downloaded video: %w", err)
			}
			if err := f.Close(); err != nil {
				os.Remove(stagedPath)
				return fmt.Errorf("finish staging file: %w", err)
			}

			store, err := ctx.openStore()
			if err != nil {
				os.Remove(stagedPath)
				return err
			}
			defer store.Close()

			proj := &project.Project{
				Title:         meta.Title,
				VideoPath:     stagedPath,
				VideoFilename: filename,
				Duration:      meta.Duration,
				Language:      cfg.Transcription.Language,
				Model:         cfg.Transcription.Model,
			}
			if meta.Duration > 0 {
				if err := proj.SetCaptions([]caption.Caption{caption.Placeholder(meta.Duration)}); err != nil {
					os.Remove(stagedPath)
					return err
				}
			}
			if err := proj.SetStyle(cfg.Style.CaptionStyle()); err != nil {
				os.Remove(stagedPath)
				return err
			}
			created, err := store.Create(cmd.Context(), proj)
			if err != nil {
				os.Remove(stagedPath)
				return fmt.Errorf("create project: %w", err)
			}

			fmt.Fprintf(out, "Fetched %s as project %d (%s)\n", filename, created.ID, created.Title)
			return nil
		},
	}
	return cmd
}

// extractYouTubeID accepts a bare video id, a watch URL, or a youtu.be short
// link.
func extractYouTubeID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("youtube url or id required")
	}
	if !strings.Contains(arg, "/") && !strings.Contains(arg, ".") {
		return arg, nil
	}
	parsed, err := url.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("parse youtube url %q: %w", arg, err)
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := parsed.Query().Get("v"); id != "" {
			return id, nil
		}
		if rest, ok := strings.CutPrefix(parsed.Path, "/shorts/"); ok && rest != "" {
			return strings.Split(rest, "/")[0], nil
		}
	case "youtu.be":
		if id := strings.Trim(parsed.Path, "/"); id != "" {
			return strings.Split(id, "/")[0], nil
		}
	}
	return "", fmt.Errorf("could not extract a video id from %q", arg)
}

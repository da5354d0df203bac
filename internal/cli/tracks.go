package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alnah/go-captions/internal/extract"
)

// tracksFlags holds flag values for the tracks command.
type tracksFlags struct {
	format string
}

// TracksCmd creates the tracks command, which lists the caption languages
// available for a video without downloading any of them.
func TracksCmd(env *Env) *cobra.Command {
	flags := &tracksFlags{}

	cmd := &cobra.Command{
		Use:   "tracks <url>",
		Short: "List available caption tracks for a video",
		Long: `List available caption tracks for a video.

Uses the YouTube Data API when YOUTUBE_API_KEY is set, falling back to
the public timedtext track list endpoint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTracks(cmd.Context(), env, flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", FormatText,
		"output format: text or json")

	return cmd
}

func runTracks(ctx context.Context, env *Env, flags *tracksFlags, videoURL string) error {
	videoID, err := extract.ParseVideoID(videoURL)
	if err != nil {
		return err
	}

	lister := env.TrackListerFactory.NewTrackLister(env.Getenv("YOUTUBE_API_KEY"))
	tracks, err := lister.ListTracks(ctx, videoID)
	if err != nil {
		return err
	}

	switch strings.ToLower(flags.format) {
	case FormatJSON:
		data, err := json.MarshalIndent(tracks, "", "  ")
		if err != nil {
			return fmt.Errorf("cannot encode tracks: %w", err)
		}
		fmt.Fprintln(env.Stdout, string(data))
	case FormatText:
		w := tabwriter.NewWriter(env.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME\tKIND")
		for _, t := range tracks {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.LangCode, t.LangName, t.Kind)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q (want text or json)", ErrUnsupportedFormat, flags.format)
	}

	return nil
}

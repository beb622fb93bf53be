package cmd

import (
	"github.com/spf13/cobra"

	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes <series-url>",
	Short: "List the episodes of a series",
	Args:  cobra.ExactArgs(1),
	RunE:  episodesRun,
}

func episodesRun(cmd *cobra.Command, args []string) error {
	if err := httputil.ValidateURL(args[0]); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if interactive() {
		return pickEpisode(cmd.Context(), a.svc, media.ContentItem{Name: "Episodes", Link: args[0], Kind: media.KindMovie})
	}
	return printJSON(a.svc.ListEpisodes(cmd.Context(), args[0]))
}

var videoCmd = &cobra.Command{
	Use:   "video <episode-url>",
	Short: "Resolve the stream links of an episode",
	Args:  cobra.ExactArgs(1),
	RunE:  videoRun,
}

func videoRun(cmd *cobra.Command, args []string) error {
	if err := httputil.ValidateURL(args[0]); err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return printLinks(a.svc.ResolveVideo(cmd.Context(), args[0]))
}

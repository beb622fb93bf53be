package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"seasonvar/internal/media"
	"seasonvar/internal/service"
	"seasonvar/internal/ui"
)

// searchRun is the default command: seasonvar <query>
func searchRun(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if query == "" {
		if !interactive() {
			return fmt.Errorf("no search query provided")
		}
		var err error
		query, err = ui.Input("Search")
		if err != nil {
			return fmt.Errorf("no search query provided")
		}
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	debugf("searching for: %s", query)
	results := a.svc.Search(cmd.Context(), query)
	if !interactive() {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "Nothing found for %q.\n", query)
		return nil
	}
	return browse(cmd.Context(), a.svc, "Select", results)
}

// browse walks the user from a listing down to the stream links of one episode.
func browse(ctx context.Context, svc *service.Service, prompt string, items []media.ContentItem) error {
	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = displayTitle(it)
	}

	idx, err := ui.Select(prompt, titles)
	if err != nil {
		return err
	}
	selected := items[idx]
	debugf("selected: %s (%s, %s)", selected.Name, selected.Link, selected.Kind)

	if selected.Kind == media.KindCategory {
		listing := svc.Category(ctx, selected)
		if len(listing) == 0 {
			fmt.Fprintf(os.Stderr, "Category %q is empty.\n", selected.Name)
			return nil
		}
		return browse(ctx, svc, selected.Name, listing)
	}

	return pickEpisode(ctx, svc, selected)
}

func pickEpisode(ctx context.Context, svc *service.Service, series media.ContentItem) error {
	episodes := svc.ListEpisodes(ctx, series.Link)
	if len(episodes) == 0 {
		return fmt.Errorf("could not load episodes of %q", series.Name)
	}
	if episodes[0].IsSentinel() {
		fmt.Fprintln(os.Stderr, episodes[0].Name)
		return nil
	}

	titles := make([]string, len(episodes))
	for i, ep := range episodes {
		titles[i] = ep.Name
	}
	idx, err := ui.Select(series.Name, titles)
	if err != nil {
		return err
	}

	episode := episodes[idx]
	debugf("episode: %s (%s)", episode.Name, episode.Link)
	return printLinks(svc.ResolveVideo(ctx, episode.Link))
}

// printLinks prints one stream URL per line, or JSON when not on a terminal.
func printLinks(links []media.VideoLink) error {
	if !interactive() {
		return printJSON(links)
	}
	if len(links) == 0 {
		return errors.New("video resolution failed")
	}
	if links[0].IsSentinel() {
		return errors.New(links[0].Note)
	}
	for _, l := range links {
		fmt.Printf("%s\t%s\n", l.Format, l.File)
	}
	return nil
}

func displayTitle(it media.ContentItem) string {
	if it.Kind == media.KindCategory {
		return it.Name + "/"
	}
	return it.Name
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

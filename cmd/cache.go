package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or edit the local cache",
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cfg.ResolveCachePath()
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", cfg.CacheBackend, path)
		return nil
	},
}

var cacheForgetCmd = &cobra.Command{
	Use:   "forget <episode-url>...",
	Short: "Drop the cached stream links of episodes",
	Long: `Resolved stream links are cached without expiry. Use forget when an upstream
link has gone stale so the next lookup resolves it again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, episodeURL := range args {
			if err := a.svc.ForgetVideo(episodeURL); err != nil {
				return fmt.Errorf("forgetting %s: %w", episodeURL, err)
			}
			debugf("forgot: %s", episodeURL)
		}
		return nil
	},
}

var cacheListingForgetCmd = &cobra.Command{
	Use:   "drop <name>...",
	Short: "Drop cached listings by cache name (e.g. search_house, category_New)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, name := range args {
			if err := a.cache.Invalidate(name); err != nil {
				return fmt.Errorf("dropping %s: %w", name, err)
			}
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cachePathCmd)
	cacheCmd.AddCommand(cacheForgetCmd)
	cacheCmd.AddCommand(cacheListingForgetCmd)
}

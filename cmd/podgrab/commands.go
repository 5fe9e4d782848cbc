package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yourusername/podgrab-go/internal/app"
	"github.com/yourusername/podgrab-go/internal/domain"
)

var grabCmd = &cobra.Command{
	Use:   "grab [feed-url] [query]",
	Short: "Download episodes of a feed without prompting",
	Long: `Select episodes with the same queries as the interactive prompt: a letter (A),
a letter list (A,C), all, first, last, a count (3) or a title keyword.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		folder, _ := cmd.Flags().GetString("folder")
		if folder == "" {
			folder = rt.config.DownloadFolder
		}
		save, _ := cmd.Flags().GetBool("save")

		feed, err := rt.feeds.Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		selected, err := rt.selector.Select(feed.Entries, args[1])
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			fmt.Println("No episodes matched your selection.")
		}

		sink := newBarSink(os.Stdout)
		summary, err := rt.manager.DownloadEpisodes(cmd.Context(), feed.URL, selected, folder, sink.Update)
		sink.Finish()
		if err != nil {
			return err
		}
		app.PrintSummary(os.Stdout, summary)

		if save {
			existing, err := rt.library.FindByURL(feed.URL)
			if err != nil {
				return err
			}
			if existing == nil {
				if err := rt.library.Save(domain.LibraryRecord{Title: feed.Title, URL: feed.URL}); err != nil {
					return err
				}
				fmt.Println("Saved to library.")
			}
		}

		if summary.HasFailures() {
			return errRunFailures
		}
		return nil
	},
}

var episodesCmd = &cobra.Command{
	Use:   "episodes [feed-url]",
	Short: "List the episodes of a feed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		showAll, _ := cmd.Flags().GetBool("all")

		feed, err := rt.feeds.Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d episodes)\n", feed.Title, len(feed.Entries))
		if !showAll {
			for _, labeled := range app.LabelEntries(feed.Entries) {
				fmt.Printf("%s.) %s\n", labeled.Label, labeled.Entry.Title)
			}
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tLABEL\tTITLE\tMEDIA")
		for i, entry := range feed.Entries {
			label := ""
			if i < domain.DisplayWindowSize {
				label = domain.LabelFor(i)
			}
			media := "-"
			if entry.Downloadable() {
				media = app.FileNameFromURL(entry.SourceURL())
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, label, truncate(entry.Title, 60), media)
		}
		return w.Flush()
	},
}

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage saved feeds",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		records, err := rt.library.List()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("Library is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tTITLE\tURL")
		for i, record := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, record.Title, record.URL)
		}
		return w.Flush()
	},
}

var libraryAddCmd = &cobra.Command{
	Use:   "add [title] [feed-url]",
	Short: "Save a feed under a title",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.library.Save(domain.LibraryRecord{Title: args[0], URL: args[1]}); err != nil {
			return err
		}
		fmt.Println("Saved to library.")
		return nil
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove [title]",
	Short: "Remove a feed from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		removed, err := rt.library.Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%q is not in the library", args[0])
		}
		fmt.Println("Removed from library.")
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent download outcomes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		statusFlag, _ := cmd.Flags().GetString("status")

		var downloads []*domain.EpisodeDownload
		if statusFlag != "" {
			status, ok := domain.ParseDownloadStatus(statusFlag)
			if !ok {
				return fmt.Errorf("unknown status %q (pending, succeeded, failed, skipped)", statusFlag)
			}
			downloads, err = rt.history.FindByStatus(status, limit)
		} else {
			downloads, err = rt.history.FindRecent(limit)
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSTATUS\tEPISODE\tDETAIL\tCREATED")
		for _, d := range downloads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				truncate(d.RunID, 8),
				d.Status,
				truncate(d.EpisodeTitle, 40),
				truncate(outcomeDetail(d), 50),
				d.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.Close()

		stats, err := rt.history.GetStats()
		if err != nil {
			return err
		}

		fmt.Println("Download Statistics:")
		fmt.Printf("  Runs:       %d\n", stats.Runs)
		fmt.Printf("  Total:      %d\n", stats.Total)
		fmt.Printf("  Succeeded:  %d\n", stats.Succeeded)
		fmt.Printf("  Skipped:    %d\n", stats.Skipped)
		fmt.Printf("  Failed:     %d\n", stats.Failed)
		fmt.Printf("  Downloaded: %d bytes\n", stats.Bytes)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "download_folder\t%s\n", config.DownloadFolder)
		fmt.Fprintf(w, "library_path\t%s\n", config.LibraryPath)
		fmt.Fprintf(w, "history_path\t%s\n", config.HistoryPath)
		fmt.Fprintf(w, "http.user_agent\t%s\n", config.HTTP.UserAgent)
		fmt.Fprintf(w, "http.timeout\t%s\n", config.HTTP.Timeout)
		fmt.Fprintf(w, "http.max_retries\t%d\n", config.HTTP.MaxRetries)
		fmt.Fprintf(w, "http.retry_delay\t%s\n", config.HTTP.RetryDelay)
		fmt.Fprintf(w, "feed.cache_ttl\t%s\n", config.Feed.CacheTTL)
		fmt.Fprintf(w, "server\t%s:%d\n", config.Server.Host, config.Server.Port)
		fmt.Fprintf(w, "notification\t%t (%s)\n", config.Notification.Enabled, config.Notification.Method)
		fmt.Fprintf(w, "logging\t%s %s -> %s\n", config.Logging.Level, config.Logging.Format, config.Logging.OutputPath)
		return w.Flush()
	},
}

var configSetFolderCmd = &cobra.Command{
	Use:   "set-folder [dir]",
	Short: "Change the download folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}
		config.DownloadFolder = args[0]
		if err := app.SaveConfig(config, configPath); err != nil {
			return err
		}
		fmt.Printf("Download folder set to %s\n", args[0])
		return nil
	},
}

func init() {
	grabCmd.Flags().StringP("folder", "f", "", "Download folder (defaults to the configured one)")
	grabCmd.Flags().BoolP("save", "s", false, "Save the feed to the library")
	episodesCmd.Flags().BoolP("all", "a", false, "List every episode, not only the labelled ones")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of outcomes to show (0 for all)")
	historyCmd.Flags().String("status", "", "Only show outcomes with this status (succeeded, failed, skipped)")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetFolderCmd)
}

// outcomeDetail is the file written, the skip reason or the error
func outcomeDetail(d *domain.EpisodeDownload) string {
	switch d.Status {
	case domain.StatusSucceeded:
		return d.FilePath
	case domain.StatusSkipped:
		return d.SkipReason
	default:
		return d.ErrorMessage
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

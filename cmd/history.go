package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"ytresolve/internal/history"
	"ytresolve/internal/ui"
)

var (
	flagHistoryList  bool
	flagHistoryClear string
	flagHistoryLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Resolve a link from history again",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVarP(&flagHistoryList, "list", "l", false, "Print history instead of picking an entry")
	historyCmd.Flags().StringVar(&flagHistoryClear, "clear", "", "Remove `LINK` from history")
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 50, "Maximum entries to show (0 for all)")
	addResolveFlags(historyCmd)
}

func historyRun(cmd *cobra.Command, args []string) error {
	link, err := pickFromHistory(cmd.Context(), cmd.OutOrStdout())
	if err != nil || link == "" {
		return err
	}
	// The stored quality is informational; current settings apply.
	return resolveLink(cmd.Context(), cmd.OutOrStdout(), link)
}

// pickFromHistory handles --clear and --list, or lets the user choose an
// entry. It returns "" when there is nothing left to resolve.
func pickFromHistory(ctx context.Context, w io.Writer) (string, error) {
	store, err := openHistory()
	if err != nil {
		return "", fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	if flagHistoryClear != "" {
		if err := store.Remove(ctx, flagHistoryClear); err != nil {
			return "", err
		}
		fmt.Fprintf(w, "Removed %s\n", flagHistoryClear)
		return "", nil
	}

	entries, err := store.List(ctx, flagHistoryLimit)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No history entries found.")
		return "", nil
	}

	items := history.FormatForDisplay(entries)
	if flagHistoryList || !ui.Interactive() {
		for i, e := range entries {
			fmt.Fprintf(w, "%s  %s\n", labelStyle.Render(e.ResolvedAt.Local().Format(time.DateTime)), items[i])
		}
		return "", nil
	}

	idx, err := ui.Select("History", items)
	if err != nil {
		if errors.Is(err, ui.ErrCancelled) {
			return "", nil
		}
		return "", err
	}

	selected := entries[idx]
	debugf("re-resolving %s (last %s)", selected.Link, selected.ResolvedAt.Format(time.RFC3339))
	return selected.Link, nil
}

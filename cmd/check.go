package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytresolve/internal/ytdlp"
)

var checkCmd = &cobra.Command{
	Use:   "check <link>...",
	Short: "Report whether links are supported without running yt-dlp",
	Args:  cobra.MinimumNArgs(1),
	RunE:  checkRun,
}

func checkRun(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	unsupported := 0
	for _, link := range args {
		if ytdlp.IsSupportedLink(link) {
			fmt.Fprintf(w, "%s %s\n", okStyle.Render("supported  "), link)
			continue
		}
		unsupported++
		fmt.Fprintf(w, "%s %s\n", failStyle.Render("unsupported"), link)
	}

	if unsupported > 0 {
		return fmt.Errorf("%d of %d links unsupported", unsupported, len(args))
	}
	return nil
}

package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show storage statistics",
		Run: func(cmd *cobra.Command, args []string) {
			statsRun()
		},
	}
}

func statsRun() {
	st, err := buildStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	stats, err := st.GetStats(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to read stats: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("📊 Store statistics")
	fmt.Printf("   Articles:      %d\n", stats.ArticleCount)
	fmt.Printf("   Lineages:      %d\n", stats.LineageCount)
	fmt.Printf("   Pipeline runs: %d (%d failed)\n", stats.RunCount, stats.FailedRuns)
	fmt.Printf("   Store size:    %d bytes\n", stats.StoreSize)
	if !stats.LastUpdated.IsZero() {
		fmt.Printf("   Last updated:  %s\n", stats.LastUpdated.Format("Jan 02, 2006 15:04"))
	}
}

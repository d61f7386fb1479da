package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
)

var (
	searchLimit    int
	searchMinScore float64
	searchImages   bool
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed files by meaning",
	Long: `Runs a semantic query against the index. Text files are always
searched; pass --images to include cross-modal image matches. Results
are deduplicated per file and sorted by relevance.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = default)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "relevance floor in [0,1] (0 = default)")
	searchCmd.Flags().BoolVar(&searchImages, "images", false, "include image results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if svc.Search == nil {
		return errors.New("search service not configured")
	}

	// Flags left at zero fall back to the configured defaults.
	limit := searchLimit
	if limit <= 0 {
		limit = svc.SearchLimit
	}
	minScore := searchMinScore
	if minScore <= 0 {
		minScore = svc.SearchMinScore
	}

	results, err := svc.Search.Search(context.Background(), domain.SearchRequest{
		Query:         args[0],
		Limit:         limit,
		MinScore:      minScore,
		IncludeImages: searchImages,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, r := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.FilePath, r.Score)
		if r.Modality == domain.ModalityImage {
			cmd.Println("      image")
			continue
		}
		if r.Snippet != "" {
			cmd.Printf("      %s\n", snippetLine(r.Snippet))
		}
	}
	return nil
}

// snippetLine flattens a snippet to one trimmed line.
func snippetLine(s string) string {
	const max = 120
	out := make([]rune, 0, max)
	for _, r := range s {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
		if len(out) == max {
			return string(out) + "..."
		}
	}
	return string(out)
}

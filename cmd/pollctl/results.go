package main

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/services"
)

func init() {
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results POLL_ID",
	Short: "Print the live results of a poll",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pollID, err := uuid.Parse(args[0])
		if err != nil {
			return domain.ErrInvalidPollID
		}

		repos, err := openRepositories(cmd.Context())
		if err != nil {
			return err
		}
		defer repos.Close()

		svc := services.NewResultsService(repos.Polls, repos.Responses, repos.Results, nil)
		summary, err := svc.GetResults(cmd.Context(), pollID)
		if err != nil {
			return err
		}

		writeReport(cmd.OutOrStdout(), summary)
		return nil
	},
}

func writeReport(w io.Writer, summary *domain.ResultsSummary) {
	fmt.Fprintf(w, "%s\n", summary.PollTitle)
	fmt.Fprintf(w, "%s %s\n", humanize.Comma(int64(summary.TotalResponses)), plural(summary.TotalResponses, "response", "responses"))

	for i, q := range summary.Questions {
		fmt.Fprintf(w, "\n%d. %s (%s)\n", i+1, q.Question, q.Type)

		switch q.Type {
		case domain.QuestionMultipleChoice:
			for _, opt := range byCount(q.Answers) {
				n := q.Answers[opt]
				fmt.Fprintf(w, "   %-20s %5d  %3d%%\n", opt, n, domain.Percentage(n, summary.TotalResponses))
			}
		case domain.QuestionRating:
			for r := domain.MinRating; r <= domain.MaxRating; r++ {
				n := q.RatingCount(r)
				fmt.Fprintf(w, "   %-20s %5d  %3d%%\n", strconv.Itoa(r), n, domain.Percentage(n, summary.TotalResponses))
			}
			fmt.Fprintf(w, "   average %.1f\n", q.AverageRating)
		case domain.QuestionText:
			if len(q.TextResponses) == 0 {
				fmt.Fprintln(w, "   (no answers)")
			}
			for _, text := range q.TextResponses {
				fmt.Fprintf(w, "   - %q\n", text)
			}
		}
	}
}

// byCount orders options by descending count, then by name.
func byCount(counts map[string]int) []string {
	keys := slices.Collect(maps.Keys(counts))
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

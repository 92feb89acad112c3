package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/services"
)

func init() {
	rootCmd.AddCommand(responsesCmd)
}

var responsesCmd = &cobra.Command{
	Use:   "responses POLL_ID",
	Short: "List who answered a poll and when",
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

		svc := services.NewResponseService(repos.Polls, repos.Responses, nil)
		responses, err := svc.ListResponses(cmd.Context(), pollID)
		if err != nil {
			return err
		}

		return writeResponses(cmd.OutOrStdout(), responses, time.Now())
	},
}

func writeResponses(w io.Writer, responses []domain.Response, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESPONDENT\tSUBMITTED\tID")
	for _, r := range responses {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.RespondentName, humanize.RelTime(r.SubmittedAt, now, "ago", "from now"), r.ID)
	}
	fmt.Fprintf(tw, "\n%s total\n", humanize.Comma(int64(len(responses))))
	return tw.Flush()
}

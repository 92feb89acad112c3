package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a YAML or JSON poll definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		draft, err := parseDraft(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		poll, err := domain.NewPoll(draft)
		if err != nil {
			return fmt.Errorf("%s is not a valid poll: %w", args[0], err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(poll)
	},
}

// parseDraft decodes a poll draft. JSON is a subset of YAML, so one strict
// YAML decoder covers both formats.
func parseDraft(data []byte) (domain.PollDraft, error) {
	var draft domain.PollDraft
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&draft); err != nil {
		return domain.PollDraft{}, err
	}
	return draft, nil
}

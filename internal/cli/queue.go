package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewQueueCmd создаёт команду просмотра очереди справедливости.
func NewQueueCmd(appFn AppFunc, outputFn OutputFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Show the fairness queue",
		Long: `Queue prints competitors in the order the next race would pick
them: drivers who never raced first, then the longest-waiting ones.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := appFn(ctx)
			if err != nil {
				return err
			}
			out := outputFn()

			entries, err := app.Queue.Entries(ctx, app.Competitors)
			if err != nil {
				return err
			}

			headers := []string{"POSITION", "TOKEN", "LAST_RACED"}
			rows := make([][]string, len(entries))
			jsonData := make([]any, len(entries))
			for i, e := range entries {
				rows[i] = []string{
					strconv.Itoa(i + 1),
					e.Competitor.Token,
					formatWhen(e.LastRaced, e.Raced),
				}
				jsonData[i] = map[string]any{
					"position":   i + 1,
					"token":      e.Competitor.Token,
					"last_raced": e.LastRaced,
					"raced":      e.Raced,
				}
			}

			out.Print(headers, rows, jsonData)
			return nil
		},
	}
}

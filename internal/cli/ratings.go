package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRatingsCmd создаёт группу команд для работы с рейтингами.
func NewRatingsCmd(appFn AppFunc, outputFn OutputFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Manage competitor ratings",
	}

	cmd.AddCommand(
		newRatingsListCmd(appFn, outputFn),
		newRatingsResetCmd(appFn, outputFn),
	)

	return cmd
}

func newRatingsListCmd(appFn AppFunc, outputFn OutputFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the tournament table",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := appFn(ctx)
			if err != nil {
				return err
			}
			out := outputFn()

			if err := app.Store.Load(ctx, app.Competitors); err != nil {
				return err
			}

			ordered := make([]int, len(app.Competitors))
			for i := range ordered {
				ordered[i] = i
			}
			sort.Slice(ordered, func(i, j int) bool {
				a, b := app.Competitors[ordered[i]], app.Competitors[ordered[j]]
				if a.Rating != b.Rating {
					return a.Rating > b.Rating
				}
				return a.Token < b.Token
			})

			headers := []string{"RANK", "TOKEN", "RATING"}
			rows := make([][]string, len(ordered))
			jsonData := make([]any, len(ordered))
			for rank, idx := range ordered {
				c := app.Competitors[idx]
				rows[rank] = []string{strconv.Itoa(rank + 1), c.Token, formatRating(c.Rating)}
				jsonData[rank] = c
			}

			out.Print(headers, rows, jsonData)
			return nil
		},
	}
}

func newRatingsResetCmd(appFn AppFunc, outputFn OutputFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restart the tournament from the initial rating",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := appFn(ctx)
			if err != nil {
				return err
			}
			out := outputFn()

			ctrl, err := app.Controller(ctx, true, false)
			if err != nil {
				return err
			}
			if err := ctrl.ResetRatings(ctx); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Ratings reset: %d competitors at %s",
				len(app.Competitors), formatRating(app.Engine.Initial())))
			return nil
		},
	}
}

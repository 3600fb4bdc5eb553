package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Paddock/internal/race"
)

// NewRaceCmd создаёт команду одного заезда.
func NewRaceCmd(appFn AppFunc, outputFn OutputFunc) *cobra.Command {
	var simulate bool
	var pauseSync bool

	cmd := &cobra.Command{
		Use:   "race [TOKEN...]",
		Short: "Run a single race",
		Long: `Run a single race and apply its outcome to the ratings.

With tokens, exactly those competitors race, seated in the given
order. Without arguments, the fairness queue picks the grid: the
competitors that raced longest ago, as many as the simulator config
has driver slots.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := appFn(ctx)
			if err != nil {
				return err
			}
			out := outputFn()

			ctrl, err := app.Controller(ctx, simulate, pauseSync)
			if err != nil {
				return err
			}

			var result *race.Result
			if len(args) > 0 {
				result, err = ctrl.RaceExplicit(ctx, args)
			} else {
				result, err = ctrl.RaceNext(ctx)
			}
			if err != nil {
				return err
			}

			headers := []string{"RANK", "TOKEN", "RATING"}
			rows := make([][]string, len(result.Order))
			for i, c := range result.Order {
				rows[i] = []string{strconv.Itoa(i + 1), c.Token, formatRating(c.Rating)}
			}

			out.Success(fmt.Sprintf("Race %s finished in %s",
				result.Race.ID, result.Race.Duration().Round(time.Millisecond)))
			out.Print(headers, rows, result.Order)
			return nil
		},
	}

	cmd.Flags().BoolVar(&simulate, "simulate", false, "Score the newest existing protocol without spawning processes")
	cmd.Flags().BoolVar(&pauseSync, "pause-sync", false, "Pause the file-sync daemon for the duration of the race")

	return cmd
}

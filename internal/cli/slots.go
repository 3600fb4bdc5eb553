package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/Paddock/internal/torcs"
)

// NewSlotsCmd создаёт команду просмотра слотов гоночной конфигурации.
func NewSlotsCmd(appFn AppFunc, outputFn OutputFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Show driver slots in the simulator config",
		Long: `Slots parses the race configuration file and prints the driver
slots it declares. Use it to check how many competitors the next race
will seat before starting a tournament.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := appFn(ctx)
			if err != nil {
				return err
			}
			out := outputFn()

			cfg := app.Config.Simulator
			data, err := app.FS.DownloadWithURL(ctx, cfg.ConfigFile)
			if err != nil {
				return err
			}
			slots, err := torcs.ReadSlots(data, cfg.Module, cfg.BasePort)
			if err != nil {
				return err
			}

			headers := []string{"SEAT", "MODULE", "INDEX", "PORT"}
			rows := make([][]string, len(slots))
			jsonData := make([]any, len(slots))
			for i, s := range slots {
				rows[i] = []string{
					strconv.Itoa(i + 1),
					s.Module,
					strconv.Itoa(s.Index),
					strconv.Itoa(s.Port),
				}
				jsonData[i] = s
			}

			out.Print(headers, rows, jsonData)
			return nil
		},
	}
}

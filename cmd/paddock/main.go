// Paddock — оркестратор гоночных турниров поверх симулятора TORCS.
//
// Использование:
//
//	paddock [--config FILE] [--log-level LEVEL] [--json] <command> [flags]
//
// Команды:
//
//	race     Провести один заезд (явный состав или голова очереди)
//	loop     Гонять заезды по расписанию, со статусом по HTTP
//	ratings  Турнирная таблица и сброс рейтингов
//	slots    Слоты гоночной конфигурации симулятора
//	queue    Очередь справедливости
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shaiso/Paddock/internal/cli"
	"github.com/shaiso/Paddock/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var configPath string
	var logLevel string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "paddock",
		Short:         "Paddock — race tournament orchestrator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logLevel != "" {
				os.Setenv("LOG_LEVEL", strings.ToUpper(logLevel))
			}
			telemetry.SetupLogger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "paddock.yaml", "Tournament config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	appFn := func(ctx context.Context) (*cli.App, error) {
		return cli.NewApp(ctx, configPath, slog.Default())
	}
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewRaceCmd(appFn, outputFn),
		cli.NewLoopCmd(appFn, outputFn),
		cli.NewRatingsCmd(appFn, outputFn),
		cli.NewSlotsCmd(appFn, outputFn),
		cli.NewQueueCmd(appFn, outputFn),
	)

	// graceful shutdown: первый сигнал отменяет контекст, заезд
	// завершается через обычный путь очистки.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

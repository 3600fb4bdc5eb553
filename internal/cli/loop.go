package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Paddock/internal/api"
)

// NewLoopCmd создаёт команду непрерывного режима: заезды идут
// по расписанию, пока процесс не остановят сигналом.
func NewLoopCmd(appFn AppFunc, outputFn OutputFunc) *cobra.Command {
	var addr string
	var simulate bool
	var pauseSync bool

	cmd := &cobra.Command{
		Use:   "loop",
		Short: "Run races until stopped",
		Long: `Run races back to back until the process is stopped.

Each race takes the head of the fairness queue. A failed race stops
the loop: an operator has to look at the cause before the tournament
continues. While the loop runs, an HTTP endpoint serves /healthz,
/metrics and /status.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := appFn(ctx)
			if err != nil {
				return err
			}

			ctrl, err := app.Controller(ctx, simulate, pauseSync)
			if err != nil {
				return err
			}

			listen := app.Config.Loop.Addr
			if cmd.Flags().Changed("addr") {
				listen = addr
			}

			if listen != "" {
				handler := api.NewHandler(api.Config{Tournament: ctrl, Logger: app.Logger})
				mux := http.NewServeMux()
				handler.RegisterRoutes(mux)

				server := &http.Server{Addr: listen, Handler: mux}
				go func() {
					app.Logger.Info("status server listening", "addr", listen)
					if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						app.Logger.Error("status server failed", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					server.Shutdown(shutdownCtx)
				}()
			}

			return ctrl.Loop(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Status server address, empty disables (overrides loop.addr)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Score existing protocols without spawning processes")
	cmd.Flags().BoolVar(&pauseSync, "pause-sync", false, "Pause the file-sync daemon around every race")

	return cmd
}

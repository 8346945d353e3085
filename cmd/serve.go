package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jsphweid/choirdex/server"
	"github.com/jsphweid/choirdex/storage"
	"github.com/spf13/cobra"
)

var addr string

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "address to listen on, defaults to the configured one")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves scores over HTTP",
	Long:  `Serves parsing, scheduling, layout, MIDI export and practice history over HTTP.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFor(cmd)
		settings, err := openSettings(cmd)
		if err != nil {
			return err
		}
		defer func() {
			if err := settings.Flush(); err != nil {
				logger.Error("could not save settings", "err", err)
			}
		}()

		srv := server.New(server.Options{
			Scores:         openScores(cmd),
			History:        storage.NewHistory(cfg.HistoryPath()),
			Settings:       settings,
			Index:          openIndex(cmd),
			Scheduler:      cfg.Scheduler(),
			StaffSpacing:   cfg.StaffSpacing,
			Spacing:        cfg.Spacing,
			LayoutWidth:    cfg.LayoutWidth,
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         logger,
		})

		listenOn := addr
		if listenOn == "" {
			listenOn = cfg.Addr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, listenOn)
	},
}

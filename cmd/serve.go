package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/waterdash/internal/logx"
	"github.com/KaramelBytes/waterdash/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		addr := c.ListenAddr
		if cmd.Flags().Changed("addr") && serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// A table that cannot be loaded is fatal before the listener starts.
		cache, t, err := loadTable(ctx, c)
		if err != nil {
			return err
		}
		logx.Successf("Loaded %d readings from %s", t.Len(), c.DataPath)

		srv := server.New(cache, server.Options{
			Charts:      chartOptions(c),
			CORSOrigins: c.CORSOrigins,
		})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}

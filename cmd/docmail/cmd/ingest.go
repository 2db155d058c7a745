package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/docmail/eventlog"
)

func newIngestCmd(a *app) *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest [events.json]",
		Short: "Stores event notifications in the event log",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runIngest,
	}

	fs := ingestCmd.Flags()
	fs.String("driver", "sqlite3", "store driver: postgres or sqlite3")
	fs.String("dsn", "datalog.db", "store data source name")
	fs.String("collection", eventlog.DefaultCollection, "table receiving the records")
	a.bind(fs, "store.driver", "driver")
	a.bind(fs, "store.dsn", "dsn")
	a.bind(fs, "store.collection", "collection")

	return ingestCmd
}

func (a *app) runIngest(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	evs, err := eventlog.ParseEvents(in)
	if err != nil {
		return err
	}

	store, err := eventlog.OpenStore(cmd.Context(), a.cfg.Store.Driver, a.cfg.Store.DSN, a.cfg.Store.Collection)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	h := &eventlog.Handler{Store: store, Logger: a.logger}
	n := h.HandleBatch(cmd.Context(), evs)

	fmt.Fprintf(cmd.OutOrStdout(), "stored %d of %d events\n", n, len(evs))
	return nil
}

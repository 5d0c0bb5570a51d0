package main

import (
	"encoding/json"
	"fmt"
	"github.com/spf13/cobra"
	"shift-metrics/internal/blob"
	"shift-metrics/internal/service/ingest"
	"shift-metrics/internal/storage/sqlstore"
)

func newIngestCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <blob-name>",
		Short: "Run the import pipeline once on a stored file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}

			loc, err := e.cfg.Location()
			if err != nil {
				return err
			}

			store, err := sqlstore.New(*e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			blobs, err := blob.NewLocal(e.cfg.Blob.Root)
			if err != nil {
				return err
			}

			pipeline := ingest.New(blobs, store, ingest.Options{
				Log:               e.log,
				Location:          loc,
				DefaultShiftTypes: e.cfg.DefaultShiftTypes,
				ArchivePrefix:     e.cfg.ArchivePrefix,
			})

			res, runErr := pipeline.Run(cmd.Context(), args[0])

			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if runErr != nil {
				return runErr
			}
			if res.State == ingest.StateAborted {
				return fmt.Errorf("import aborted: %s", res.AbortReason)
			}
			return nil
		},
	}

	return cmd
}

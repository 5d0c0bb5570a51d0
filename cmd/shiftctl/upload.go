package main

import (
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"shift-metrics/internal/blob"
	"shift-metrics/internal/uploader"
	"time"
)

func newUploadCmd(root *rootOptions) *cobra.Command {
	var (
		dir   string
		watch bool
		quiet time.Duration
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload CSV exports from a local folder into the import prefix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.load()
			if err != nil {
				return err
			}

			if dir == "" {
				dir = e.cfg.WatchFolder
			}
			if dir == "" {
				return errors.New("no folder: pass --dir or set watch_folder")
			}

			blobs, err := blob.NewLocal(e.cfg.Blob.Root)
			if err != nil {
				return err
			}

			up := &uploader.Uploader{
				Dir:    dir,
				Prefix: e.cfg.ImportPrefix,
				Blobs:  blobs,
				Log:    e.log,
				Quiet:  quiet,
			}

			if watch {
				fmt.Fprintf(cmd.OutOrStdout(), "watching %s, Ctrl-C to stop\n", dir)
				return up.Watch(cmd.Context())
			}

			sum, err := up.UploadAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d, failed %d\n", sum.Uploaded, sum.Failed)
			if sum.Failed > 0 {
				return fmt.Errorf("%d file(s) failed to upload", sum.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Folder to upload from (default: watch_folder)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running and upload new files as they appear")
	cmd.Flags().DurationVar(&quiet, "quiet", time.Second, "With --watch, how long the folder must be unchanged before uploading")

	return cmd
}

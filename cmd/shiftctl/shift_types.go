package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"shift-metrics/internal/service/ingest"
	"shift-metrics/internal/storage"
	"shift-metrics/internal/storage/sqlstore"
)

// shiftTypesFile is the YAML layout accepted by "shift-types import":
//
//	shift_types:
//	  - key: open
//	    label: Open
//	    range_start: "05:00"
//	    range_end: "11:00"
//
// sort_order is optional; when no entry sets it the file order is used,
// otherwise the given values are kept as they are.
type shiftTypesFile struct {
	ShiftTypes []storage.ShiftTypeDefinition `yaml:"shift_types"`
}

func parseShiftTypes(r io.Reader) ([]storage.ShiftTypeDefinition, error) {
	var f shiftTypesFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty shift types file")
		}
		return nil, err
	}

	ordered := false
	for _, def := range f.ShiftTypes {
		if def.SortOrder != 0 {
			ordered = true
			break
		}
	}
	if !ordered {
		for i := range f.ShiftTypes {
			f.ShiftTypes[i].SortOrder = i + 1
		}
	}

	if err := ingest.ValidateShiftTypes(f.ShiftTypes); err != nil {
		return nil, err
	}
	return f.ShiftTypes, nil
}

type shiftTypeReplacer interface {
	ReplaceShiftTypes(ctx context.Context, managerID int64, defs []storage.ShiftTypeDefinition) error
}

func importShiftTypes(ctx context.Context, store shiftTypeReplacer, managerID int64, r io.Reader) (int, error) {
	defs, err := parseShiftTypes(r)
	if err != nil {
		return 0, err
	}
	if err := store.ReplaceShiftTypes(ctx, managerID, defs); err != nil {
		return 0, err
	}
	return len(defs), nil
}

func newShiftTypesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shift-types",
		Short: "Manage per-manager shift type definitions",
	}

	var managerID int64

	importCmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Replace a manager's shift types with the ones in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if managerID <= 0 {
				return fmt.Errorf("--manager must be a positive id")
			}

			e, err := root.load()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			store, err := sqlstore.New(*e.cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := importShiftTypes(cmd.Context(), store, managerID, f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "manager %d: %d shift type(s) imported\n", managerID, n)
			return nil
		},
	}

	importCmd.Flags().Int64Var(&managerID, "manager", 0, "Manager id (required)")
	_ = importCmd.MarkFlagRequired("manager")

	cmd.AddCommand(importCmd)
	return cmd
}

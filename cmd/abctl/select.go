package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/ab"
	"github.com/joshuapare/slotkit/pkg/slots"
)

var selectDryRun bool

func init() {
	rootCmd.AddCommand(newSelectCmd())
}

func newSelectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select <device>",
		Short: "Choose the slot to boot and record the attempt",
		Long: `The select command picks the bootable slot with the highest priority,
consumes one of its tries, retires slots that can no longer boot, and writes
the partition table back when anything changed.

The chosen slot is printed as shell assignments on stdout, suitable for eval,
or appended to --env-file. When no slot is bootable, retired slots are still
written, nothing is exported and the exit status is 1.

Example:
  abctl select /dev/mmcblk0
  abctl select --scheme qcom --slot-var BOOT_SLOT disk.img
  eval "$(abctl select -q /dev/sda)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd.Context(), args)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&selectDryRun, "dry-run", false, "Report the choice without writing the partition table")
	f.String("backup", "", "Save the table sectors to this file before writing")
	f.String("slot-var", "SLOT", "Variable receiving the slot letter (empty to skip)")
	f.String("name-var", "SLOT_NAME", "Variable receiving the partition name (empty to skip)")
	f.String("uuid-var", "SLOT_UUID", "Variable receiving the partition UUID (empty to skip)")
	f.String("env-file", "", "Append variables to this file instead of stdout")
	return cmd
}

func runSelect(ctx context.Context, args []string) error {
	device := args[0]

	s, err := scheme(cfg)
	if err != nil {
		return err
	}
	// Reject bad variable names before touching the disk.
	if _, err := exportVars(cfg.Export, ab.Identity{}); err != nil {
		return err
	}

	printVerbose("Selecting %s slot on %s\n", s.Name(), device)

	opts := slotOptions(cfg)
	opts.DryRun = selectDryRun
	res, err := slots.Select(ctx, device, s, opts)
	if err != nil {
		if errors.Is(err, ab.ErrNoBootableSlot) && res.Dirty {
			printStatus("Retired slots %v\n", letters(res.Disabled))
		}
		return fmt.Errorf("select %s: %w", device, err)
	}

	vars, err := exportVars(cfg.Export, res.Identity)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(res)
	}

	printStatus("%s: booting slot %s: %s (%s)\n", s.Name(), res.Identity.Letter, res.Identity.Name, res.Identity.UUID)
	if len(res.Disabled) > 0 {
		printStatus("Retired slots %v\n", letters(res.Disabled))
	}
	if selectDryRun {
		printStatus("Dry run: partition table not written\n")
	}

	if cfg.Export.EnvFile != "" {
		if err := appendEnvFile(cfg.Export.EnvFile, vars); err != nil {
			return fmt.Errorf("write env file: %w", err)
		}
		printVerbose("Wrote %d variable(s) to %s\n", len(vars), cfg.Export.EnvFile)
		return nil
	}
	return writeVars(os.Stdout, vars)
}

func letters(slotIdx []int) []string {
	out := make([]string, len(slotIdx))
	for i, s := range slotIdx {
		out[i] = string(ab.SlotLetter(s))
	}
	return out
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/ab"
	"github.com/joshuapare/slotkit/pkg/slots"
)

func init() {
	rootCmd.AddCommand(newMarkSuccessfulCmd())
}

func newMarkSuccessfulCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark-successful <device> <slot>",
		Short: "Record that a slot booted successfully",
		Long: `The mark-successful command is run once the booted system is known to
be healthy. It flags the slot as successful so the bootloader keeps choosing
it without consuming tries.

The slot is given as a letter (a, b) or index (0, 1).

Example:
  abctl mark-successful /dev/mmcblk0 b`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarkSuccessful(cmd.Context(), args)
		},
	}
	cmd.Flags().String("backup", "", "Save the table sectors to this file before writing")
	return cmd
}

func runMarkSuccessful(ctx context.Context, args []string) error {
	device := args[0]

	slot, err := ab.ParseSlot(args[1])
	if err != nil {
		return err
	}
	s, err := scheme(cfg)
	if err != nil {
		return err
	}

	changed, err := slots.MarkSuccessful(ctx, device, s, slot, slotOptions(cfg))
	if err != nil {
		return fmt.Errorf("mark-successful %s: %w", device, err)
	}

	if jsonOut {
		return printJSON(map[string]any{
			"slot":    string(ab.SlotLetter(slot)),
			"changed": changed,
		})
	}
	if changed {
		printInfo("Slot %s marked successful\n", string(ab.SlotLetter(slot)))
	} else {
		printInfo("Slot %s already marked successful\n", string(ab.SlotLetter(slot)))
	}
	return nil
}

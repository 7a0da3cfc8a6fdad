package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/pkg/slots"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <device>",
		Short: "Show the A/B state of every slot",
		Long: `The status command decodes the boot attributes of each slot without
modifying the disk.

Example:
  abctl status /dev/mmcblk0
  abctl status --scheme qcom --json disk.img`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), args)
		},
	}
}

func runStatus(ctx context.Context, args []string) error {
	device := args[0]

	s, err := scheme(cfg)
	if err != nil {
		return err
	}
	r, err := slots.Status(ctx, device, s, slotOptions(cfg))
	if err != nil {
		return fmt.Errorf("status %s: %w", device, err)
	}

	if jsonOut {
		return printJSON(r)
	}

	printInfo("Device: %s\n", r.Path)
	printInfo("Scheme: %s\n", r.Scheme)
	printVerbose("Disk GUID: %s\nTable copy: %s\n", r.DiskGUID, r.Table)
	if len(r.Slots) == 0 {
		printInfo("No slots found\n")
		return nil
	}
	if quiet {
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLOT\tNAME\tPRIORITY\tTRIES\tSUCCESSFUL\tSTATE\tUUID")
	for _, st := range r.Slots {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\t%s\t%s\n",
			st.Letter, st.Name, st.Attributes.Priority, st.Attributes.Tries,
			st.Attributes.Successful, slotState(st), st.UUID)
	}
	return tw.Flush()
}

func slotState(st slots.SlotStatus) string {
	switch {
	case st.Disabled:
		return "disabled"
	case st.Bootable:
		return "bootable"
	default:
		return "exhausted"
	}
}

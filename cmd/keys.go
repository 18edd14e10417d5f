package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/nrl/internal/keymap"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the editing key bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		printBindings(cmd.OutOrStdout(), keymap.Default())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

// printBindings lists the keys of t grouped by operation.
func printBindings(w io.Writer, t *keymap.Table) {
	byOp := make(map[keymap.Op][]string)
	var ops []keymap.Op
	for _, b := range t.Bindings() {
		op, _ := t.Lookup(b.Key())
		if _, seen := byOp[op]; !seen {
			ops = append(ops, op)
		}
		byOp[op] = append(byOp[op], b.String())
	}
	slices.Sort(ops)

	fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("%d bindings", t.Len())))
	for _, op := range ops {
		fmt.Fprintf(w, "  %-20s %s\n", op, valueStyle.Render(strings.Join(byOp[op], ", ")))
	}
}

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <preset.json>",
	Short: "Print the nodes and relations of a preset file",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	session, err := openFile(cmd, args[0])
	if err != nil {
		return err
	}

	snap := session.service.Snapshot()
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, snap)
	}

	fmt.Fprintf(out, "%s (%d nodes, %d relations, %d pending inferences)\n\n",
		session.doc.Meta.Name, len(snap.Nodes), len(snap.Edges), session.service.CountPotential())

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tRELATION\tTARGET\tORIGIN")
	for _, e := range snap.Edges {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Source, e.Relation, e.Target, e.Type)
	}
	return tw.Flush()
}

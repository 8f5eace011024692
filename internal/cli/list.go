package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/soypat/implicit/expr"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog surfaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderCatalog(cmd.OutOrStdout(), expr.Catalog())
		},
	}
}

func renderCatalog(w io.Writer, surfaces []expr.Surface) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Expression", "Domain", "Resolution"})
	for _, s := range surfaces {
		t.AppendRow(table.Row{s.Name, s.Source, s.Domain.String(), s.Resolution})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d surfaces)\n", len(surfaces))
	return nil
}

package cli

import (
	"context"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/internal/config"
	"github.com/soypat/implicit/render"
	"github.com/spf13/cobra"
)

func newBoundCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bound [expression]",
		Short: "Print interval enclosures of an expression over the domain",
		Long: `Print the interval and interval set enclosures of an expression over the
configured domain, and the amount of leaf cells the adaptive search keeps.

The surface can only cross the domain if an enclosure contains zero.`,
		Example: `  implicit bound "1/x" --domain-min=-1 --domain-max=1
  implicit bound -s heart`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig(cmd.Context())
			if len(args) == 1 {
				cfg.Expression = args[0]
			}
			job, err := cfg.Resolve()
			if err != nil {
				return err
			}
			if cfg.Canonicalize {
				job.Expr = expr.Canonical(job.Expr)
			}
			return renderBounds(cmd.Context(), cmd.OutOrStdout(), job)
		},
	}
}

func renderBounds(ctx context.Context, w io.Writer, job config.Job) error {
	e := job.Expr
	iv := expr.Bound(e, job.Domain)
	set := expr.BoundSet(e, job.Domain)
	cells, err := render.CountCells(ctx, e, job.Domain, job.Resolution)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"Expression", e.String()})
	t.AppendRow(table.Row{"Domain", job.Domain.String()})
	t.AppendRow(table.Row{"Interval", iv.String()})
	t.AppendRow(table.Row{"Interval set", set.String()})
	t.AppendRow(table.Row{"Canonical set", set.Canon().String()})
	t.AppendRow(table.Row{"May contain zero", set.ContainsZero()})
	t.AppendRow(table.Row{"Leaf cells", cells})
	t.AppendRow(table.Row{"Resolution", job.Resolution})
	t.Render()
	return nil
}

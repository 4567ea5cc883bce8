package cli

import (
	"fmt"

	"github.com/gartstein/bizniz/internal/bizniz/client"
	"github.com/spf13/cobra"
)

func (a *app) reconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [companyId]",
		Short: "Recompute stored employee counts from the employee records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			if len(args) == 1 {
				r, err := a.api.ReconcileCompany(ctx, args[0])
				if err != nil {
					return err
				}
				if !r.Changed {
					fmt.Fprintf(a.out, "Employee count of %s is consistent (%d).\n", r.CompanyID, r.Current)
					return nil
				}
				renderReconciliations(a.out, []client.Reconciliation{*r})
				return nil
			}

			corrected, err := a.api.ReconcileAll(ctx)
			if err != nil {
				return err
			}
			renderReconciliations(a.out, corrected)
			return nil
		},
	}
}

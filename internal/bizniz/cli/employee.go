package cli

import (
	"errors"
	"fmt"

	"github.com/gartstein/bizniz/internal/bizniz/client"
	"github.com/spf13/cobra"
)

var employeeFields = []string{"first-name", "last-name", "position", "company", "start-date", "review-date", "clear-review-date"}

type employeeForm struct {
	firstName   string
	lastName    string
	position    string
	company     string
	startDate   string
	reviewDate  string
	clearReview bool
	contract    contractFlags
}

func (f *employeeForm) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&f.position, "position", "", "position")
	cmd.Flags().StringVar(&f.company, "company", "", "company id")
	cmd.Flags().StringVar(&f.startDate, "start-date", "", "contract start date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&f.reviewDate, "review-date", "", "manual review date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.clearReview, "clear-review-date", false, "drop the manual review date")
	cmd.MarkFlagsMutuallyExclusive("review-date", "clear-review-date")
	f.contract.register(cmd)
}

func (f *employeeForm) payload(cmd *cobra.Command, currentLength int) (client.EmployeePayload, error) {
	length, err := f.contract.resolve(cmd, currentLength)
	if err != nil {
		return client.EmployeePayload{}, err
	}
	start, err := dateFlag(cmd, "start-date", f.startDate)
	if err != nil {
		return client.EmployeePayload{}, err
	}
	review, err := dateFlag(cmd, "review-date", f.reviewDate)
	if err != nil {
		return client.EmployeePayload{}, err
	}

	return client.EmployeePayload{
		FirstName:       stringFlag(cmd, "first-name", f.firstName),
		LastName:        stringFlag(cmd, "last-name", f.lastName),
		Position:        stringFlag(cmd, "position", f.position),
		Company:         stringFlag(cmd, "company", f.company),
		ContractLength:  length,
		StartDate:       start,
		ReviewDate:      review,
		ClearReviewDate: f.clearReview,
	}, nil
}

func (a *app) employeeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "employee",
		Aliases: []string{"employees"},
		Short:   "Manage employees",
	}
	cmd.AddCommand(
		a.employeeListCommand(),
		a.employeeGetCommand(),
		a.employeeCreateCommand(),
		a.employeeUpdateCommand(),
		a.employeeDeleteCommand(),
	)
	return cmd
}

func (a *app) employeeListCommand() *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List employees, optionally of one company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			var (
				employees []client.Employee
				err       error
			)
			if companyID != "" {
				employees, err = a.api.ListCompanyEmployees(ctx, companyID)
			} else {
				employees, err = a.api.ListEmployees(ctx)
			}
			if err != nil {
				return err
			}
			renderEmployees(a.out, employees)
			return nil
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "only employees of this company id")
	return cmd
}

func (a *app) employeeGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			emp, err := a.api.GetEmployee(ctx, args[0])
			if err != nil {
				return err
			}
			renderEmployee(a.out, emp)
			return nil
		},
	}
}

func (a *app) employeeCreateCommand() *cobra.Command {
	form := &employeeForm{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an employee",
		Long: `Create an employee. --first-name, --last-name, --position and --company
are required; the company's employee count is incremented by the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.clearReview {
				return errors.New("--clear-review-date only applies to update")
			}
			payload, err := form.payload(cmd, form.contract.base(cmd))
			if err != nil {
				return err
			}

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			emp, err := a.api.CreateEmployee(ctx, payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Employee created.")
			renderEmployee(a.out, emp)
			return nil
		},
	}
	form.register(cmd)
	return cmd
}

func (a *app) employeeUpdateCommand() *cobra.Command {
	form := &employeeForm{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an employee; only the given flags change",
		Long: `Update an employee. Moving it with --company adjusts the employee counts
of both companies. --clear-review-date reverts to the derived review date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyChanged(cmd, employeeFields...) && !form.contract.changed(cmd) {
				return errNothingToUpdate
			}

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			current := 0
			if form.contract.changed(cmd) {
				existing, err := a.api.GetEmployee(ctx, args[0])
				if err != nil {
					return err
				}
				current = existing.ContractLength
			}

			payload, err := form.payload(cmd, current)
			if err != nil {
				return err
			}
			emp, err := a.api.UpdateEmployee(ctx, args[0], payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Employee updated.")
			renderEmployee(a.out, emp)
			return nil
		},
	}
	form.register(cmd)
	return cmd
}

func (a *app) employeeDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !a.confirm(fmt.Sprintf("Delete employee %s?", args[0])) {
				fmt.Fprintln(a.out, "Aborted.")
				return nil
			}

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			msg, err := a.api.DeleteEmployee(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, msg)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/gartstein/bizniz/internal/bizniz/client"
	"github.com/spf13/cobra"
)

type companyForm struct {
	name        string
	location    string
	description string
	contract    contractFlags
}

func (f *companyForm) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "company name")
	cmd.Flags().StringVar(&f.location, "location", "", "company location")
	cmd.Flags().StringVar(&f.description, "description", "", "company description")
	f.contract.register(cmd)
}

func (f *companyForm) payload(cmd *cobra.Command, currentLength int) (client.CompanyPayload, error) {
	length, err := f.contract.resolve(cmd, currentLength)
	if err != nil {
		return client.CompanyPayload{}, err
	}
	return client.CompanyPayload{
		Name:           stringFlag(cmd, "name", f.name),
		Location:       stringFlag(cmd, "location", f.location),
		Description:    stringFlag(cmd, "description", f.description),
		ContractLength: length,
	}, nil
}

func (a *app) companyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "company",
		Aliases: []string{"companies"},
		Short:   "Manage companies",
	}
	cmd.AddCommand(
		a.companyListCommand(),
		a.companyGetCommand(),
		a.companyCreateCommand(),
		a.companyUpdateCommand(),
		a.companyDeleteCommand(),
	)
	return cmd
}

func (a *app) companyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List companies with their employee counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			companies, err := a.api.ListCompanies(ctx)
			if err != nil {
				return err
			}
			renderCompanies(a.out, companies)
			return nil
		},
	}
}

func (a *app) companyGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			company, err := a.api.GetCompany(ctx, args[0])
			if err != nil {
				return err
			}
			renderCompany(a.out, company)
			return nil
		},
	}
}

func (a *app) companyCreateCommand() *cobra.Command {
	form := &companyForm{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		Long: `Create a company. --name and --location are required. Without any
duration flag the server applies the default contract of 12 months; --step-months
alone steps from that default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := form.payload(cmd, form.contract.base(cmd))
			if err != nil {
				return err
			}

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			company, err := a.api.CreateCompany(ctx, payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Company created.")
			renderCompany(a.out, company)
			return nil
		},
	}
	form.register(cmd)
	return cmd
}

func (a *app) companyUpdateCommand() *cobra.Command {
	form := &companyForm{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a company; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !anyChanged(cmd, "name", "location", "description") && !form.contract.changed(cmd) {
				return errNothingToUpdate
			}

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			current := 0
			if form.contract.changed(cmd) {
				existing, err := a.api.GetCompany(ctx, args[0])
				if err != nil {
					return err
				}
				current = existing.ContractLength
			}

			payload, err := form.payload(cmd, current)
			if err != nil {
				return err
			}
			company, err := a.api.UpdateCompany(ctx, args[0], payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Company updated.")
			renderCompany(a.out, company)
			return nil
		},
	}
	form.register(cmd)
	return cmd
}

func (a *app) companyDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a company that has no employees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !a.confirm(fmt.Sprintf("Delete company %s?", args[0])) {
				fmt.Fprintln(a.out, "Aborted.")
				return nil
			}

			ctx, cancel := a.requestContext(cmd)
			defer cancel()

			msg, err := a.api.DeleteCompany(ctx, args[0])
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

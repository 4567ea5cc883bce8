// Package cli implements biznizctl, the command-line front end of the bizniz API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gartstein/bizniz/internal/bizniz/client"
	"github.com/spf13/cobra"
)

// APIURLEnv overrides the default API base URL.
const APIURLEnv = "BIZNIZ_API_URL"

// API is the subset of the HTTP client the commands need.
type API interface {
	ListCompanies(ctx context.Context) ([]client.Company, error)
	GetCompany(ctx context.Context, id string) (*client.Company, error)
	CreateCompany(ctx context.Context, p client.CompanyPayload) (*client.Company, error)
	UpdateCompany(ctx context.Context, id string, p client.CompanyPayload) (*client.Company, error)
	DeleteCompany(ctx context.Context, id string) (string, error)
	ListEmployees(ctx context.Context) ([]client.Employee, error)
	ListCompanyEmployees(ctx context.Context, companyID string) ([]client.Employee, error)
	GetEmployee(ctx context.Context, id string) (*client.Employee, error)
	CreateEmployee(ctx context.Context, p client.EmployeePayload) (*client.Employee, error)
	UpdateEmployee(ctx context.Context, id string, p client.EmployeePayload) (*client.Employee, error)
	DeleteEmployee(ctx context.Context, id string) (string, error)
	ReconcileAll(ctx context.Context) ([]client.Reconciliation, error)
	ReconcileCompany(ctx context.Context, id string) (*client.Reconciliation, error)
}

type app struct {
	apiURL  string
	timeout time.Duration
	in      *bufio.Reader
	out     io.Writer
	api     API
	// newAPI builds the client once flags are parsed.
	newAPI func(baseURL string) API
}

// Option customizes the root command, mostly for tests.
type Option func(*app)

func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *app) {
		a.in = bufio.NewReader(in)
		a.out = out
	}
}

// WithAPI bypasses HTTP and sends every call to api.
func WithAPI(api API) Option {
	return func(a *app) {
		a.newAPI = func(string) API { return api }
	}
}

func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		newAPI: func(baseURL string) API {
			return client.New(baseURL, nil)
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	defaultURL := os.Getenv(APIURLEnv)
	if defaultURL == "" {
		defaultURL = client.DefaultBaseURL
	}

	root := &cobra.Command{
		Use:   "biznizctl",
		Short: "Manage companies and employees through the bizniz API",
		Long: `biznizctl talks to the bizniz REST API.

Contract durations can be given as a flat month count (--contract-length) or as
--years/--months, which are normalized before sending (14 months becomes 1 year
and 2 months). --step-months adds to or subtracts from the current duration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.api = a.newAPI(a.apiURL)
		},
	}
	root.SetOut(a.out)
	root.PersistentFlags().StringVar(&a.apiURL, "api", defaultURL, "API base URL (env "+APIURLEnv+")")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "request timeout")

	root.AddCommand(
		a.companyCommand(),
		a.employeeCommand(),
		a.reconcileCommand(),
	)
	return root
}

// Execute runs biznizctl and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func (a *app) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, a.timeout)
}

// confirm asks a y/N question; anything but y or yes declines.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

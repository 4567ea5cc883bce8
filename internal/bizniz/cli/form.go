package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gartstein/bizniz/internal/bizniz/contract"
	"github.com/spf13/cobra"
)

var errNothingToUpdate = errors.New("nothing to update: pass at least one field flag")

// contractFlags are the duration inputs shared by company and employee forms.
type contractFlags struct {
	length int
	years  int
	months int
	step   int
}

func (f *contractFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.length, "contract-length", 0, "contract length in months")
	cmd.Flags().IntVar(&f.years, "years", 0, "contract length years")
	cmd.Flags().IntVar(&f.months, "months", 0, "contract length months, excess rolls into years")
	cmd.Flags().IntVar(&f.step, "step-months", 0, "add N months to the duration (negative to subtract)")
}

func (f *contractFlags) changed(cmd *cobra.Command) bool {
	return anyChanged(cmd, "contract-length", "years", "months", "step-months")
}

// base is the duration --step-months applies to on create: the server default
// unless an explicit duration was given.
func (f *contractFlags) base(cmd *cobra.Command) int {
	if anyChanged(cmd, "contract-length", "years", "months") {
		return 0
	}
	return contract.DefaultLengthMonths
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// resolve returns the month total to send, or nil when no duration flag was
// given. current is the duration the flags apply to.
func (f *contractFlags) resolve(cmd *cobra.Command, current int) (*int, error) {
	if !f.changed(cmd) {
		return nil, nil
	}
	flags := cmd.Flags()

	d := contract.FromTotal(current)
	if flags.Changed("contract-length") {
		if f.length < 0 {
			return nil, errors.New("--contract-length must not be negative")
		}
		d = contract.FromTotal(f.length)
	}

	if flags.Changed("years") || flags.Changed("months") {
		years, months := d.Years, d.Months
		if flags.Changed("years") {
			if f.years < 0 {
				return nil, errors.New("--years must not be negative")
			}
			years = f.years
		}
		if flags.Changed("months") {
			months = f.months
		}
		d = contract.Normalize(years, months)
	}

	if flags.Changed("step-months") {
		d = d.StepMonths(f.step)
	}

	total := d.Total()
	return &total, nil
}

// stringFlag returns a pointer to the flag value when it was set, trimmed.
func stringFlag(cmd *cobra.Command, name string, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v := strings.TrimSpace(value)
	return &v
}

// dateFlag validates a date flag locally so typos fail before the request.
func dateFlag(cmd *cobra.Command, name string, value string) (*string, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	t, err := contract.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	day := t.Format(contract.DateLayout)
	return &day, nil
}

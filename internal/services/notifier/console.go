package notifier

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
	"go.uber.org/zap"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}).
			Bold(true)

	buyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}).
			Bold(true)

	sellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#BF4343", Dark: "#F57373"}).
			Bold(true)
)

// Console asks the operator to confirm each trade on the terminal, with an
// optional execution-price override.
type Console struct {
	l *zap.Logger
}

// NewConsole creates the interactive notifier.
func NewConsole(l *zap.Logger) *Console {
	if l == nil {
		l = zap.NewNop()
	}
	return &Console{l: l}
}

// Confirm prompts for approval and an execution price. Invalid price input is
// rejected by the form and re-entered; it never reaches the ledger. Aborting
// the form declines the tick.
func (c *Console) Confirm(ctx context.Context, side domain.Side, proposed decimal.Decimal) (decimal.Decimal, bool, error) {
	proceed := true
	priceStr := proposed.String()

	fmt.Println(promptStyle.Render(fmt.Sprintf("Signal: %s 1 unit at market price %s", side.String(), proposed.String())))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Execute %s?", side.String())).
				Value(&proceed),
			huh.NewInput().
				Title("Execution price").
				Description("Edit to override the observed market price").
				Value(&priceStr).
				Validate(validatePrice),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, errors.Wrap(err, "confirmation prompt failed")
	}

	if !proceed {
		return decimal.Zero, false, nil
	}

	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		// unreachable while the form validates, but never trust terminal input
		return decimal.Zero, false, errors.Wrap(err, "parse confirmed price")
	}

	return price, true, nil
}

// Notify renders a styled one-line summary of the committed trade.
func (c *Console) Notify(trade domain.Trade) {
	style := buyStyle
	if trade.Side == domain.SideSell {
		style = sellStyle
	}
	fmt.Println(style.Render(trade.String()))
}

func validatePrice(s string) error {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	if !price.IsPositive() {
		return fmt.Errorf("price must be positive")
	}
	return nil
}

package domain

// Action represents the outcome of a single decision tick.
type Action int

const (
	ActionHold Action = iota
	ActionBuy
	ActionSell
)

// String returns the string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	case ActionHold:
		return "hold"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating the current price against the ledger.
type Decision struct {
	Action Action
	Reason string
}

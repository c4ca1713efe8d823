package checkout

// State is a step of a single checkout attempt.
type State string

const (
	StateValidating State = "Validating"
	StatePricing    State = "Pricing"
	StatePersisting State = "Persisting"
	StateClearing   State = "Clearing"
	StateCompleted  State = "Completed"
	StateRejected   State = "Rejected"
)

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateRejected
}

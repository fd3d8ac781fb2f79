package wizard

// Cursor is the two-level iteration position over the contract list: which
// contract and which of its deployments the wizard is currently being fed.
// It is owned by the driver loop and mutated only through planner Advance
// instructions, never by the classifier.
type Cursor struct {
	Contract   int `json:"contract"`
	Deployment int `json:"deployment"`
}

// Advance tells the driver how to move the cursor after acting on a prompt.
type Advance int

const (
	// AdvanceNone leaves the cursor in place.
	AdvanceNone Advance = iota
	// AdvanceDeployment moves to the next deployment of the current contract.
	AdvanceDeployment
	// AdvanceContract moves to the first deployment of the next contract.
	AdvanceContract
)

// Apply returns the cursor after executing the advance instruction.
func (c Cursor) Apply(a Advance) Cursor {
	switch a {
	case AdvanceDeployment:
		return Cursor{Contract: c.Contract, Deployment: c.Deployment + 1}
	case AdvanceContract:
		return Cursor{Contract: c.Contract + 1, Deployment: 0}
	default:
		return c
	}
}

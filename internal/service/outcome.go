package service

// Status tags the result of a cart mutation. Every operation completes with
// exactly one of these; faults never escape as errors.
type Status int

const (
	// StatusApplied: the mutation took effect, was persisted, and a new
	// snapshot was published.
	StatusApplied Status = iota
	// StatusRejected: a business rule refused the mutation (stock
	// exceeded). State is unchanged.
	StatusRejected
	// StatusNoOp: the trivial guard case (target amount below 1). Silent,
	// no signal, no state change.
	StatusNoOp
	// StatusFailed: an integrity violation or a transport fault, recovered
	// at the operation boundary. State is unchanged.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusRejected:
		return "rejected"
	case StatusNoOp:
		return "noop"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the tagged completion of a mutation. Reason carries the
// user-facing message for rejected and failed outcomes, empty otherwise.
type Outcome struct {
	Status Status
	Reason string
}

func (o Outcome) Applied() bool { return o.Status == StatusApplied }

func applied() Outcome {
	return Outcome{Status: StatusApplied}
}

func noop() Outcome {
	return Outcome{Status: StatusNoOp}
}

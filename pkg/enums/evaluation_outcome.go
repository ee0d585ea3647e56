package enums

// EvaluationOutcome labels the result of evaluating one coupon against a cart.
type EvaluationOutcome string

const (
	EvaluationOutcomeApplied       EvaluationOutcome = "applied"
	EvaluationOutcomeNotApplicable EvaluationOutcome = "not_applicable"
	EvaluationOutcomeExpired       EvaluationOutcome = "expired"
)

func (o EvaluationOutcome) String() string {
	return string(o)
}

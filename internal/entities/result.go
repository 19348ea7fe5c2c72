package entities

type Outcome string

const (
	OutcomeJoined        Outcome = "joined"
	OutcomeAlreadyJoined Outcome = "already_joined"
	OutcomeFull          Outcome = "full"
	OutcomeLeft          Outcome = "left"
	OutcomeNotJoined     Outcome = "not_joined"
	OutcomeDeleted       Outcome = "deleted"
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeForbidden     Outcome = "forbidden"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeStoreError    Outcome = "store_error"
)

// Result is the structured outcome relayed to the UI layer.
// Alert hints whether the UI should show a blocking alert instead of a toast.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Alert   bool    `json:"alert"`
}

func SuccessResult(outcome Outcome, message string) Result {
	return Result{Outcome: outcome, Success: true, Message: message, Alert: false}
}

func ErrorResult(outcome Outcome, message string) Result {
	return Result{Outcome: outcome, Success: false, Message: message, Alert: true}
}

package model

type State int

const (
	DefaultState State = iota
	ExpectingLoginEmail
	ExpectingLoginPassword
	ExpectingRegisterUsername
	ExpectingRegisterEmail
	ExpectingRegisterPassword
	ExpectingTradeSymbol
	ExpectingTradeSide
	ExpectingTradeType
	ExpectingTradeQuantity
	ExpectingTradePrice
	ExpectingWorkflowName
	ExpectingWorkflowDescription
)

// Public states are reachable without a token: they belong to the login and register screens.
func (s State) Public() bool {
	switch s {
	case ExpectingLoginEmail, ExpectingLoginPassword,
		ExpectingRegisterUsername, ExpectingRegisterEmail, ExpectingRegisterPassword:
		return true
	default:
		return false
	}
}

// Session is the dialog state of one chat. Passwords never land here.
type Session struct {
	State State `json:"state"`
	Draft Draft `json:"draft"`
}

type Draft struct {
	Email        string `json:"email,omitempty"`
	Username     string `json:"username,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
	Side         string `json:"side,omitempty"`
	Type         string `json:"type,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	WorkflowName string `json:"workflow_name,omitempty"`
}

func (s *Session) Reset() {
	s.State = DefaultState
	s.Draft = Draft{}
}

package auth

// NotARobotAuthorizer authorizes once the actor confirms being human.
type NotARobotAuthorizer struct {
	flag
}

func NewNotARobotAuthorizer() *NotARobotAuthorizer {
	return &NotARobotAuthorizer{}
}

func (a *NotARobotAuthorizer) IsAuthorized() bool { return a != nil && a.isSet() }

func (a *NotARobotAuthorizer) ConfirmHuman() {
	a.grant()
}

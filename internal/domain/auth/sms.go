package auth

// SMSAuthorizer authorizes after a one-time code has been submitted.
// The code is not checked against a stored secret.
type SMSAuthorizer struct {
	flag
}

func NewSMSAuthorizer() *SMSAuthorizer {
	return &SMSAuthorizer{}
}

// IsAuthorized is false for a nil authorizer.
func (a *SMSAuthorizer) IsAuthorized() bool { return a != nil && a.isSet() }

// VerifyCode accepts any code and grants authorization.
func (a *SMSAuthorizer) VerifyCode(code string) {
	_ = code
	a.grant()
}

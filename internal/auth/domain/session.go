package domain

// Cookie name suffixes. The full cookie name is "<prefix>-<suffix>" and is a
// wire contract with browser clients.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	SynchronizeCookie  = "synchronize"
)

// Tokens is what the identity provider hands back from a sign-in or refresh.
// A zero ExpiresIn or empty string means the provider left it out.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int32
}

// SignInResult is a successful sign-in. Username is the provider-internal
// username needed for refresh; SubjectID is the stable user id.
type SignInResult struct {
	Tokens
	SubjectID string
	Username  string
}

// SignUpResult is a successful provider sign-up.
type SignUpResult struct {
	SubjectID string
	Confirmed bool
}

// Attribute is one provider user attribute, e.g. {"email", "a@example.com"}.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is the provider's attribute list.
type Attributes []Attribute

// Get returns the first attribute named name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// ProviderUser is a provider user record found by lookup.
type ProviderUser struct {
	Username   string
	Attributes Attributes
}

// AuthUser is the provider's view of the owner of an access token.
type AuthUser struct {
	SubjectID  string
	Username   string
	Attributes Attributes
}

// SignUpInput is the registration request forwarded to the provider.
type SignUpInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	GivenName       string
	FamilyName      string
}

// ConfirmForgotPasswordInput completes a password reset.
type ConfirmForgotPasswordInput struct {
	Email           string
	Code            string
	NewPassword     string
	ConfirmPassword string
}

// Messages that clients match on.
const (
	MsgAuthenticationRequired = "Authentication required"
	MsgSynchronizeInvalid     = "Synchronize token not found or invalid"
	MsgTokensMissing          = "authentication tokens missing from response"
	MsgProfileIncomplete      = "User profile incomplete"
)

// Session is what login and refresh hand to the cookie layer. Synchronize is
// the encrypted provider username.
type Session struct {
	Tokens
	Synchronize string
}

// AuthProfile is the current user as reported by the provider.
type AuthProfile struct {
	ID            string
	Email         string
	EmailVerified bool
}

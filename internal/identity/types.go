// AngelaMos | 2026
// types.go

package identity

type SignUpResult struct {
	UserSub   string
	Confirmed bool
}

type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int32
	TokenType    string
}

type UserInfo struct {
	Username      string
	Sub           string
	Email         string
	EmailVerified bool
	Status        string
	Enabled       bool
	Attributes    map[string]string
}

// AngelaMos | 2026
// gateway.go

package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/metrics"
)

const vendorName = "cognito"

// cognitoAPI is the subset of the user pool client the gateway calls.
type cognitoAPI interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error)
	GetUser(ctx context.Context, in *cip.GetUserInput, optFns ...func(*cip.Options)) (*cip.GetUserOutput, error)
	AdminGetUser(ctx context.Context, in *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
}

type Gateway struct {
	client       cognitoAPI
	userPoolID   string
	clientID     string
	clientSecret string
	timeout      time.Duration
	metrics      metrics.Recorder
	logger       *slog.Logger
}

// NewGateway builds a user pool client from explicit configuration. The
// endpoint override is only meant for local emulators.
func NewGateway(
	ctx context.Context,
	cfg config.CognitoConfig,
	rec metrics.Recorder,
	logger *slog.Logger,
) (*Gateway, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return newGateway(client, cfg, rec, logger), nil
}

func newGateway(
	client cognitoAPI,
	cfg config.CognitoConfig,
	rec metrics.Recorder,
	logger *slog.Logger,
) *Gateway {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Gateway{
		client:       client,
		userPoolID:   cfg.UserPoolID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		timeout:      timeout,
		metrics:      rec,
		logger:       logger,
	}
}

func (g *Gateway) SignUp(
	ctx context.Context,
	username, password, email string,
) (*SignUpResult, error) {
	ctx, span := core.StartSpan(ctx, "identity.SignUp", attribute.String("username", username))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.client.SignUp(ctx, &cip.SignUpInput{
		ClientId:   aws.String(g.clientID),
		Username:   aws.String(username),
		Password:   aws.String(password),
		SecretHash: g.secretHash(username),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	})
	if err != nil {
		return nil, g.fail(ctx, "sign_up", err, credentialFlow)
	}

	return &SignUpResult{
		UserSub:   aws.ToString(out.UserSub),
		Confirmed: out.UserConfirmed,
	}, nil
}

// SignIn authenticates with the email alias as the provider username.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	ctx, span := core.StartSpan(ctx, "identity.SignIn")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := map[string]string{
		"USERNAME": email,
		"PASSWORD": password,
	}
	if hash := g.secretHash(email); hash != nil {
		params["SECRET_HASH"] = *hash
	}

	out, err := g.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(g.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, g.fail(ctx, "sign_in", err, credentialFlow)
	}

	return tokensFrom(out, "")
}

func (g *Gateway) ConfirmSignUp(ctx context.Context, username, code string) error {
	ctx, span := core.StartSpan(ctx, "identity.ConfirmSignUp", attribute.String("username", username))
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err := g.client.ConfirmSignUp(ctx, &cip.ConfirmSignUpInput{
		ClientId:         aws.String(g.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
		SecretHash:       g.secretHash(username),
	})
	if err != nil {
		return g.fail(ctx, "confirm_sign_up", err, credentialFlow)
	}

	return nil
}

// Refresh exchanges a refresh token. Username is only needed when the app
// client has a secret; the returned refresh token is the one passed in.
func (g *Gateway) Refresh(ctx context.Context, refreshToken, username string) (*Tokens, error) {
	ctx, span := core.StartSpan(ctx, "identity.Refresh")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := map[string]string{
		"REFRESH_TOKEN": refreshToken,
	}
	if hash := g.secretHash(username); hash != nil && username != "" {
		params["SECRET_HASH"] = *hash
	}

	out, err := g.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
		ClientId:       aws.String(g.clientID),
		AuthParameters: params,
	})
	if err != nil {
		return nil, g.fail(ctx, "refresh", err, tokenFlow)
	}

	return tokensFrom(out, refreshToken)
}

// GetUser resolves an access token to the provider's view of the user.
func (g *Gateway) GetUser(ctx context.Context, accessToken string) (*UserInfo, error) {
	ctx, span := core.StartSpan(ctx, "identity.GetUser")
	defer span.End()

	if err := checkAccessTokenExpiry(accessToken); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.client.GetUser(ctx, &cip.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, g.fail(ctx, "get_user", err, tokenFlow)
	}

	info := newUserInfo(aws.ToString(out.Username), out.UserAttributes)
	return info, nil
}

// LookupUser fetches a user by username or email alias with admin credentials.
func (g *Gateway) LookupUser(ctx context.Context, username string) (*UserInfo, error) {
	ctx, span := core.StartSpan(ctx, "identity.LookupUser")
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.client.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(g.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		return nil, g.fail(ctx, "lookup_user", err, credentialFlow)
	}

	info := newUserInfo(aws.ToString(out.Username), out.UserAttributes)
	info.Status = string(out.UserStatus)
	info.Enabled = out.Enabled
	return info, nil
}

// secretHash is Base64(HMAC-SHA256(clientSecret, username + clientID)).
func (g *Gateway) secretHash(username string) *string {
	if g.clientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(g.clientSecret))
	mac.Write([]byte(username + g.clientID))
	return aws.String(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

func (g *Gateway) fail(ctx context.Context, op string, err error, flow flowKind) error {
	mapped := mapError(err, flow)

	level := slog.LevelWarn
	if mapped == core.ErrUpstream {
		level = slog.LevelError
		g.metrics.RecordVendorFailure(vendorName, op)
		core.SetSpanError(ctx, err)
	}

	g.logger.Log(ctx, level, "identity provider call failed",
		"operation", op,
		"vendor_code", errorCode(err),
		"error", err,
	)

	return fmt.Errorf("%s: %w", op, mapped)
}

func tokensFrom(out *cip.InitiateAuthOutput, refreshToken string) (*Tokens, error) {
	res := out.AuthenticationResult
	if res == nil {
		return nil, fmt.Errorf(
			"challenge %s required: %w",
			out.ChallengeName,
			core.ErrInvalidCredentials,
		)
	}

	tokens := &Tokens{
		AccessToken:  aws.ToString(res.AccessToken),
		IDToken:      aws.ToString(res.IdToken),
		RefreshToken: aws.ToString(res.RefreshToken),
		ExpiresIn:    res.ExpiresIn,
		TokenType:    aws.ToString(res.TokenType),
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = refreshToken
	}
	return tokens, nil
}

func newUserInfo(username string, attrs []types.AttributeType) *UserInfo {
	info := &UserInfo{
		Username:   username,
		Attributes: make(map[string]string, len(attrs)),
	}
	for _, a := range attrs {
		info.Attributes[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	info.Sub = info.Attributes["sub"]
	info.Email = info.Attributes["email"]
	info.EmailVerified = info.Attributes["email_verified"] == "true"
	return info
}

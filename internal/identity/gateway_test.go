// AngelaMos | 2026
// gateway_test.go

package identity

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/metrics"
)

type mockCognito struct {
	mock.Mock
}

func (m *mockCognito) SignUp(ctx context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.SignUpOutput)
	return out, args.Error(1)
}

func (m *mockCognito) InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.InitiateAuthOutput)
	return out, args.Error(1)
}

func (m *mockCognito) ConfirmSignUp(ctx context.Context, in *cip.ConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.ConfirmSignUpOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.ConfirmSignUpOutput)
	return out, args.Error(1)
}

func (m *mockCognito) GetUser(ctx context.Context, in *cip.GetUserInput, _ ...func(*cip.Options)) (*cip.GetUserOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.GetUserOutput)
	return out, args.Error(1)
}

func (m *mockCognito) AdminGetUser(ctx context.Context, in *cip.AdminGetUserInput, _ ...func(*cip.Options)) (*cip.AdminGetUserOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*cip.AdminGetUserOutput)
	return out, args.Error(1)
}

type countingMetrics struct {
	metrics.Nop
	vendorFailures int
}

func (c *countingMetrics) RecordVendorFailure(string, string) { c.vendorFailures++ }

func apiError(code, message string) error {
	return &smithy.GenericAPIError{Code: code, Message: message}
}

func newTestGateway(client cognitoAPI, secret string) (*Gateway, *countingMetrics) {
	rec := &countingMetrics{}
	gw := newGateway(client, config.CognitoConfig{
		UserPoolID:   "eu-west-1_pool",
		ClientID:     "client-id",
		ClientSecret: secret,
	}, rec, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return gw, rec
}

func signedToken(t *testing.T, exp time.Time, claims map[string]any) string {
	t.Helper()
	b := jwt.NewBuilder().Subject("sub-123").Expiration(exp)
	for k, v := range claims {
		b = b.Claim(k, v)
	}
	tok, err := b.Build()
	require.NoError(t, err)
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256(), []byte("test-signing-key")))
	require.NoError(t, err)
	return string(signed)
}

func TestSignUpSendsEmailAttribute(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")

	client.On("SignUp", mock.Anything, mock.MatchedBy(func(in *cip.SignUpInput) bool {
		return aws.ToString(in.Username) == "user_abc12345" &&
			aws.ToString(in.ClientId) == "client-id" &&
			in.SecretHash == nil &&
			len(in.UserAttributes) == 1 &&
			aws.ToString(in.UserAttributes[0].Value) == "user@example.com"
	})).Return(&cip.SignUpOutput{UserSub: aws.String("sub-1"), UserConfirmed: false}, nil)

	res, err := gw.SignUp(context.Background(), "user_abc12345", "P@ssw0rd1", "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", res.UserSub)
	assert.False(t, res.Confirmed)
	client.AssertExpectations(t)
}

func TestSignUpMapsProviderErrors(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"UsernameExistsException", core.ErrUserExists},
		{"InvalidPasswordException", core.ErrInvalidInput},
		{"InvalidParameterException", core.ErrInvalidInput},
		{"TooManyRequestsException", core.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := &mockCognito{}
			gw, rec := newTestGateway(client, "")
			client.On("SignUp", mock.Anything, mock.Anything).Return(nil, apiError(tt.code, "nope"))

			_, err := gw.SignUp(context.Background(), "user_x", "pw", "a@b.c")
			require.ErrorIs(t, err, tt.want)

			var apiErr smithy.APIError
			assert.False(t, errors.As(err, &apiErr), "provider error leaked")
			if tt.want == core.ErrUpstream {
				assert.Equal(t, 1, rec.vendorFailures)
			}
		})
	}
}

func TestInvalidPasswordRendersFixedMessage(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("SignUp", mock.Anything, mock.Anything).
		Return(nil, apiError("InvalidPasswordException", "Password did not conform with policy"))

	_, err := gw.SignUp(context.Background(), "user_x", "pw", "a@b.c")
	require.Error(t, err)

	appErr := core.ToAppError(fmt.Errorf("sign up: %w", err))
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, "password does not meet the password policy", appErr.Message)
}

func TestSignInReturnsTokensWithSecretHash(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "s3cret")

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte("user@example.com" + "client-id"))
	wantHash := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	client.On("InitiateAuth", mock.Anything, mock.MatchedBy(func(in *cip.InitiateAuthInput) bool {
		return in.AuthFlow == types.AuthFlowTypeUserPasswordAuth &&
			in.AuthParameters["USERNAME"] == "user@example.com" &&
			in.AuthParameters["SECRET_HASH"] == wantHash
	})).Return(&cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken:  aws.String("access"),
			IdToken:      aws.String("id"),
			RefreshToken: aws.String("refresh"),
			ExpiresIn:    3600,
			TokenType:    aws.String("Bearer"),
		},
	}, nil)

	tokens, err := gw.SignIn(context.Background(), "user@example.com", "P@ssw0rd1")
	require.NoError(t, err)
	assert.Equal(t, "access", tokens.AccessToken)
	assert.Equal(t, "refresh", tokens.RefreshToken)
	assert.Equal(t, int32(3600), tokens.ExpiresIn)
}

func TestSignInErrors(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"NotAuthorizedException", core.ErrInvalidCredentials},
		{"UserNotConfirmedException", core.ErrUserNotConfirmed},
		{"UserNotFoundException", core.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			client := &mockCognito{}
			gw, rec := newTestGateway(client, "")
			client.On("InitiateAuth", mock.Anything, mock.Anything).Return(nil, apiError(tt.code, "x"))

			_, err := gw.SignIn(context.Background(), "a@b.c", "pw")
			require.ErrorIs(t, err, tt.want)
			assert.Zero(t, rec.vendorFailures)
		})
	}
}

func TestSignInChallengeIsRejected(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("InitiateAuth", mock.Anything, mock.Anything).Return(&cip.InitiateAuthOutput{
		ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
	}, nil)

	_, err := gw.SignIn(context.Background(), "a@b.c", "pw")
	require.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestConfirmSignUp(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		client := &mockCognito{}
		gw, _ := newTestGateway(client, "")
		client.On("ConfirmSignUp", mock.Anything, mock.MatchedBy(func(in *cip.ConfirmSignUpInput) bool {
			return aws.ToString(in.Username) == "user_abc" && aws.ToString(in.ConfirmationCode) == "123456"
		})).Return(&cip.ConfirmSignUpOutput{}, nil)

		require.NoError(t, gw.ConfirmSignUp(context.Background(), "user_abc", "123456"))
	})

	t.Run("wrong code", func(t *testing.T) {
		client := &mockCognito{}
		gw, _ := newTestGateway(client, "")
		client.On("ConfirmSignUp", mock.Anything, mock.Anything).
			Return(nil, apiError("CodeMismatchException", "Invalid verification code provided"))

		err := gw.ConfirmSignUp(context.Background(), "user_abc", "000000")
		require.ErrorIs(t, err, core.ErrCodeMismatch)
	})

	t.Run("expired code", func(t *testing.T) {
		client := &mockCognito{}
		gw, _ := newTestGateway(client, "")
		client.On("ConfirmSignUp", mock.Anything, mock.Anything).
			Return(nil, apiError("ExpiredCodeException", "expired"))

		err := gw.ConfirmSignUp(context.Background(), "user_abc", "000000")
		require.ErrorIs(t, err, core.ErrCodeExpired)
	})
}

func TestRefreshKeepsRefreshToken(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("InitiateAuth", mock.Anything, mock.MatchedBy(func(in *cip.InitiateAuthInput) bool {
		return in.AuthFlow == types.AuthFlowTypeRefreshTokenAuth &&
			in.AuthParameters["REFRESH_TOKEN"] == "r-1"
	})).Return(&cip.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{
			AccessToken: aws.String("new-access"),
			IdToken:     aws.String("new-id"),
			ExpiresIn:   3600,
		},
	}, nil)

	tokens, err := gw.Refresh(context.Background(), "r-1", "")
	require.NoError(t, err)
	assert.Equal(t, "new-access", tokens.AccessToken)
	assert.Equal(t, "r-1", tokens.RefreshToken)
}

func TestRefreshInvalidToken(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("InitiateAuth", mock.Anything, mock.Anything).
		Return(nil, apiError("NotAuthorizedException", "Invalid Refresh Token"))

	_, err := gw.Refresh(context.Background(), "bad", "")
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestGetUser(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour), nil)

	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("GetUser", mock.Anything, mock.Anything).Return(&cip.GetUserOutput{
		Username: aws.String("user_abc"),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("sub"), Value: aws.String("sub-123")},
			{Name: aws.String("email"), Value: aws.String("user@example.com")},
			{Name: aws.String("email_verified"), Value: aws.String("true")},
		},
	}, nil)

	info, err := gw.GetUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", info.Email)
	assert.Equal(t, "sub-123", info.Sub)
	assert.True(t, info.EmailVerified)
}

func TestGetUserExpiredTokenSkipsProvider(t *testing.T) {
	token := signedToken(t, time.Now().Add(-time.Minute), nil)
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")

	_, err := gw.GetUser(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
	client.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}

func TestGetUserGarbageToken(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")

	_, err := gw.GetUser(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestGetUserRevokedToken(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour), nil)
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("GetUser", mock.Anything, mock.Anything).
		Return(nil, apiError("NotAuthorizedException", "Access Token has been revoked"))

	_, err := gw.GetUser(context.Background(), token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestLookupUser(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("AdminGetUser", mock.Anything, mock.MatchedBy(func(in *cip.AdminGetUserInput) bool {
		return aws.ToString(in.UserPoolId) == "eu-west-1_pool" &&
			aws.ToString(in.Username) == "user@example.com"
	})).Return(&cip.AdminGetUserOutput{
		Username:   aws.String("user_abc"),
		UserStatus: types.UserStatusTypeConfirmed,
		Enabled:    true,
	}, nil)

	info, err := gw.LookupUser(context.Background(), "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user_abc", info.Username)
	assert.Equal(t, "CONFIRMED", info.Status)
	assert.True(t, info.Enabled)
}

func TestLookupUserNotFound(t *testing.T) {
	client := &mockCognito{}
	gw, _ := newTestGateway(client, "")
	client.On("AdminGetUser", mock.Anything, mock.Anything).
		Return(nil, apiError("UserNotFoundException", "User does not exist."))

	_, err := gw.LookupUser(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestNonAPIErrorIsUpstream(t *testing.T) {
	client := &mockCognito{}
	gw, rec := newTestGateway(client, "")
	client.On("AdminGetUser", mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))

	_, err := gw.LookupUser(context.Background(), "a@b.c")
	require.ErrorIs(t, err, core.ErrUpstream)
	assert.Equal(t, 1, rec.vendorFailures)
}

func TestParseIDToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, exp, map[string]any{
		"email":            "user@example.com",
		"cognito:username": "user_abc",
	})

	claims, err := ParseIDToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "sub-123", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user_abc", claims.Username)
	assert.True(t, exp.Equal(claims.ExpiresAt))

	_, err = ParseIDToken("garbage")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

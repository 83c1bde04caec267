// Package auth obtains OAuth2 access tokens for test clients calling
// protected endpoints, via the client credentials grant or the resource
// owner password grant.
package auth

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrMissingTokenURL is returned when no token endpoint was supplied.
	ErrMissingTokenURL = errors.New("awaitkit: token URL is required")

	// ErrMissingClientID is returned when no client id was supplied.
	ErrMissingClientID = errors.New("awaitkit: client id is required")

	// ErrMissingUserCredentials is returned by PasswordToken when the
	// username or password is absent.
	ErrMissingUserCredentials = errors.New("awaitkit: username and password are required for the password grant")
)

// Config carries everything needed to obtain a token. Resolve it once at
// the test boundary (for example with FromEnv) and pass it explicitly;
// nothing in this package reads the environment during a token call.
type Config struct {
	// TokenURL is the token endpoint.
	TokenURL string

	// ClientID identifies the test client.
	ClientID string

	// ClientSecret is the client secret, if the provider issues one.
	ClientSecret string

	// Scopes to request on the token.
	Scopes []string

	// Username and Password are used only by PasswordToken.
	Username string
	Password string

	// Audience, when set, is sent as the "audience" endpoint parameter.
	Audience string
}

func (c Config) validate() error {
	if c.TokenURL == "" {
		return ErrMissingTokenURL
	}
	if c.ClientID == "" {
		return ErrMissingClientID
	}
	return nil
}

// ClientCredentialsToken obtains a token via the client credentials
// grant. Client credentials are sent as form parameters.
func (c Config) ClientCredentialsToken(ctx context.Context) (*oauth2.Token, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	cfg := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.TokenURL,
		Scopes:       c.Scopes,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if c.Audience != "" {
		cfg.EndpointParams = url.Values{"audience": {c.Audience}}
	}
	return cfg.Token(ctx)
}

// PasswordToken obtains a token via the resource owner password grant.
func (c Config) PasswordToken(ctx context.Context) (*oauth2.Token, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if c.Username == "" || c.Password == "" {
		return nil, ErrMissingUserCredentials
	}

	cfg := oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scopes:       c.Scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	return cfg.PasswordCredentialsToken(ctx, c.Username, c.Password)
}

// FromEnv resolves a Config from the environment, loading a .env file
// from the working directory first when one exists:
//
//	AWAITKIT_TOKEN_URL, AWAITKIT_CLIENT_ID, AWAITKIT_CLIENT_SECRET,
//	AWAITKIT_SCOPES (comma or space separated), AWAITKIT_USERNAME,
//	AWAITKIT_PASSWORD, AWAITKIT_AUDIENCE
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		TokenURL:     os.Getenv("AWAITKIT_TOKEN_URL"),
		ClientID:     os.Getenv("AWAITKIT_CLIENT_ID"),
		ClientSecret: os.Getenv("AWAITKIT_CLIENT_SECRET"),
		Scopes:       splitScopes(os.Getenv("AWAITKIT_SCOPES")),
		Username:     os.Getenv("AWAITKIT_USERNAME"),
		Password:     os.Getenv("AWAITKIT_PASSWORD"),
		Audience:     os.Getenv("AWAITKIT_AUDIENCE"),
	}
}

func splitScopes(raw string) []string {
	fields := strings.Fields(strings.ReplaceAll(raw, ",", " "))
	if len(fields) == 0 {
		return nil
	}
	return fields
}

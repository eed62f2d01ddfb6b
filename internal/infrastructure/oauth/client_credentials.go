package oauth

import (
	"context"
	"net/http"
	"time"

	"medtour-itinerary-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials handles the OAuth2 client-credentials grant for service-to-service calls
type ClientCredentials struct {
	config *clientcredentials.Config
	logger logger.Logger
}

// NewClientCredentials creates a new client-credentials handler
func NewClientCredentials(clientID, clientSecret, tokenURL string, scopes []string, logger logger.Logger) *ClientCredentials {
	return &ClientCredentials{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
		},
		logger: logger,
	}
}

// Enabled reports whether enough settings are present to request tokens
func (o *ClientCredentials) Enabled() bool {
	return o.config.ClientID != "" && o.config.ClientSecret != "" && o.config.TokenURL != ""
}

// GetTokenSource returns a caching token source
func (o *ClientCredentials) GetTokenSource(ctx context.Context) oauth2.TokenSource {
	return o.config.TokenSource(ctx)
}

// HTTPClient returns a client that attaches a bearer token to every request. timeout bounds
// both the token request and the API call.
func (o *ClientCredentials) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	client := oauth2.NewClient(ctx, o.GetTokenSource(ctx))
	client.Timeout = timeout
	o.logger.Debug("OAuth2 client configured", "tokenURL", o.config.TokenURL, "clientID", o.config.ClientID)
	return client
}

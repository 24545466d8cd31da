package inbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/khrees2412/pipeliner/pkg/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// Auth holds the OAuth client configuration and where the user's token is
// cached. Each Scanner owns its own Auth; there is no process-wide token.
type Auth struct {
	config    *oauth2.Config
	tokenFile string
}

// LoadAuth reads the OAuth client secret downloaded from Google Cloud
func LoadAuth(credentialsFile, tokenFile string) (*Auth, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: Gmail client secret not found at %s", models.ErrNotConfigured, credentialsFile)
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	// READONLY access to Gmail
	config, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}
	return &Auth{config: config, tokenFile: tokenFile}, nil
}

// AuthCodeURL is the consent page the user opens to grant access
func (a *Auth) AuthCodeURL() string {
	return a.config.AuthCodeURL("pipeliner", oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and caches it
func (a *Auth) Exchange(ctx context.Context, code string) error {
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return saveToken(a.tokenFile, tok)
}

// Client returns an HTTP client authorized with the cached token
func (a *Auth) Client(ctx context.Context) (*http.Client, error) {
	tok, err := tokenFromFile(a.tokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no Gmail token, run: pipeliner inbox auth", models.ErrNotConfigured)
		}
		return nil, fmt.Errorf("read token: %w", err)
	}
	return a.config.Client(ctx, tok), nil
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

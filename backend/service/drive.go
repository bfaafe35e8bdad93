package service

import (
	"context"
	"time"

	"bookhole/backend/common"
	"bookhole/backend/model"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DriveScope limits access to files the app itself creates.
const DriveScope = "https://www.googleapis.com/auth/drive.file"

// GoogleEndpoint is a variable so tests can point the OAuth flows at an
// httptest server.
var GoogleEndpoint = google.Endpoint

// DriveAuth owns the OAuth token lifecycle for Google Drive connections:
// consent URL, code exchange, and refresh of expired access tokens.
type DriveAuth struct {
	cfg common.DriveConfig
}

func NewDriveAuth(cfg common.DriveConfig) *DriveAuth {
	return &DriveAuth{cfg: cfg}
}

func (a *DriveAuth) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.cfg.ClientID,
		ClientSecret: a.cfg.ClientSecret,
		RedirectURL:  a.cfg.RedirectURI,
		Scopes:       []string{DriveScope},
		Endpoint:     GoogleEndpoint,
	}
}

// AuthURL builds the consent URL. Offline access plus forced consent make
// Google issue a refresh token even when the user already authorized once.
func (a *DriveAuth) AuthURL() string {
	return a.oauthConfig().AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode trades a one-time authorization code for a token pair.
func (a *DriveAuth) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return a.oauthConfig().Exchange(ctx, code)
}

// SaveConnection persists a freshly exchanged token pair for a user,
// replacing any prior connection.
func SaveConnection(userId string, token *oauth2.Token) error {
	return model.UpsertDriveConnection(userId, token.AccessToken, token.RefreshToken, token.Expiry)
}

// EnsureFreshToken returns a usable access token for the connection,
// refreshing it first when expired. On refresh the stored tokens are
// updated in place; the old refresh token is kept when the provider omits
// one from the refresh response. Persisting the refreshed token is
// best-effort: the token in hand is still valid even if the write fails.
func (a *DriveAuth) EnsureFreshToken(ctx context.Context, conn *model.DriveConnection) (string, error) {
	if conn.ExpiresAt.After(time.Now()) {
		return conn.AccessToken, nil
	}

	stale := &oauth2.Token{
		AccessToken:  conn.AccessToken,
		RefreshToken: conn.RefreshToken,
		Expiry:       conn.ExpiresAt,
	}
	fresh, err := a.oauthConfig().TokenSource(ctx, stale).Token()
	if err != nil {
		return "", err
	}

	refreshToken := fresh.RefreshToken
	if refreshToken == "" {
		refreshToken = conn.RefreshToken
	}

	if err := model.UpdateDriveTokens(conn.UserId, fresh.AccessToken, refreshToken, fresh.Expiry); err != nil {
		common.SysError("failed to persist refreshed drive token for user " + conn.UserId + ": " + err.Error())
	}

	conn.AccessToken = fresh.AccessToken
	conn.RefreshToken = refreshToken
	conn.ExpiresAt = fresh.Expiry
	return fresh.AccessToken, nil
}

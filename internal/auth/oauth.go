package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"swiftsell/internal/config"
	"swiftsell/internal/logging"
)

// Local callback endpoint for the sign-in popup flow. The popup redirects
// here after consent; the in-process server captures the code.
const (
	callbackAddr = ":51732"
	callbackURL  = "http://localhost:51732/oauth-callback"
)

// providerEndpoints holds the OAuth endpoints for one identity provider.
type providerEndpoints struct {
	authURL     string
	tokenURL    string
	userInfoURL string
	scopes      []string
	clientID    func(config.Credentials) string
}

var endpoints = map[Provider]providerEndpoints{
	ProviderGoogle: {
		authURL:     "https://accounts.google.com/o/oauth2/v2/auth",
		tokenURL:    "https://oauth2.googleapis.com/token",
		userInfoURL: "https://www.googleapis.com/oauth2/v1/userinfo?alt=json",
		scopes:      []string{"profile", "email"},
		clientID:    func(c config.Credentials) string { return c.GoogleClientID },
	},
	ProviderFacebook: {
		authURL:     "https://www.facebook.com/v18.0/dialog/oauth",
		tokenURL:    "https://graph.facebook.com/v18.0/oauth/access_token",
		userInfoURL: "https://graph.facebook.com/me?fields=id,name,email,picture",
		scopes:      []string{"email"},
		clientID:    func(c config.Credentials) string { return c.FacebookAppID },
	},
}

// OAuthIdentity signs users in with a browser-based authorization code flow
// (PKCE, no client secret on device). It stands in for the hosted identity
// SDK the mobile build used: open consent in the browser, catch the redirect
// on a local listener, exchange the code, read the user info.
type OAuthIdentity struct {
	creds  config.Credentials
	opener URLOpener
	client *http.Client
}

// NewOAuthIdentity creates the provider. The opener is shared with the
// gateway so tests can capture opened URLs.
func NewOAuthIdentity(creds config.Credentials, opener URLOpener) *OAuthIdentity {
	return &OAuthIdentity{
		creds:  creds,
		opener: opener,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// SignIn runs the full flow and returns the normalized identity.
func (o *OAuthIdentity) SignIn(ctx context.Context, provider Provider) (Identity, error) {
	ep, ok := endpoints[provider]
	if !ok {
		return Identity{}, fmt.Errorf("unsupported identity provider: %s", provider)
	}
	clientID := ep.clientID(o.creds)
	if clientID == "" {
		return Identity{}, fmt.Errorf("no client id configured for %s", provider)
	}

	verifier, challenge, state, err := pkceParams()
	if err != nil {
		return Identity{}, err
	}

	u, err := url.Parse(ep.authURL)
	if err != nil {
		return Identity{}, err
	}
	q := u.Query()
	q.Set("client_id", clientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", callbackURL)
	q.Set("scope", strings.Join(ep.scopes, " "))
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("state", state)
	u.RawQuery = q.Encode()

	if err := o.opener.Open(ctx, u.String()); err != nil {
		return Identity{}, fmt.Errorf("failed to open sign-in page: %w", err)
	}

	code, err := waitForCallback(ctx, state)
	if err != nil {
		return Identity{}, err
	}

	accessToken, err := o.exchangeCode(ctx, ep, clientID, code, verifier)
	if err != nil {
		return Identity{}, err
	}

	identity, err := o.fetchUserInfo(ctx, ep, accessToken)
	if err != nil {
		return Identity{}, err
	}
	identity.Provider = string(provider) + ".com"
	logging.Auth("%s sign-in completed for %s", provider, identity.UID)
	return identity, nil
}

func pkceParams() (verifier, challenge, state string, err error) {
	verifierBytes := make([]byte, 32)
	if _, err = rand.Read(verifierBytes); err != nil {
		return
	}
	verifier = base64.RawURLEncoding.EncodeToString(verifierBytes)

	hash := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(hash[:])

	stateBytes := make([]byte, 16)
	if _, err = rand.Read(stateBytes); err != nil {
		return
	}
	state = base64.RawURLEncoding.EncodeToString(stateBytes)
	return
}

// waitForCallback runs a local HTTP server until the provider redirects back
// with a code, the flow errors, or ctx expires.
func waitForCallback(ctx context.Context, expectedState string) (string, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth-callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != expectedState {
			http.Error(w, "Invalid state", http.StatusBadRequest)
			errChan <- fmt.Errorf("invalid state received")
			return
		}
		if errStr := q.Get("error"); errStr != "" {
			http.Error(w, "Sign-in failed: "+errStr, http.StatusBadRequest)
			errChan <- fmt.Errorf("sign-in failed: %s", errStr)
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "No code received", http.StatusBadRequest)
			errChan <- fmt.Errorf("no code received")
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body style="font-family: sans-serif; text-align: center; padding: 50px;">` +
			`<h1>Sign-in successful</h1><p>You can close this tab and return to SwiftSell.</p>` +
			`<script>window.close();</script></body></html>`))
		codeChan <- code
	})

	server := &http.Server{Addr: callbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case code := <-codeChan:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
		return code, nil
	case err := <-errChan:
		server.Close()
		return "", err
	case <-ctx.Done():
		server.Close()
		return "", ctx.Err()
	}
}

func (o *OAuthIdentity) exchangeCode(ctx context.Context, ep providerEndpoints, clientID, code, verifier string) (string, error) {
	data := url.Values{}
	data.Set("client_id", clientID)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", callbackURL)
	data.Set("code_verifier", verifier)

	req, err := http.NewRequestWithContext(ctx, "POST", ep.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("code exchange failed: %s", string(body))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

func (o *OAuthIdentity) fetchUserInfo(ctx context.Context, ep providerEndpoints, accessToken string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", ep.userInfoURL, nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.client.Do(req)
	if err != nil {
		return Identity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return Identity{}, fmt.Errorf("user info request failed: %s", string(body))
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture any    `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Identity{}, err
	}

	identity := Identity{
		UID:         info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
	}
	// Google returns picture as a URL string; Facebook nests it.
	if s, ok := info.Picture.(string); ok {
		identity.PhotoURL = s
	}
	return identity, nil
}

package gdrive

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"blorders/internal/config"
)

// Scope is read-only: blorders never changes the artwork tree.
var Scope = drive.DriveReadonlyScope

// NewService connects to Drive with, in order of preference, a service account
// key, a saved user token, or application default credentials.
func NewService(ctx context.Context, cfg config.DriveConfig, extra ...option.ClientOption) (*drive.Service, error) {
	opts := append([]option.ClientOption(nil), extra...)
	switch {
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile), option.WithScopes(Scope))
	case fileExists(cfg.TokenFile):
		oc, err := oauthConfig(cfg.ClientSecretFile)
		if err != nil {
			return nil, err
		}
		tok, err := readToken(cfg.TokenFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithTokenSource(oc.TokenSource(ctx, tok)))
	default:
		opts = append(opts, option.WithScopes(Scope))
	}
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive service: %w", err)
	}
	return srv, nil
}

// Authorize runs the installed-app consent flow: it prints the consent URL,
// reads the code the user pastes and saves the token to tokenFile.
func Authorize(ctx context.Context, clientSecretFile, tokenFile string, in io.Reader, out io.Writer) error {
	oc, err := oauthConfig(clientSecretFile)
	if err != nil {
		return err
	}
	url := oc.AuthCodeURL("blorders", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(out, "Open this link, grant access and paste the code:\n%s\n> ", url)

	code, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return errors.New("no authorization code given")
	}
	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return saveToken(tokenFile, tok)
}

func oauthConfig(clientSecretFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(clientSecretFile)
	if err != nil {
		return nil, fmt.Errorf("read client secret: %w", err)
	}
	oc, err := google.ConfigFromJSON(b, Scope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}
	return oc, nil
}

func readToken(path string) (*oauth2.Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

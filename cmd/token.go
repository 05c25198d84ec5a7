package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/navguard/internal/auth"
	"github.com/spf13/cobra"
)

var (
	tokenCmd = &cobra.Command{
		Use:   "token [subject]",
		Short: "Issue a session token",
		Long:  `Issue a signed session token. Without --session a fresh session id is generated. Pass --scope grants:write for the grant issuer's token.`,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(configPath)
			if err != nil {
				log.Fatalf("failed to load config: %v", err)
			}

			tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.TokenDuration)
			issued, err := issueToken(auth.NewService(tokens), tokens, args[0], tokenSessionID, tokenScopes)
			if err != nil {
				log.Fatalf("failed to issue token: %v", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "session_id: %s\nexpires_at: %s\ntoken: %s\n",
				issued.SessionID, issued.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"), issued.Token)
		},
	}
	tokenSessionID string
	tokenScopes    []string
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenSessionID, "session", "s", "", "reuse an existing session id")
	tokenCmd.Flags().StringSliceVar(&tokenScopes, "scope", nil, "scopes to grant, e.g. "+auth.ScopeGrantsWrite)
}

func issueToken(svc auth.ServiceAPI, tokens auth.TokenGenerator, subject, sessionID string, scopes []string) (auth.SessionToken, error) {
	if sessionID == "" {
		return svc.IssueSession(subject, scopes...)
	}
	token, expiresAt, err := tokens.GenerateSessionToken(sessionID, subject, scopes...)
	if err != nil {
		return auth.SessionToken{}, err
	}
	return auth.SessionToken{SessionID: sessionID, Token: token, ExpiresAt: expiresAt}, nil
}

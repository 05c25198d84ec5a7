package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/auth"
	"github.com/frahmantamala/navguard/internal/navigation"
	"github.com/frahmantamala/navguard/internal/session"
	"github.com/frahmantamala/navguard/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with demo sessions",
	Long:  `Open one session per demo persona, store its grant set and print a token for it.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		store, err := openStorage(cfg)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer store.Close()

		tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.TokenDuration)
		svc := session.NewService(store.Store, nil, logger.LoggerWrapper())

		if err := seedPersonas(context.Background(), cmd.OutOrStdout(), svc, auth.NewService(tokens), demoPersonas); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

type persona struct {
	Subject string
	Grants  access.GrantSet
}

var demoPersonas = []persona{
	{
		Subject: "root@navguard.local",
		Grants: access.GrantSet{
			Roles:      []access.Role{{RoleID: 1, Name: "Super Admin", Slug: access.SuperAdminSlug, Category: "system"}},
			Privileges: []access.Privilege{},
		},
	},
	{
		Subject: "cashier@navguard.local",
		Grants: access.GrantSet{
			Roles: []access.Role{{RoleID: 7, Name: "Cashier", Slug: "cashier", Category: "billing"}},
			Privileges: []access.Privilege{
				{Key: "payments", Name: "Payments", Category: "billing", Actions: []access.Action{access.ActionRead, access.ActionWrite}},
				{Key: "payment_types", Name: "Payment Types", Category: "billing", Actions: []access.Action{access.ActionRead}},
			},
		},
	},
	{
		Subject: "field-tech@navguard.local",
		Grants: access.GrantSet{
			Roles: []access.Role{{RoleID: 12, Name: "Field Technician", Slug: "field-tech", Category: "operations"}},
			Privileges: []access.Privilege{
				{Key: "meters", Name: "Meters", Category: "operations", Actions: []access.Action{access.ActionRead}},
				{Key: "change_requests", Name: "Change Requests", Category: "operations", Actions: []access.Action{access.ActionEdit}},
			},
		},
	},
	{
		Subject: "auditor@navguard.local",
		Grants: access.GrantSet{
			Roles: []access.Role{{RoleID: 20, Name: "Auditor", Slug: "auditor", Category: "compliance"}},
			Privileges: []access.Privilege{
				{Key: "audit", Name: "Audit Log", Category: "compliance", Actions: []access.Action{access.ActionRead}},
			},
		},
	},
}

func seedPersonas(ctx context.Context, out io.Writer, svc session.ServiceAPI, authSvc auth.ServiceAPI, personas []persona) error {
	catalog := navigation.DefaultCatalog()

	for _, p := range personas {
		issued, err := authSvc.IssueSession(p.Subject)
		if err != nil {
			return fmt.Errorf("issue session for %s: %w", p.Subject, err)
		}

		raw, err := session.Encode(p.Grants)
		if err != nil {
			return err
		}
		grants, err := svc.Replace(ctx, issued.SessionID, raw)
		if err != nil {
			return fmt.Errorf("store grants for %s: %w", p.Subject, err)
		}

		first, ok := access.FirstPermittedPath(catalog, grants)
		if !ok {
			first = "(none)"
		}
		fmt.Fprintf(out, "Seeded %s\n  session_id: %s\n  first_path: %s\n  token: %s\n",
			p.Subject, issued.SessionID, first, issued.Token)
	}
	return nil
}

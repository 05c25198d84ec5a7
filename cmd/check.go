package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/guard"
	"github.com/frahmantamala/navguard/internal/navigation"
	"github.com/frahmantamala/navguard/internal/session"
	"github.com/spf13/cobra"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Evaluate a grant set offline",
		Long:  `Print the menu, the first permitted path and guard decisions for a grant set file, without a server or store.`,
		RunE:  runCheck,
	}
	checkGrantsFile  string
	checkCatalogFile string
	checkPolicy      string
	checkDeniedPath  string
	checkPaths       []string
)

func init() {
	checkCmd.Flags().StringVarP(&checkGrantsFile, "grants", "g", "-", "grant set JSON file, - for stdin")
	checkCmd.Flags().StringVar(&checkCatalogFile, "catalog", "", "catalog JSON file (defaults to the built-in catalog)")
	checkCmd.Flags().StringVar(&checkPolicy, "policy", "", "match policy: any or most_specific")
	checkCmd.Flags().StringVar(&checkDeniedPath, "access-denied-path", "", "terminal route when nothing is permitted")
	checkCmd.Flags().StringSliceVarP(&checkPaths, "path", "p", nil, "paths to run through the guard")
}

// CheckReport is what the check command prints.
type CheckReport struct {
	SuperAdmin bool              `json:"superadmin"`
	Menu       []access.Node     `json:"menu"`
	FirstPath  string            `json:"first_path,omitempty"`
	Decisions  map[string]string `json:"decisions,omitempty"`
}

func runCheck(cmd *cobra.Command, _ []string) error {
	grantsRaw, err := readInput(checkGrantsFile, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read grants: %w", err)
	}

	catalog := navigation.DefaultCatalog()
	if checkCatalogFile != "" {
		raw, err := os.ReadFile(checkCatalogFile)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		if catalog, err = navigation.ParseCatalog(raw); err != nil {
			return err
		}
	}

	policy, err := guard.ParsePolicy(checkPolicy)
	if err != nil {
		return err
	}
	opts := guard.Options{AccessDeniedPath: checkDeniedPath, Policy: policy}
	if err := opts.Validate(catalog); err != nil {
		return err
	}

	report, err := buildCheckReport(catalog, grantsRaw, checkPaths, opts)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func buildCheckReport(catalog []access.Node, grantsRaw []byte, paths []string, opts guard.Options) (CheckReport, error) {
	grants, err := session.Decode(grantsRaw)
	if err != nil {
		return CheckReport{}, err
	}

	report := CheckReport{
		SuperAdmin: grants.IsSuperAdmin(),
		Menu:       access.VisibleTree(catalog, grants),
	}
	if first, ok := access.FirstPermittedPath(catalog, grants); ok {
		report.FirstPath = first
	}

	if len(paths) > 0 {
		report.Decisions = make(map[string]string, len(paths))
		for _, path := range paths {
			decision := guard.Evaluate(catalog, path, &grants, opts)
			if decision.Redirects() {
				report.Decisions[path] = fmt.Sprintf("%s %s", decision.Kind, decision.Target)
				continue
			}
			report.Decisions[path] = decision.Kind.String()
		}
	}
	return report, nil
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

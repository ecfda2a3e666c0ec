package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
	"github.com/stalkiq/dzera-sub000/pkg/services/scan"
	"gopkg.in/ini.v1"
)

type scanCmd struct {
	credentialsPath string
	profile         string
	accessKeyID     string
	secretAccessKey string
	regions         []string
	asJSON          bool
}

func main() {
	sc := &scanCmd{}

	cmd := &cobra.Command{
		Use:   "dzera",
		Short: "Scan an AWS account for cost findings",
		RunE:  sc.run,
	}

	usr, _ := user.Current()
	defaultCredentials := ""
	if usr != nil {
		defaultCredentials = fmt.Sprintf("%s/.aws/credentials", usr.HomeDir)
	}

	cmd.Flags().StringVar(&sc.credentialsPath, "credentials", defaultCredentials,
		"Path to an AWS-style credentials file")
	cmd.Flags().StringVar(&sc.profile, "profile", "default", "Credentials file profile to use")
	cmd.Flags().StringVar(&sc.accessKeyID, "access-key-id", "", "Access key ID (overrides the file)")
	cmd.Flags().StringVar(&sc.secretAccessKey, "secret-access-key", "", "Secret access key (overrides the file)")
	cmd.Flags().StringSliceVar(&sc.regions, "regions", nil, "Regions to scan (default us-east-1,us-west-2)")
	cmd.Flags().BoolVar(&sc.asJSON, "json", false, "Emit the raw scan result as JSON")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (sc *scanCmd) run(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	creds, err := sc.resolveCredentials()
	if err != nil {
		return err
	}

	result, err := scan.NewService().Scan(ctx, creds, domain.ScanOptions{Regions: sc.regions})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if sc.asJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	printResult(result)
	return nil
}

func (sc *scanCmd) resolveCredentials() (domain.Credentials, error) {
	if sc.accessKeyID != "" && sc.secretAccessKey != "" {
		return domain.Credentials{
			AccessKeyID:     sc.accessKeyID,
			SecretAccessKey: sc.secretAccessKey,
		}, nil
	}

	file, err := ini.Load(sc.credentialsPath)
	if err != nil {
		return domain.Credentials{}, fmt.Errorf("failed to read credentials file: %w", err)
	}

	section := file.Section(sc.profile)
	creds := domain.Credentials{
		AccessKeyID:     section.Key("aws_access_key_id").String(),
		SecretAccessKey: section.Key("aws_secret_access_key").String(),
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return domain.Credentials{}, fmt.Errorf(
			"profile %q in %s has no access key pair", sc.profile, sc.credentialsPath)
	}

	return creds, nil
}

func printResult(result *domain.ScanResult) {
	fmt.Printf("Scan %s finished in %s\n\n",
		result.ScanID, result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))

	bySeverity := map[domain.Severity][]domain.Finding{}
	for _, f := range result.Findings {
		bySeverity[f.Severity] = append(bySeverity[f.Severity], f)
	}

	for _, severity := range []domain.Severity{
		domain.SeverityCritical, domain.SeverityWarning, domain.SeverityInfo,
	} {
		findings := bySeverity[severity]
		if len(findings) == 0 {
			continue
		}
		fmt.Printf("%s (%d)\n", severity, len(findings))
		for _, f := range findings {
			fmt.Printf("  [%s] %s | %s/%s | $%.2f/mo\n",
				f.Service, f.Title, f.Region, f.ResourceID, f.EstimatedMonthlyCost)
		}
		fmt.Println()
	}

	fmt.Printf("Estimated total: $%.2f/month ($%.4f/hour) across %d finding(s)\n",
		result.TotalEstimatedMonthlyCost, result.TotalEstimatedHourlyCost, len(result.Findings))
}

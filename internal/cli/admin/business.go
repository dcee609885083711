package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cloo-solutions/tryonadmin/internal/config"
	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/service"
	"github.com/spf13/cobra"
)

func BusinessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "business",
		Short: "Manage businesses",
		Long:  "Register and list businesses on the try-on platform",
	}

	cmd.AddCommand(BusinessCreateCmd())
	cmd.AddCommand(BusinessListCmd())

	return cmd
}

func BusinessCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Register a new business",
		Long:  "Register a new business and print the API key the platform issued for it",
		Args:  cobra.ExactArgs(1),
		RunE:  runBusinessCreate,
	}

	cmd.Flags().String("email", "", "Business contact email")
	cmd.Flags().String("password", "", "Business account password")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func runBusinessCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	outputFormat, _ := cmd.Flags().GetString("output")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	svc, err := newBusinessService()
	if err != nil {
		return err
	}

	business, err := svc.Create(ctx, domain.CreateBusinessInput{
		Name:     args[0],
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create business: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, business)
	}

	fmt.Fprintf(out, "Business created: %s (%s)\n", business.Name, business.ID)
	if business.APIKey != "" {
		fmt.Fprintf(out, "API key: %s\n", business.APIKey)
		fmt.Fprintln(out, "Store this key securely. It is shown in full only once.")
	}
	return nil
}

func BusinessListCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all businesses",
		Long:  "List all businesses registered on the platform. API keys are masked unless --reveal is set.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("output")
			return runBusinessList(cmd.OutOrStdout(), outputFormat, reveal)
		},
	}

	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show API keys in full")

	return cmd
}

func runBusinessList(out io.Writer, outputFormat string, reveal bool) error {
	svc, err := newBusinessService()
	if err != nil {
		return err
	}

	businesses, err := svc.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list businesses: %w", err)
	}
	if !reveal {
		for i := range businesses {
			businesses[i] = businesses[i].Masked()
		}
	}

	if outputFormat == "json" {
		return writeJSON(out, businesses)
	}
	renderBusinesses(out, businesses)
	return nil
}

func renderBusinesses(out io.Writer, businesses []domain.Business) {
	if len(businesses) == 0 {
		fmt.Fprintln(out, "No businesses found")
		return
	}

	fmt.Fprintln(out, "Businesses:")
	for _, b := range businesses {
		created := "-"
		if !b.CreatedAt.IsZero() {
			created = b.CreatedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(out, "  %s: %s <%s> (created: %s)\n", b.ID, b.Name, b.Email, created)
		fmt.Fprintf(out, "    key: %s\n", b.APIKey)
	}
}

func newBusinessService() (*service.BusinessService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return service.NewBusinessService(newPlatformClient(cfg)), nil
}

func writeJSON(out io.Writer, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(jsonBytes))
	return err
}

package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloo-solutions/tryonadmin/internal/config"
	"github.com/cloo-solutions/tryonadmin/internal/domain"
	"github.com/cloo-solutions/tryonadmin/internal/logtable"
	"github.com/spf13/cobra"
)

func LogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect generation logs",
		Long:  "Fetch generation logs from the platform and view them filtered and sorted",
	}

	cmd.AddCommand(LogsListCmd())

	return cmd
}

// LogsListOptions holds the flags of "logs list".
type LogsListOptions struct {
	Filters []string
	Sort    string
	Limit   int
	Output  string
}

func LogsListCmd() *cobra.Command {
	var opts LogsListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List generation logs",
		Long: `Fetch every generation log and print the filtered, sorted view.

Filters are field=value pairs combined with AND. businessId, userId and
productId match by substring; clothType, numInferenceSteps, seed and
guidanceScale match exactly; createdAt keeps records on or before the given
date or RFC 3339 time. A value that cannot be read for its field is ignored.

Sort keys are field[:asc|desc] separated by commas, primary key first.`,
		Example: `  tryonadmin logs list --filter businessId=acme --filter clothType=Dress
  tryonadmin logs list --sort createdAt:desc,seed -n 20 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogsList(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Filters, "filter", "f", nil, "Filter as field=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Sort, "sort", "s", "", "Sort keys as field[:asc|desc],...")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "Maximum number of rows to print (0 prints all)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text or json)")

	return cmd
}

func runLogsList(ctx context.Context, out io.Writer, opts LogsListOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	filters, err := parseFilterFlags(opts.Filters)
	if err != nil {
		return err
	}
	sortSpec, err := logtable.ParseSortSpec(opts.Sort)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	records, err := newPlatformClient(cfg).GetAllLogs(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch logs: %w", err)
	}

	table := logtable.NewController()
	table.ReplaceAll(records)
	for field, value := range filters {
		table.SetFilter(field, value)
	}
	table.SetSort(sortSpec)

	view := table.View()
	total := len(view)
	if opts.Limit > 0 && len(view) > opts.Limit {
		view = view[:opts.Limit]
	}

	if opts.Output == "json" {
		return writeJSON(out, map[string]interface{}{
			"items":   view,
			"total":   total,
			"fetched": table.Len(),
			"filters": table.Filters(),
			"sort":    sortSpec.String(),
		})
	}

	renderLogs(out, view, total, table.Len())
	return nil
}

// parseFilterFlags reads field=value pairs. Unknown or unfilterable fields
// are rejected; a later pair for the same field replaces an earlier one.
func parseFilterFlags(values []string) (map[logtable.Field]string, error) {
	filters := make(map[logtable.Field]string, len(values))
	for _, v := range values {
		name, value, found := strings.Cut(v, "=")
		if !found {
			return nil, fmt.Errorf("invalid filter %q (expected field=value)", v)
		}
		field := logtable.Field(strings.TrimSpace(name))
		if !field.IsKnown() || !field.IsFilterable() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownField, name)
		}
		filters[field] = value
	}
	return filters, nil
}

func renderLogs(out io.Writer, records []domain.LogRecord, matched, fetched int) {
	if len(records) == 0 {
		fmt.Fprintf(out, "No logs found (%d fetched)\n", fetched)
		return
	}

	fmt.Fprintf(out, "%-20s  %-16s  %-16s  %-16s  %-8s  %5s  %10s  %8s\n",
		"CREATED", "BUSINESS", "USER", "PRODUCT", "CLOTH", "STEPS", "SEED", "GUIDANCE")
	for _, r := range records {
		created := "-"
		if r.HasTimestamp() {
			created = r.CreatedAt.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(out, "%-20s  %-16s  %-16s  %-16s  %-8s  %5d  %10d  %8g\n",
			created, truncate(r.BusinessID, 16), truncate(r.UserID, 16), truncate(r.ProductID, 16),
			truncate(r.ClothType, 8), r.NumInferenceSteps, r.Seed, r.GuidanceScale)
	}

	fmt.Fprintf(out, "\nShowing %d of %d matching logs (%d fetched)\n", len(records), matched, fetched)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

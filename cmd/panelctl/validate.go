package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/config"
	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/internal/validation"
)

// errSeasonHasErrors makes --strict runs exit non-zero.
var errSeasonHasErrors = errors.New("season has error-level issues")

func validateCmd() *cobra.Command {
	var (
		season  string
		format  string
		strict  bool
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "validate <snapshot.yaml|snapshot.json>",
		Short: "Run every season rule over a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			policy, err := service.PolicyFromConfig(&cfg.Policy)
			if err != nil {
				return err
			}

			in, err := loadSnapshotFile(args[0])
			if err != nil {
				return err
			}
			if season != "" {
				in.Season = season
			}
			if in.Season == "" {
				in.Season = calendar.Season(time.Now())
			}

			if !in.HasHolidays && !offline {
				in.Snapshot.BankHolidays = fetchBankHolidays(cmd.Context(), &cfg.Calendar)
			}

			issues, err := validation.NewEngine(policy).ValidateSeasonWith(in.Snapshot, in.Season)
			if err != nil {
				var inErr *validation.InputError
				if errors.As(err, &inErr) {
					printProblems(cmd.OutOrStdout(), inErr)
				}
				return err
			}

			if err := writeIssues(cmd.OutOrStdout(), format, in.Season, issues); err != nil {
				return err
			}
			if errs, _ := validation.CountBySeverity(issues); strict && errs > 0 {
				return fmt.Errorf("%w: %d", errSeasonHasErrors, errs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&season, "season", "s", "", "season label, e.g. 2024-25 (default: file, then current)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any error-level issue is found")
	cmd.Flags().BoolVar(&offline, "offline", false, "do not fetch bank holidays when the file has none")
	return cmd
}

// fetchBankHolidays fails open: an unreachable feed yields an empty cache.
func fetchBankHolidays(ctx context.Context, cfg *config.CalendarConfig) *calendar.BankHolidays {
	if ctx == nil {
		ctx = context.Background()
	}
	var source calendar.HolidaySource = calendar.NewGovUKSource(cfg.HolidayFeedURL, cfg.FeedTimeout)
	if cfg.HolidayFallbackFile != "" {
		source = calendar.NewCompositeSource(source, calendar.NewFileSource(cfg.HolidayFallbackFile), logger)
	}
	p := calendar.NewProvisioner(source, calendar.NewBankHolidays(), cfg.RetryAfter, logger)
	if err := p.Ensure(ctx); err != nil {
		logger.Debug("continuing without bank holidays", zap.Error(err))
	}
	return p.Cache()
}

type issueView struct {
	Date      string `json:"date"`
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	Secretary string `json:"secretary,omitempty"`
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Message   string `json:"issue"`
}

func writeIssues(w io.Writer, format, season string, issues []validation.Issue) error {
	views := make([]issueView, 0, len(issues))
	for _, is := range issues {
		views = append(views, issueView{
			Date:      calendar.FormatDate(is.Event.Date),
			EventID:   is.Event.EventID,
			Type:      string(is.Event.Type),
			Secretary: is.Event.SecretaryRef(),
			Rule:      string(is.Rule),
			Severity:  string(is.Severity),
			Message:   is.Message,
		})
	}
	errs, warnings := validation.CountBySeverity(issues)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Season   string      `json:"season"`
			Errors   int         `json:"errors"`
			Warnings int         `json:"warnings"`
			Issues   []issueView `json:"issues"`
		}{season, errs, warnings, views})
	case "text":
		fmt.Fprintf(w, "Season %s: %d error(s), %d warning(s)\n", season, errs, warnings)
		if len(views) == 0 {
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tTYPE\tSEVERITY\tRULE\tISSUE")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Date, v.Type, v.Severity, v.Rule, v.Message)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func printProblems(w io.Writer, inErr *validation.InputError) {
	fmt.Fprintln(w, "Snapshot is not valid:")
	for _, p := range inErr.Problems {
		if p.EventID != "" {
			fmt.Fprintf(w, "  event %s: %s %s\n", p.EventID, p.Field, p.Problem)
		} else {
			fmt.Fprintf(w, "  %s %s\n", p.Field, p.Problem)
		}
	}
}

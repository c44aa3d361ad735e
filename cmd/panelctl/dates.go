package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oxtobyd/panelplanner/config"
	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
)

func easterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "easter <year> [year...]",
		Short: "Print Easter Sunday and the Holy Week blackout for each year",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				year, err := strconv.Atoi(arg)
				if err != nil || year < 1583 {
					return fmt.Errorf("invalid year %q", arg)
				}
				start, end := calendar.HolyWeek(year)
				fmt.Fprintf(out, "%d  Easter %s  Holy Week %s .. %s\n",
					year, calendar.FormatDate(calendar.EasterSunday(year)),
					calendar.FormatDate(start), calendar.FormatDate(end))
			}
			return nil
		},
	}
}

func dueDatesCmd() *cobra.Command {
	var (
		eventType string
		offline   bool
	)

	cmd := &cobra.Command{
		Use:   "due-dates <yyyy-mm-dd>",
		Short: "Print report and paperwork due dates for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := calendar.ParseDate(args[0])
			if err != nil {
				return err
			}
			typ := model.EventType(eventType)
			if !typ.Valid() {
				return fmt.Errorf("unknown event type %q", eventType)
			}

			holidays := calendar.NewBankHolidays()
			if !offline {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				holidays = fetchBankHolidays(cmd.Context(), &cfg.Calendar)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s (season %s)\n", typ, calendar.FormatDate(date), calendar.Season(date))
			if due, ok := calendar.ReportDueDate(date, typ, holidays); ok {
				fmt.Fprintf(out, "  report due:    %s\n", calendar.FormatDate(due))
			} else {
				fmt.Fprintln(out, "  report due:    n/a")
			}
			fmt.Fprintf(out, "  paperwork due: %s\n", calendar.FormatDate(calendar.PaperworkDueDate(date, typ)))
			if !holidays.Loaded() {
				fmt.Fprintln(out, "  (bank holidays not loaded; weekends only)")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&eventType, "type", "t", string(model.EventTypePanel), "event type")
	cmd.Flags().BoolVar(&offline, "offline", false, "skip the bank holiday feed")
	return cmd
}

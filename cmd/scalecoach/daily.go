package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func dailyCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Show practice time for a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			record := facade.DailyPractice(context.Background(), date)
			if record == nil {
				fmt.Println("No practice logged for that day")
				return nil
			}
			fmt.Printf("%s: %dm %ds\n", record.Date, record.TotalTime/60, record.TotalTime%60)
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "calendar day (default today)")
	return cmd
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all practice data and restore default scales",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Print("WARNING: this deletes all practice data. Type 'yes' to confirm: ")
				var confirmation string
				fmt.Scanln(&confirmation)
				if confirmation != "yes" {
					fmt.Println("Cancelled")
					return nil
				}
			}

			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			defaults := facade.ClearAllData(context.Background())
			if len(defaults) == 0 {
				fmt.Fprintln(os.Stderr, "Warning: default scales were not restored")
			}
			fmt.Printf("All data cleared, %d default scales restored\n", len(defaults))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"scalecoach/internal/models"
)

// minimum duration worth recording; anything shorter was a false start
const minSessionSeconds = 10

func logCmd() *cobra.Command {
	var (
		scale        string
		practiceType string
		octaves      int
		bpm          int
		duration     int
		keepAll      bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record a practice session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale == "" || practiceType == "" {
				return fmt.Errorf("--scale and --type are required")
			}
			if duration < minSessionSeconds {
				fmt.Printf("Session shorter than %d seconds, not recorded\n", minSessionSeconds)
				return nil
			}

			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			session := &models.Session{
				Scale:        scale,
				PracticeType: practiceType,
				Octaves:      octaves,
				BPM:          bpm,
				Duration:     duration,
			}

			var saved *models.Session
			if keepAll {
				saved = facade.SaveSession(context.Background(), session)
			} else {
				saved = facade.SaveUniqueSession(context.Background(), session)
			}
			if saved == nil {
				return fmt.Errorf("session was not recorded")
			}

			fmt.Printf("Recorded %s %s (%d octaves) at %d BPM\n",
				saved.Scale, saved.PracticeType, saved.Octaves, saved.BPM)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scale, "scale", "s", "", "scale name, e.g. \"C Major\"")
	cmd.Flags().StringVarP(&practiceType, "type", "t", "", "practice type, e.g. scales, arpeggios")
	cmd.Flags().IntVarP(&octaves, "octaves", "o", 2, "number of octaves")
	cmd.Flags().IntVarP(&bpm, "bpm", "b", 60, "tempo in beats per minute")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "practice duration in seconds")
	cmd.Flags().BoolVar(&keepAll, "keep-all", false, "keep earlier attempts at the same exercise instead of replacing them")

	return cmd
}

func recentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent practice sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			printSessions(facade.RecentSessions(context.Background(), limit))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum sessions to show")
	return cmd
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Show the stored practice history",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			printSessions(facade.AllSessions(context.Background()))
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show practice statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			stats := facade.Stats(context.Background())
			fmt.Printf("Total sessions:      %d\n", stats.TotalSessions)
			fmt.Printf("Sessions today:      %d\n", stats.TodaySessions)
			fmt.Printf("Total practice time: %dm %ds\n", stats.TotalPracticeTime/60, stats.TotalPracticeTime%60)
			if stats.FavoriteScale != nil {
				fmt.Printf("Favorite scale:      %s\n", *stats.FavoriteScale)
			}
			return nil
		},
	}
}

func bestCmd() *cobra.Command {
	var (
		scale        string
		practiceType string
		octaves      int
	)

	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show the best tempo for an exercise",
		RunE: func(cmd *cobra.Command, args []string) error {
			if scale == "" || practiceType == "" {
				return fmt.Errorf("--scale and --type are required")
			}

			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			key := models.ExerciseKey{Scale: scale, PracticeType: practiceType, Octaves: octaves}
			best := facade.BestBPM(context.Background(), key)
			if best == nil {
				fmt.Printf("%s %s (%d octaves) has not been practiced yet\n", scale, practiceType, octaves)
				return nil
			}
			fmt.Printf("Best tempo for %s %s (%d octaves): %d BPM\n", scale, practiceType, octaves, *best)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scale, "scale", "s", "", "scale name")
	cmd.Flags().StringVarP(&practiceType, "type", "t", "", "practice type")
	cmd.Flags().IntVarP(&octaves, "octaves", "o", 2, "number of octaves")

	return cmd
}

func printSessions(sessions []models.Session) {
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded")
		return
	}
	for _, s := range sessions {
		fmt.Printf("%-16s %-12s %d oct  %3d BPM  %3ds  %s\n",
			s.Scale, s.PracticeType, s.Octaves, s.BPM, s.Duration, s.Date)
	}
}

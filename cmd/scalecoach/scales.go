package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scalecoach/internal/models"
)

func scalesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scales",
		Short: "Manage your scale collection",
	}

	cmd.AddCommand(scalesListCmd())
	cmd.AddCommand(scalesAddCmd())
	cmd.AddCommand(scalesRemoveCmd())
	cmd.AddCommand(scalesResetCmd())

	return cmd
}

func scalesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the scales in your collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			scales := facade.Scales(context.Background())
			if len(scales) == 0 {
				fmt.Println("No scales in your collection")
				return nil
			}
			for _, s := range scales {
				fmt.Printf("%4d  %-16s %-14s %d♯ %d♭\n", s.ID, s.Name, s.Level, s.Sharps, s.Flats)
			}
			return nil
		},
	}
}

func scalesAddCmd() *cobra.Command {
	var (
		level  string
		sharps int
		flats  int
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a scale to your collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			scale := &models.Scale{Name: args[0], Level: level, Sharps: sharps, Flats: flats}
			added := facade.AddScale(context.Background(), scale)
			if added == nil {
				fmt.Printf("%s is already in your collection\n", args[0])
				return nil
			}
			fmt.Printf("Added %s (%s)\n", added.Name, added.Level)
			return nil
		},
	}

	cmd.Flags().StringVarP(&level, "level", "l", "Easy", "difficulty level")
	cmd.Flags().IntVar(&sharps, "sharps", 0, "number of sharps")
	cmd.Flags().IntVar(&flats, "flats", 0, "number of flats")

	return cmd
}

func scalesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [id]",
		Short: "Remove a scale from your collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid scale id: %s", args[0])
			}

			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			if !facade.RemoveScale(context.Background(), id) {
				fmt.Printf("No scale with id %d\n", id)
				return nil
			}
			fmt.Println("Scale removed")
			return nil
		},
	}
}

func scalesResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default scale collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, err := newFacade()
			if err != nil {
				return err
			}
			defer facade.CancelAll()

			scales := facade.ResetScales(context.Background())
			fmt.Printf("Collection reset to %d default scales\n", len(scales))
			return nil
		},
	}
}

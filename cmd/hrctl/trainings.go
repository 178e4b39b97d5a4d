package main

import (
	"fmt"

	"github.com/ogurasousui/hrcore/internal/core/training"
	"github.com/spf13/cobra"
)

func newTrainingsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "trainings <employee-id>",
		Short: "show completed, open and potential trainings of an employee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			report, err := a.Trainings.Report(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sections := []struct {
				title string
				items []training.Training
			}{
				{"completed", report.Completed},
				{"open", report.Open},
				{"potential", report.Potential},
			}
			for _, section := range sections {
				fmt.Fprintf(out, "%s:\n", section.title)
				for _, item := range section.items {
					fmt.Fprintf(out, "  %s\t%s\n", item.ID, item.DisplayName)
				}
			}
			return nil
		},
	}
}

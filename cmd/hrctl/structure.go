package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStructureCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "company structure reference data",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "departments",
			Short: "list departments and their teams",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.application(cmd)
				if err != nil {
					return err
				}
				dir, err := a.Structure.Directory(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, d := range dir.Departments() {
					fmt.Fprintf(out, "%s\t%s\n", d.ID, d.Name)
					for _, t := range dir.DepartmentTeams(d.ID) {
						fmt.Fprintf(out, "  %s\t%s\n", t.ID, t.Name)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rename-department <id> <name>",
			Short: "rename a department for the lifetime of this process",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.application(cmd)
				if err != nil {
					return err
				}
				dir, err := a.Structure.Directory(cmd.Context())
				if err != nil {
					return err
				}
				if !dir.RenameDepartment(args[0], args[1]) {
					return fmt.Errorf("department %q not found", args[0])
				}
				dept, _ := dir.DepartmentSnapshot(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", dept.ID, dept.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "roles",
			Short: "list roles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.application(cmd)
				if err != nil {
					return err
				}
				dir, err := a.Structure.Directory(cmd.Context())
				if err != nil {
					return err
				}
				for _, r := range dir.Roles() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.ID, r.Name, strings.Join(r.RequiredQualifications, ","))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "teams",
			Short: "list teams and their roles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.application(cmd)
				if err != nil {
					return err
				}
				dir, err := a.Structure.Directory(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, t := range dir.Teams() {
					fmt.Fprintf(out, "%s\t%s\n", t.ID, t.Name)
					for _, r := range dir.TeamRoles(t.ID) {
						fmt.Fprintf(out, "  %s\t%s\n", r.ID, r.Name)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "qualification <id>",
			Short: "show a qualification by qualification or role id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := c.application(cmd)
				if err != nil {
					return err
				}
				dir, err := a.Structure.Directory(cmd.Context())
				if err != nil {
					return err
				}
				q, ok := dir.QualificationByIDOrRole(args[0])
				if !ok {
					return fmt.Errorf("qualification %q not found", args[0])
				}
				return printYAML(cmd.OutOrStdout(), map[string]any{
					"roleId":         q.RoleID,
					"requiredYears":  q.RequiredYears,
					"certifications": q.Certifications,
					"description":    q.Description,
					"followUpSkills": q.FollowUpSkills,
					"requiredSkills": q.RequiredSkills,
				})
			},
		},
	)
	return cmd
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type employeeView struct {
	ID                 int64    `yaml:"id"`
	Username           string   `yaml:"username"`
	Name               string   `yaml:"name"`
	Email              string   `yaml:"email,omitempty"`
	PhoneNumber        string   `yaml:"phoneNumber,omitempty"`
	DateOfBirth        string   `yaml:"dateOfBirth,omitempty"`
	Gender             string   `yaml:"gender,omitempty"`
	HireDate           string   `yaml:"hireDate,omitempty"`
	EmploymentStatus   string   `yaml:"employmentStatus,omitempty"`
	DepartmentID       string   `yaml:"departmentId,omitempty"`
	TeamID             string   `yaml:"teamId,omitempty"`
	RoleID             string   `yaml:"roleId,omitempty"`
	Qualifications     []string `yaml:"qualifications,omitempty"`
	CompletedTrainings []string `yaml:"completedTrainings,omitempty"`
	Manager            string   `yaml:"manager,omitempty"`
	Flags              []string `yaml:"flags,omitempty"`
}

func viewOf(e *employee.Employee, manager *employee.Employee) employeeView {
	v := employeeView{
		ID:                 e.ID,
		Username:           e.Username,
		Name:               e.FullName(),
		Email:              e.Email,
		PhoneNumber:        e.PhoneNumber,
		DateOfBirth:        employee.FormatDate(e.DateOfBirth),
		Gender:             e.Gender,
		HireDate:           employee.FormatDate(e.HireDate),
		EmploymentStatus:   e.EmploymentStatus,
		DepartmentID:       e.DepartmentID,
		RoleID:             e.RoleID,
		Qualifications:     e.Qualifications,
		CompletedTrainings: e.CompletedTrainings,
	}
	if e.TeamID != nil {
		v.TeamID = *e.TeamID
	}
	if manager != nil {
		v.Manager = fmt.Sprintf("%d %s", manager.ID, manager.FullName())
	}
	flags := []struct {
		name string
		set  bool
	}{
		{"it-admin", e.ITAdmin},
		{"hr", e.HR},
		{"hr-head", e.HRHead},
		{"manager", e.Manager},
	}
	for _, flag := range flags {
		if flag.set {
			v.Flags = append(v.Flags, flag.name)
		}
	}
	return v
}

func printEmployeeLine(w io.Writer, e *employee.Employee) {
	team, _ := employee.FieldValue(e, "teamId")
	fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Username, e.FullName(), e.DepartmentID, team, e.RoleID)
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an employee id", employee.ErrInvalidID, raw)
	}
	return id, nil
}

func newEmployeesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "employee management",
	}
	cmd.AddCommand(
		newEmployeesListCmd(c),
		newEmployeesGetCmd(c),
		newEmployeesFindCmd(c),
		newEmployeesCreateCmd(c),
		newEmployeesDeleteCmd(c),
		newEmployeesCompleteCmd(c),
	)
	return cmd
}

func newEmployeesListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list all employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			all, err := a.Employees.ListEmployees(cmd.Context())
			if err != nil {
				return err
			}
			for _, e := range all {
				printEmployeeLine(cmd.OutOrStdout(), e)
			}
			return nil
		},
	}
}

func newEmployeesGetCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "show an employee",
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
			e, ok, err := a.Employees.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("id %d: %w", id, employee.ErrEmployeeNotFound)
			}
			manager, _, err := a.Employees.Manager(cmd.Context(), e)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), viewOf(e, manager))
		},
	}
}

func newEmployeesFindCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find <field> <value> [<field> <value>...]",
		Short: "find employees whose fields all match exactly",
		Long:  "Searchable fields: " + strings.Join(employee.FieldNames(), ", "),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var names, values []string
			for i, arg := range args {
				if i%2 == 0 {
					names = append(names, arg)
				} else {
					values = append(values, arg)
				}
			}
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			found, err := a.Employees.FindByFields(cmd.Context(), names, values)
			if err != nil {
				return err
			}
			for _, e := range found {
				printEmployeeLine(cmd.OutOrStdout(), e)
			}
			return nil
		},
	}
}

func newEmployeesCreateCmd(c *cli) *cobra.Command {
	var (
		in          employee.CreateEmployeeInput
		team        string
		manager     int64
		dateOfBirth string
		hireDate    string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "register an employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if err := promptMissing(&in); err != nil {
					return err
				}
			}
			var err error
			if in.DateOfBirth, err = employee.ParseDate(dateOfBirth); err != nil {
				return fmt.Errorf("%w: date of birth: %v", employee.ErrInvalidArgument, err)
			}
			if in.HireDate, err = employee.ParseDate(hireDate); err != nil {
				return fmt.Errorf("%w: hire date: %v", employee.ErrInvalidArgument, err)
			}
			if cmd.Flags().Changed("team") {
				in.TeamID = &team
			}
			if cmd.Flags().Changed("manager-id") {
				in.ManagerID = &manager
			}

			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			created, err := a.Employees.CreateEmployee(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), created.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Username, "username", "", "login name")
	f.StringVar(&in.Password, "password", "", "password")
	f.StringVar(&in.PermissionString, "permissions", "", "permission string")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.PhoneNumber, "phone", "", "phone number")
	f.StringVar(&dateOfBirth, "date-of-birth", "", "date of birth (YYYY-MM-DD)")
	f.StringVar(&in.Address, "address", "", "address")
	f.StringVar(&in.Gender, "gender", "", "gender (one character)")
	f.StringVar(&hireDate, "hire-date", "", "hire date (YYYY-MM-DD)")
	f.StringVar(&in.EmploymentStatus, "status", "", "employment status")
	f.StringVar(&in.DepartmentID, "department", "", "department id")
	f.StringVar(&team, "team", "", "team id")
	f.StringVar(&in.RoleID, "role", "", "role id")
	f.StringSliceVar(&in.Qualifications, "qualifications", nil, "qualification ids")
	f.StringSliceVar(&in.CompletedTrainings, "completed", nil, "completed training ids")
	f.Int64Var(&manager, "manager-id", 0, "manager employee id")
	f.BoolVar(&in.ITAdmin, "it-admin", false, "IT administrator")
	f.BoolVar(&in.HR, "hr", false, "HR staff")
	f.BoolVar(&in.HRHead, "hr-head", false, "head of HR")
	f.BoolVar(&in.Manager, "manager", false, "people manager")
	f.BoolVarP(&interactive, "interactive", "i", false, "prompt for missing required fields")
	return cmd
}

func promptMissing(in *employee.CreateEmployeeInput) error {
	required := []struct {
		label string
		dst   *string
	}{
		{"Username", &in.Username},
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
	}
	for _, field := range required {
		if strings.TrimSpace(*field.dst) != "" {
			continue
		}
		prompt := promptui.Prompt{
			Label: field.label,
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("required")
				}
				return nil
			},
		}
		value, err := prompt.Run()
		if err != nil {
			return err
		}
		*field.dst = value
	}
	return nil
}

func newEmployeesDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "delete an employee",
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
			return a.Employees.DeleteEmployee(cmd.Context(), id)
		},
	}
}

func newEmployeesCompleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id> <qualification-id>",
		Short: "record a completed training",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.application(cmd)
			if err != nil {
				return err
			}
			updated, err := a.Employees.CompleteTraining(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(updated.CompletedTrainings, ","))
			return nil
		},
	}
}

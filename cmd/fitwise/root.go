package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"fitwise/fitness-client/internal/access"
	"fitwise/fitness-client/internal/app"
	"fitwise/fitness-client/internal/domain"

	"github.com/spf13/cobra"
)

// Opener builds the core for one command invocation.
type Opener func(ctx context.Context) (*app.App, error)

type coreKey struct{}

// RootCmd builds the fitwise command tree. Every subcommand opens the core in
// PersistentPreRunE; the opener's caller owns closing it.
func RootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "fitwise",
		Short:        "FitWise client core from the terminal",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			core, err := open(cmd.Context())
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), coreKey{}, core))
			return nil
		},
	}

	root.AddCommand(
		loginCmd(),
		logoutCmd(),
		whoamiCmd(),
		usersCmd(),
		plansCmd(),
		planCmd(),
	)
	return root
}

func coreFrom(cmd *cobra.Command) *app.App {
	return cmd.Context().Value(coreKey{}).(*app.App)
}

// guarded opens the core like the root command does, then asks the gate whether the
// current session may use commands that belong to route.
func guarded(route access.Route) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		core := coreFrom(cmd)
		if access.CanEnter(route, core.Auth.Current()).Allowed {
			return nil
		}
		role, _ := access.RequiredRole(route)
		return fmt.Errorf("log in as %s first", role)
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func loginCmd() *cobra.Command {
	var role, email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a member, admin or DB manager",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core := coreFrom(cmd)
			sess, err := core.Auth.Login(cmd.Context(), domain.Role(role), email, password)
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return errors.New("invalid credentials")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.Identity.Name, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "user, admin or db_manager")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := coreFrom(cmd).Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd, coreFrom(cmd).Auth.Current())
		},
	}
}

func usersCmd() *cobra.Command {
	users := &cobra.Command{
		Use:               "users",
		Short:             "Manage users as DB manager",
		PersistentPreRunE: guarded(access.RouteDBManager),
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List users, optionally filtered by name or email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := coreFrom(cmd).DBManager.SearchUsers(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd, found)
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "case-insensitive filter")

	var nu domain.NewUser
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := coreFrom(cmd).DBManager.AddUser(cmd.Context(), nu)
			if err != nil {
				return err
			}
			return printJSON(cmd, u)
		},
	}
	add.Flags().StringVar(&nu.Name, "name", "", "full name")
	add.Flags().StringVar(&nu.Email, "email", "", "email")
	add.Flags().StringVar(&nu.Password, "password", "", "password")
	add.Flags().IntVar(&nu.Age, "age", 0, "age")
	add.Flags().StringVar(&nu.Gender, "gender", "", "gender")
	add.Flags().Float64Var(&nu.HeightCM, "height", 0, "height in cm")
	add.Flags().Float64Var(&nu.WeightKG, "weight", 0, "weight in kg")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := coreFrom(cmd).DBManager.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d deleted\n", id)
			return nil
		},
	}

	users.AddCommand(list, add, rm)
	return users
}

func plansCmd() *cobra.Command {
	plans := &cobra.Command{
		Use:               "plans",
		Short:             "Manage plans as DB manager",
		PersistentPreRunE: guarded(access.RouteDBManager),
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List plans, optionally filtered by name or goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			found, err := coreFrom(cmd).DBManager.SearchPlans(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd, found)
		},
	}
	list.Flags().StringVarP(&query, "query", "q", "", "case-insensitive filter")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := coreFrom(cmd).DBManager.DeletePlan(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan %d deleted\n", id)
			return nil
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Plans per goal and users per gender",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := coreFrom(cmd).DBManager.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}

	plans.AddCommand(list, rm, stats)
	return plans
}

func planCmd() *cobra.Command {
	plan := &cobra.Command{
		Use:               "plan",
		Short:             "Personal plan commands for a logged-in member",
		PersistentPreRunE: guarded(access.RouteDashboard),
	}

	var req domain.PlanRequest
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a personal plan on the backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			core := coreFrom(cmd)
			if req.Name == "" {
				req.Name = core.Auth.Current().Identity.Name
			}
			if req.Goal == "" {
				goal, err := core.Member.Goal(cmd.Context())
				if err != nil {
					return err
				}
				req.Goal = goal
			}
			generated, err := core.Member.GeneratePlan(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, generated)
		},
	}
	f := generate.Flags()
	f.StringVar(&req.Name, "name", "", "name (defaults to the logged-in member)")
	f.IntVar(&req.Age, "age", 0, "age, at least 13")
	f.StringVar(&req.Sex, "sex", "", "sex")
	f.Float64Var(&req.Weight, "weight", 0, "weight in kg")
	f.Float64Var(&req.Height, "height", 0, "height in cm")
	f.StringVar(&req.Goal, "goal", "", "goal (defaults to the latest recorded goal)")
	f.StringVar(&req.ActivityLevel, "activity", "", "activity level")
	f.StringVar(&req.Experience, "experience", "", "training experience")
	f.StringVar(&req.DietPref, "diet", "", "diet preference")
	f.IntVar(&req.DaysPerWeek, "days", 3, "training days per week, 1 to 7")
	f.StringVar(&req.PreferredTime, "time", "", "preferred training time")
	f.StringSliceVar(&req.HealthConditions, "health", nil, "health conditions")

	plan.AddCommand(generate)
	return plan
}

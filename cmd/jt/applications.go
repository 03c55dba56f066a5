package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"jt-go/internal/jt"
	"jt-go/internal/model"
)

var appCmd = &cobra.Command{
	Use:     "app",
	Aliases: []string{"apps"},
	Short:   "Manage job applications",
}

var appAddCmd = &cobra.Command{
	Use:   "add COMPANY ROLE",
	Short: "Add an application",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := jt.NewApplication{Company: args[0], Role: args[1]}
		in.Notes, _ = cmd.Flags().GetString("note")
		in.Details = detailsFromFlags(cmd)
		if d, _ := cmd.Flags().GetString("date"); d != "" {
			applied, err := time.Parse(time.DateOnly, d)
			if err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", d)
			}
			in.AppliedDate = applied
		}

		a, err := newApp(cmd.Context(), "app add", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		created, err := a.AddApplication(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Added application at %s (%s)\n", created.Company, created.ID)
		return nil
	},
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := jt.ApplicationFilter{}
		if s, _ := cmd.Flags().GetString("status"); s != "" {
			status, ok := model.ParseStatus(s)
			if !ok {
				return fmt.Errorf("unknown status %q", s)
			}
			filter.Status = status
		}
		filter.Company, _ = cmd.Flags().GetString("company")
		filter.ActiveOnly, _ = cmd.Flags().GetBool("active")
		filter.SortBy, _ = cmd.Flags().GetString("sort")
		filter.Desc = !mustBool(cmd, "asc")

		a, err := newApp(cmd.Context(), "app list", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		apps, err := a.Service().ListApplications(cmd.Context(), filter)
		if err != nil {
			return err
		}
		printApplications(apps)
		return nil
	},
}

var appShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show an application and its timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "app show", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		app, err := a.Service().GetApplication(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s at %s\n", app.Role, app.Company)
		fmt.Printf("ID:       %s\n", app.ID)
		fmt.Printf("Status:   %s\n", app.Status)
		fmt.Printf("Applied:  %s\n", app.AppliedDate.Format(time.DateOnly))
		for _, f := range []struct{ label, value string }{
			{"Location", app.Location},
			{"Salary", app.SalaryRange},
			{"URL", app.JobURL},
		} {
			if f.value != "" {
				fmt.Printf("%-9s %s\n", f.label+":", f.value)
			}
		}
		if app.JobDescription != "" {
			fmt.Printf("\n%s\n", app.JobDescription)
		}
		if app.Notes != "" {
			fmt.Printf("\nNotes:\n%s\n", app.Notes)
		}
		fmt.Println("\nTimeline:")
		for _, ev := range app.Timeline {
			fmt.Printf("  %2d  %s  %-10s  %s\n", ev.Sequence, ev.OccurredAt.Local().Format("2006-01-02 15:04"), ev.Status, ev.Note)
		}

		research, err := a.Service().GetCompanyResearch(cmd.Context(), app.Company)
		if err != nil {
			return err
		}
		if research != nil {
			fmt.Printf("\nResearch on %s:\n", research.Company)
			printResearch(research)
		}
		return nil
	},
}

var appStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Set an application's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, ok := model.ParseStatus(args[1])
		if !ok {
			return fmt.Errorf("unknown status %q (want one of %s)", args[1], joinStatuses())
		}
		note, _ := cmd.Flags().GetString("note")

		a, err := newApp(cmd.Context(), "app status", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		app, err := a.UpdateStatus(cmd.Context(), args[0], status, note)
		if err != nil {
			return err
		}
		fmt.Printf("%s at %s is now %s\n", app.Role, app.Company, app.Status)
		return nil
	},
}

var appNoteCmd = &cobra.Command{
	Use:   "note ID TEXT...",
	Short: "Append a note to an application",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "app note", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.AddNote(cmd.Context(), args[0], strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Println("Note added")
		return nil
	},
}

var appEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit an application's details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		details := detailsFromFlags(cmd)
		if details == (model.ApplicationDetails{}) {
			return fmt.Errorf("nothing to change: pass --location, --salary, --url or --description")
		}

		a, err := newApp(cmd.Context(), "app edit", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.EditApplication(cmd.Context(), args[0], details); err != nil {
			return err
		}
		fmt.Println("Application updated")
		return nil
	},
}

var appRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete an application and its timeline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "app rm", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.DeleteApplication(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Application deleted")
		return nil
	},
}

var appSearchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Search company, role, notes and location",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "app search", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		apps, err := a.Service().SearchApplications(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		printApplications(apps)
		return nil
	},
}

var appStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "app stats", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		st, err := a.Service().GetStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Applications:  %d (%d active)\n", st.Total, st.Active)
		fmt.Printf("Response rate: %.1f%%\n", st.ResponseRate*100)
		if st.AvgDaysToResponse > 0 {
			fmt.Printf("Avg response:  %.1f days\n", st.AvgDaysToResponse)
		}
		fmt.Println("\nBy status:")
		for _, s := range model.Statuses {
			if n := st.ByStatus[s]; n > 0 {
				fmt.Printf("  %-10s %d\n", s, n)
			}
		}
		if len(st.TopCompanies) > 0 {
			fmt.Println("\nTop companies:")
			for _, cc := range st.TopCompanies {
				fmt.Printf("  %-20s %d\n", cc.Company, cc.Count)
			}
		}
		return nil
	},
}

func printApplications(apps []*model.Application) {
	if len(apps) == 0 {
		fmt.Println("No applications.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tROLE\tSTATUS\tAPPLIED")
	for _, app := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(app.ID), truncate(app.Company, 24), truncate(app.Role, 32), app.Status, app.AppliedDate.Format(time.DateOnly))
	}
	w.Flush()
}

func detailsFromFlags(cmd *cobra.Command) model.ApplicationDetails {
	var d model.ApplicationDetails
	d.Location, _ = cmd.Flags().GetString("location")
	d.SalaryRange, _ = cmd.Flags().GetString("salary")
	d.JobURL, _ = cmd.Flags().GetString("url")
	d.JobDescription, _ = cmd.Flags().GetString("description")
	return d
}

func addDetailFlags(cmd *cobra.Command) {
	cmd.Flags().String("location", "", "Job location")
	cmd.Flags().String("salary", "", "Salary range")
	cmd.Flags().String("url", "", "Job posting URL")
	cmd.Flags().String("description", "", "Job description")
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}

func joinStatuses() string {
	names := make([]string, 0, len(model.Statuses))
	for _, s := range model.Statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func init() {
	appCmd.AddCommand(appAddCmd)
	addDetailFlags(appAddCmd)
	appAddCmd.Flags().String("note", "", "Initial note")
	appAddCmd.Flags().String("date", "", "Applied date, YYYY-MM-DD (default today)")

	appCmd.AddCommand(appListCmd)
	appListCmd.Flags().StringP("status", "s", "", "Only this status")
	appListCmd.Flags().StringP("company", "c", "", "Company name contains")
	appListCmd.Flags().BoolP("active", "a", false, "Only active applications")
	appListCmd.Flags().String("sort", "applied_date", "Sort by applied_date, company, updated_at or created_at")
	appListCmd.Flags().Bool("asc", false, "Sort ascending")

	appCmd.AddCommand(appShowCmd)
	appCmd.AddCommand(appStatusCmd)
	appStatusCmd.Flags().String("note", "", "Timeline note for the change")
	appCmd.AddCommand(appNoteCmd)
	appCmd.AddCommand(appEditCmd)
	addDetailFlags(appEditCmd)
	appCmd.AddCommand(appRmCmd)
	appCmd.AddCommand(appSearchCmd)
	appCmd.AddCommand(appStatsCmd)
}

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jt-go/internal/jt"
	"jt-go/internal/model"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage master and tailored resumes and their versions",
}

var resumeAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a master resume (content from --file or stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd, true)
		if err != nil {
			return err
		}
		in := jt.NewResume{Name: args[0], Content: content}
		in.Active, _ = cmd.Flags().GetBool("active")
		in.Note, _ = cmd.Flags().GetString("note")

		a, err := newApp(cmd.Context(), "resume add", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		r, err := a.AddResume(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Added resume %s (%s)\n", r.Name, shortID(r.ID))
		return nil
	},
}

var resumeTailorCmd = &cobra.Command{
	Use:   "tailor MASTER_ID",
	Short: "Derive a tailored resume for a company or application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd, false)
		if err != nil {
			return err
		}
		in := jt.TailorInput{Content: content}
		in.Name, _ = cmd.Flags().GetString("name")
		in.Company, _ = cmd.Flags().GetString("company")
		in.ApplicationID, _ = cmd.Flags().GetString("app")
		in.Note, _ = cmd.Flags().GetString("note")

		a, err := newApp(cmd.Context(), "resume tailor", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		r, err := a.TailorResume(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s (%s) for %s\n", r.Name, shortID(r.ID), r.TailoredForCompany)
		return nil
	},
}

var resumeUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Store new content as the next version (content from --file or stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := readContent(cmd, true)
		if err != nil {
			return err
		}
		note, _ := cmd.Flags().GetString("note")

		a, err := newApp(cmd.Context(), "resume update", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		v, err := a.UpdateResume(cmd.Context(), args[0], content, note)
		if err != nil {
			return err
		}
		fmt.Printf("Saved version %d\n", v.Version)
		return nil
	},
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resumes",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f jt.ResumeFilter
		f.MastersOnly, _ = cmd.Flags().GetBool("masters")
		f.TailoredOnly, _ = cmd.Flags().GetBool("tailored")
		f.ActiveOnly, _ = cmd.Flags().GetBool("active")
		f.Company, _ = cmd.Flags().GetString("company")

		a, err := newApp(cmd.Context(), "resume list", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		rs, err := a.Service().ListResumes(cmd.Context(), f)
		if err != nil {
			return err
		}
		if len(rs) == 0 {
			fmt.Println("No resumes.")
			return nil
		}
		for _, r := range rs {
			kind := "master"
			if !r.IsMaster {
				kind = "tailored"
			}
			marker := " "
			if r.IsActive {
				marker = "*"
			}
			fmt.Printf("%s %s  %-8s v%-3d %s\n", marker, shortID(r.ID), kind, r.Version, r.Name)
		}
		return nil
	},
}

var resumeShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a resume's current content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "resume show", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		r, err := a.Service().GetResume(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Print(r.Content)
			return nil
		}
		printResumeHeader(r)
		fmt.Printf("\n%s\n", r.Content)
		return nil
	},
}

var resumeVersionsCmd = &cobra.Command{
	Use:   "versions ID",
	Short: "List a resume's versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "resume versions", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		vs, err := a.Service().ResumeVersions(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, v := range vs {
			fmt.Printf("v%-3d %s  %s\n", v.Version, v.CreatedAt.Local().Format("2006-01-02 15:04"), v.ChangeNote)
		}
		return nil
	},
}

var resumeActivateCmd = &cobra.Command{
	Use:   "activate ID",
	Short: "Make a resume the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "resume activate", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.ActivateResume(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Resume activated")
		return nil
	},
}

var resumeRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a resume and its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "resume rm", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.DeleteResume(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Resume deleted")
		return nil
	},
}

var resumeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show resume statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "resume stats", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		st, err := a.Service().GetResumeStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Resumes:  %d (%d master, %d tailored, %d active)\n", st.Total, st.Masters, st.Tailored, st.Active)
		fmt.Printf("Versions: %d\n", st.TotalVersions)
		if st.LinkedApplications > 0 {
			fmt.Printf("Linked applications: %d, %.0f%% got a response\n", st.LinkedApplications, st.LinkedResponseRate*100)
		}
		return nil
	},
}

func printResumeHeader(r *model.Resume) {
	fmt.Printf("%s (v%d)\n", r.Name, r.Version)
	fmt.Printf("ID:       %s\n", r.ID)
	if r.IsMaster {
		fmt.Println("Kind:     master")
	} else {
		fmt.Printf("Kind:     tailored from %s for %s\n", shortID(r.ParentID), r.TailoredForCompany)
		if r.TailoredForApplication != "" {
			fmt.Printf("App:      %s\n", shortID(r.TailoredForApplication))
		}
	}
	if r.IsActive {
		fmt.Println("Active:   yes")
	}
	fmt.Printf("Updated:  %s\n", r.UpdatedAt.Local().Format(time.DateOnly))
}

// readContent reads --file, or stdin when --file is "-". Without --file,
// stdin is read only when required is set.
func readContent(cmd *cobra.Command, required bool) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" && !required {
		return "", nil
	}
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading resume content: %w", err)
	}
	return string(b), nil
}

func init() {
	resumeCmd.AddCommand(resumeAddCmd)
	resumeAddCmd.Flags().StringP("file", "f", "", "Read content from file (- for stdin)")
	resumeAddCmd.Flags().Bool("active", false, "Make this the active resume")
	resumeAddCmd.Flags().String("note", "", "Change note for version 1")

	resumeCmd.AddCommand(resumeTailorCmd)
	resumeTailorCmd.Flags().StringP("file", "f", "", "Content (default: the master's current content)")
	resumeTailorCmd.Flags().String("name", "", "Name (default: \"<master> - <company>\")")
	resumeTailorCmd.Flags().String("company", "", "Company the resume is tailored for")
	resumeTailorCmd.Flags().String("app", "", "Application ID the resume is tailored for")
	resumeTailorCmd.Flags().String("note", "", "Change note")

	resumeCmd.AddCommand(resumeUpdateCmd)
	resumeUpdateCmd.Flags().StringP("file", "f", "", "Read content from file (- for stdin)")
	resumeUpdateCmd.Flags().String("note", "", "Change note")

	resumeCmd.AddCommand(resumeListCmd)
	resumeListCmd.Flags().Bool("masters", false, "Only master resumes")
	resumeListCmd.Flags().Bool("tailored", false, "Only tailored resumes")
	resumeListCmd.Flags().Bool("active", false, "Only the active resume")
	resumeListCmd.Flags().String("company", "", "Tailored for company")

	resumeCmd.AddCommand(resumeShowCmd)
	resumeShowCmd.Flags().Bool("raw", false, "Print only the content")
	resumeCmd.AddCommand(resumeVersionsCmd)
	resumeCmd.AddCommand(resumeActivateCmd)
	resumeCmd.AddCommand(resumeRmCmd)
	resumeCmd.AddCommand(resumeStatsCmd)
}

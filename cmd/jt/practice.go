package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jt-go/internal/jt"
)

var conceptCmd = &cobra.Command{
	Use:   "concept",
	Short: "Manage technical concepts to review",
}

var conceptAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := jt.NewConcept{Name: args[0]}
		in.Category, _ = cmd.Flags().GetString("category")
		in.Explanation, _ = cmd.Flags().GetString("explanation")
		in.Example, _ = cmd.Flags().GetString("example")
		in.Tags, _ = cmd.Flags().GetStringSlice("tag")

		a, err := newApp(cmd.Context(), "prep concept add", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		c, err := a.AddConcept(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Added concept %s\n", c.ID)
		return nil
	},
}

var conceptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List concepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		tag, _ := cmd.Flags().GetString("tag")
		verbose, _ := cmd.Flags().GetBool("verbose")

		a, err := newApp(cmd.Context(), "prep concept list", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		cs, err := a.Service().ListConcepts(cmd.Context(), category, tag)
		if err != nil {
			return err
		}
		if len(cs) == 0 {
			fmt.Println("No concepts.")
			return nil
		}
		for _, c := range cs {
			fmt.Printf("%s  %-14s %s\n", shortID(c.ID), c.Category, c.Name)
			if verbose && c.Explanation != "" {
				fmt.Printf("          %s\n", truncate(c.Explanation, 100))
			}
		}
		return nil
	},
}

var conceptRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a concept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "prep concept rm", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.DeleteConcept(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Concept deleted")
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Log and review practice sessions",
}

var sessionLogCmd = &cobra.Command{
	Use:   "log [QUESTION_ID...]",
	Short: "Log a practice session, marking the given questions practiced",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := jt.NewPracticeSession{QuestionIDs: args}
		in.Type, _ = cmd.Flags().GetString("type")
		in.DurationMinutes, _ = cmd.Flags().GetInt("minutes")
		in.Company, _ = cmd.Flags().GetString("company")
		in.Rating, _ = cmd.Flags().GetInt("rating")
		in.Notes, _ = cmd.Flags().GetString("notes")
		if d, _ := cmd.Flags().GetString("date"); d != "" {
			date, err := time.Parse(time.DateOnly, d)
			if err != nil {
				return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", d)
			}
			in.Date = date
		}

		a, err := newApp(cmd.Context(), "prep session log", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		ps, err := a.LogPracticeSession(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Logged %s session %s", ps.SessionType, ps.ID)
		if n := len(ps.QuestionIDs); n > 0 {
			fmt.Printf(" (%d question(s) practiced)", n)
		}
		fmt.Println()
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "prep session list", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		ss, err := a.Service().ListPracticeSessions(cmd.Context(), typ, limit)
		if err != nil {
			return err
		}
		if len(ss) == 0 {
			fmt.Println("No practice sessions.")
			return nil
		}
		for _, s := range ss {
			rating := "-"
			if s.Rating > 0 {
				rating = fmt.Sprintf("%d/5", s.Rating)
			}
			fmt.Printf("%s  %s  %-14s %4dm  %-3s  %s\n", shortID(s.ID), s.Date.Format(time.DateOnly), s.SessionType, s.DurationMinutes, rating, s.Company)
		}
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a practice session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "prep session rm", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.DeletePracticeSession(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Practice session deleted")
		return nil
	},
}

var prepStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show preparation statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "prep stats", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		st, err := a.Service().GetPrepStats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Questions:  %d (%d practiced, %.0f%%)\n", st.TotalQuestions, st.PracticedQuestions, st.PracticeRate*100)
		printCounts("  by type", st.QuestionsByType)
		printCounts("  by difficulty", st.QuestionsByDifficulty)
		fmt.Printf("Concepts:   %d\n", st.TotalConcepts)
		printCounts("  by category", st.ConceptsByCategory)
		fmt.Printf("Researched: %d companies\n", st.ResearchedCompanies)
		fmt.Printf("Sessions:   %d (%d minutes", st.TotalSessions, st.TotalPracticeMinutes)
		if st.AverageRating > 0 {
			fmt.Printf(", avg rating %.1f", st.AverageRating)
		}
		fmt.Println(")")
		return nil
	},
}

func printCounts(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, counts[k]))
	}
	fmt.Printf("%s: %s\n", label, strings.Join(parts, ", "))
}

func init() {
	prepCmd.AddCommand(conceptCmd)
	conceptCmd.AddCommand(conceptAddCmd)
	conceptAddCmd.Flags().String("category", "", "Category, e.g. distributed or storage")
	conceptAddCmd.Flags().String("explanation", "", "Explanation in your own words")
	conceptAddCmd.Flags().String("example", "", "Example")
	conceptAddCmd.Flags().StringSlice("tag", nil, "Tags")
	conceptCmd.AddCommand(conceptListCmd)
	conceptListCmd.Flags().String("category", "", "Category")
	conceptListCmd.Flags().String("tag", "", "Tag")
	conceptListCmd.Flags().BoolP("verbose", "v", false, "Show explanations")
	conceptCmd.AddCommand(conceptRmCmd)

	prepCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLogCmd)
	sessionLogCmd.Flags().String("type", "", strings.Join(jt.PracticeSessionTypes, ", "))
	sessionLogCmd.Flags().IntP("minutes", "m", 0, "Duration in minutes")
	sessionLogCmd.Flags().String("company", "", "Company the session prepared for")
	sessionLogCmd.Flags().IntP("rating", "r", 0, "Self rating 1-5")
	sessionLogCmd.Flags().String("notes", "", "Notes")
	sessionLogCmd.Flags().String("date", "", "Session date YYYY-MM-DD (default today)")
	sessionCmd.AddCommand(sessionListCmd)
	sessionListCmd.Flags().String("type", "", "Session type")
	sessionListCmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions to show")
	sessionCmd.AddCommand(sessionRmCmd)

	prepCmd.AddCommand(prepStatsCmd)
}

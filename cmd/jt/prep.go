package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jt-go/internal/jt"
	"jt-go/internal/model"
)

var prepCmd = &cobra.Command{
	Use:   "prep",
	Short: "Manage interview preparation: questions, concepts and practice sessions",
}

var prepAddCmd = &cobra.Command{
	Use:   "add QUESTION...",
	Short: "Add a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := jt.NewPrepQuestion{Question: strings.Join(args, " ")}
		in.Answer, _ = cmd.Flags().GetString("answer")
		in.Type, _ = cmd.Flags().GetString("type")
		in.Category, _ = cmd.Flags().GetString("category")
		in.Difficulty, _ = cmd.Flags().GetString("difficulty")
		in.Companies, _ = cmd.Flags().GetStringSlice("company")
		in.Tags, _ = cmd.Flags().GetStringSlice("tag")

		a, err := newApp(cmd.Context(), "prep add", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		q, err := a.AddPrepQuestion(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Added question %s\n", q.ID)
		return nil
	},
}

var prepListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "prep list", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		qs, err := a.Service().ListPrepQuestions(cmd.Context(), prepFilterFromFlags(cmd))
		if err != nil {
			return err
		}
		if len(qs) == 0 {
			fmt.Println("No questions.")
			return nil
		}
		for _, q := range qs {
			fmt.Printf("%s  %-13s %-6s  x%d  %s\n", shortID(q.ID), q.Type, q.Difficulty, q.PracticeCount, truncate(q.Question, 70))
		}
		return nil
	},
}

var prepPracticeCmd = &cobra.Command{
	Use:   "practice [ID]",
	Short: "Practice a question (least practiced first)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		a, err := newApp(cmd.Context(), "prep practice", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		q, err := a.Practice(cmd.Context(), id, prepFilterFromFlags(cmd))
		if err != nil {
			return err
		}
		if q == nil {
			fmt.Println("No questions match.")
			return nil
		}
		printQuestion(q)
		return nil
	},
}

var prepRmCmd = &cobra.Command{
	Use:   "rm ID",
	Short: "Delete a question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "prep rm", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.DeletePrepQuestion(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Question deleted")
		return nil
	},
}

var prepImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import questions from YAML (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		a, err := newApp(cmd.Context(), "prep import", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		n, err := a.ImportPrep(cmd.Context(), r)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d question(s)\n", n)
		return nil
	},
}

var prepExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export questions as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "prep export", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		_, err = a.Service().ExportPrep(cmd.Context(), os.Stdout, prepFilterFromFlags(cmd))
		return err
	},
}

func printQuestion(q *model.PrepQuestion) {
	fmt.Printf("[%s, %s] %s\n", q.Type, q.Difficulty, q.Question)
	if len(q.Companies) > 0 {
		fmt.Printf("Companies: %s\n", strings.Join(q.Companies, ", "))
	}
	if len(q.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(q.Tags, ", "))
	}
	if q.Answer != "" {
		fmt.Printf("\n%s\n", q.Answer)
	}
	fmt.Printf("\nPracticed %d time(s)\n", q.PracticeCount)
}

func prepFilterFromFlags(cmd *cobra.Command) jt.PrepFilter {
	var f jt.PrepFilter
	f.Type, _ = cmd.Flags().GetString("type")
	f.Category, _ = cmd.Flags().GetString("category")
	f.Difficulty, _ = cmd.Flags().GetString("difficulty")
	f.Company, _ = cmd.Flags().GetString("company")
	f.Tag, _ = cmd.Flags().GetString("tag")
	return f
}

func addPrepFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("type", "", "Question type")
	cmd.Flags().String("category", "", "Category")
	cmd.Flags().String("difficulty", "", "Difficulty")
	cmd.Flags().String("company", "", "Company")
	cmd.Flags().String("tag", "", "Tag")
}

func init() {
	prepCmd.AddCommand(prepAddCmd)
	prepAddCmd.Flags().String("answer", "", "Model answer or notes")
	prepAddCmd.Flags().String("type", "", "behavioral, technical, system_design or other")
	prepAddCmd.Flags().String("category", "", "Free-form category")
	prepAddCmd.Flags().String("difficulty", "", "easy, medium or hard")
	prepAddCmd.Flags().StringSlice("company", nil, "Companies that ask this question")
	prepAddCmd.Flags().StringSlice("tag", nil, "Tags")

	prepCmd.AddCommand(prepListCmd)
	addPrepFilterFlags(prepListCmd)
	prepCmd.AddCommand(prepPracticeCmd)
	addPrepFilterFlags(prepPracticeCmd)
	prepCmd.AddCommand(prepRmCmd)
	prepCmd.AddCommand(prepImportCmd)
	prepCmd.AddCommand(prepExportCmd)
	addPrepFilterFlags(prepExportCmd)
}

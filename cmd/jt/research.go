package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jt-go/internal/jt"
	"jt-go/internal/model"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Keep research notes on companies",
}

var researchAddCmd = &cobra.Command{
	Use:   "add COMPANY",
	Short: "Add research for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := researchInputFromFlags(cmd, args[0])

		a, err := newApp(cmd.Context(), "research add", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		r, err := a.AddCompanyResearch(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Added research for %s\n", r.Company)
		return nil
	},
}

var researchEditCmd = &cobra.Command{
	Use:   "edit COMPANY",
	Short: "Update research fields; --notes appends a dated line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := researchInputFromFlags(cmd, args[0])

		a, err := newApp(cmd.Context(), "research edit", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		r, err := a.UpdateCompanyResearch(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated research for %s\n", r.Company)
		return nil
	},
}

var researchShowCmd = &cobra.Command{
	Use:   "show COMPANY",
	Short: "Show research for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "research show", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		r, err := a.Service().GetCompanyResearch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("no research for %s", args[0])
		}
		fmt.Println(r.Company)
		printResearch(r)
		return nil
	},
}

var researchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List researched companies",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "research list", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		rs, err := a.Service().ListCompanyResearch(cmd.Context())
		if err != nil {
			return err
		}
		if len(rs) == 0 {
			fmt.Println("No company research.")
			return nil
		}
		for _, r := range rs {
			fmt.Printf("%-24s %-16s %s\n", truncate(r.Company, 24), truncate(r.Industry, 16), truncate(r.Overview, 50))
		}
		return nil
	},
}

var researchRmCmd = &cobra.Command{
	Use:   "rm COMPANY",
	Short: "Delete research for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "research rm", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		if err := a.DeleteCompanyResearch(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Research deleted")
		return nil
	},
}

func printResearch(r *model.CompanyResearch) {
	for _, f := range []struct{ label, value string }{
		{"Industry", r.Industry},
		{"Overview", r.Overview},
		{"Culture", r.Culture},
		{"Interviews", r.InterviewProcess},
		{"Why", r.WhyCompany},
	} {
		if f.value != "" {
			fmt.Printf("%-11s %s\n", f.label+":", f.value)
		}
	}
	if r.Notes != "" {
		fmt.Printf("Notes:\n  %s\n", strings.ReplaceAll(r.Notes, "\n", "\n  "))
	}
}

func researchInputFromFlags(cmd *cobra.Command, company string) jt.CompanyResearchInput {
	in := jt.CompanyResearchInput{Company: company}
	in.Industry, _ = cmd.Flags().GetString("industry")
	in.Overview, _ = cmd.Flags().GetString("overview")
	in.Culture, _ = cmd.Flags().GetString("culture")
	in.InterviewProcess, _ = cmd.Flags().GetString("interviews")
	in.WhyCompany, _ = cmd.Flags().GetString("why")
	in.Notes, _ = cmd.Flags().GetString("notes")
	return in
}

func addResearchFlags(cmd *cobra.Command) {
	cmd.Flags().String("industry", "", "Industry")
	cmd.Flags().String("overview", "", "What the company does")
	cmd.Flags().String("culture", "", "Culture and values")
	cmd.Flags().String("interviews", "", "Interview process")
	cmd.Flags().String("why", "", "Why you want to work there")
	cmd.Flags().String("notes", "", "A note line")
}

func init() {
	researchCmd.AddCommand(researchAddCmd)
	addResearchFlags(researchAddCmd)
	researchCmd.AddCommand(researchEditCmd)
	addResearchFlags(researchEditCmd)
	researchCmd.AddCommand(researchShowCmd)
	researchCmd.AddCommand(researchListCmd)
	researchCmd.AddCommand(researchRmCmd)
}

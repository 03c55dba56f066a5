package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jt-go/internal/model"
)

var factCmd = &cobra.Command{
	Use:     "fact",
	Aliases: []string{"facts"},
	Short:   "Manage free-text facts",
}

var factAddCmd = &cobra.Command{
	Use:   "add TEXT...",
	Short: "Store a fact",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		a, err := newApp(cmd.Context(), "fact add", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		fact, err := a.AddFact(cmd.Context(), strings.Join(args, " "), tag)
		if err != nil {
			return err
		}
		fmt.Printf("Saved fact %s\n", fact.ID)
		return nil
	},
}

var factListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent facts",
	RunE: func(cmd *cobra.Command, args []string) error {
		tag, _ := cmd.Flags().GetString("tag")
		limit, _ := cmd.Flags().GetInt("limit")
		a, err := newApp(cmd.Context(), "fact list", nil)
		if err != nil {
			return err
		}
		defer closeApp(a)

		facts, err := a.Service().ListFacts(cmd.Context(), tag, limit)
		if err != nil {
			return err
		}
		printFacts(facts)
		return nil
	},
}

var factSearchCmd = &cobra.Command{
	Use:   "search QUERY...",
	Short: "Find the facts most similar to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		a, err := newApp(cmd.Context(), "fact search", args)
		if err != nil {
			return err
		}
		defer closeApp(a)

		facts, err := a.Service().SearchFacts(cmd.Context(), strings.Join(args, " "), limit)
		if err != nil {
			return err
		}
		printFacts(facts)
		return nil
	},
}

func printFacts(facts []*model.Fact) {
	if len(facts) == 0 {
		fmt.Println("No facts.")
		return
	}
	for _, f := range facts {
		fmt.Printf("%s  %s  [%s]  %s\n", shortID(f.ID), f.CreatedAt.Local().Format("2006-01-02 15:04"), f.SourceTag, f.Text)
	}
}

func init() {
	factCmd.AddCommand(factAddCmd)
	factAddCmd.Flags().StringP("tag", "t", "", "Label for the fact (default manual)")
	factCmd.AddCommand(factListCmd)
	factListCmd.Flags().StringP("tag", "t", "", "Only facts with this label")
	factListCmd.Flags().IntP("limit", "n", 20, "Maximum number of facts")
	factCmd.AddCommand(factSearchCmd)
	factSearchCmd.Flags().IntP("limit", "n", 10, "Maximum number of results")
}

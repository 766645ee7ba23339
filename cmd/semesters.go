package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sapfetch/sapfetch/pkg/catalog"
)

// semestersCmd represents the semesters command
var semestersCmd = &cobra.Command{
	Use:   "semesters",
	Short: "List the semesters the portal knows about",
	Run: func(cmd *cobra.Command, args []string) {
		fetcher := catalog.NewFetcher(source, verbose)
		semesters, err := fetcher.Semesters()
		if err != nil {
			panic(err)
		}
		for _, s := range semesters {
			fmt.Printf("%s (%s %d)  %s to %s\n",
				s.Term, s.Term.SeasonName(), s.Term.Year, s.StartDate, s.EndDate)
		}
	},
}

func init() {
	rootCmd.AddCommand(semestersCmd)
}

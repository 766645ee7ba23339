package cmd

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sapfetch/sapfetch/pkg/catalog"
	"github.com/sapfetch/sapfetch/pkg/database"
	"github.com/sapfetch/sapfetch/pkg/report"
)

var dbFile = "/sapfetch/courses.db"

var csvOut bool

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <year> <semester>",
	Short: "Fetch a term to the local stores",
	Long: `Given a year and a semester code (200=Winter, 201=Spring, 202=Summer)
this command fetches every course offered that term and writes the
results to a local JSON snapshot and a SQLite database. Courses whose
schedule came back empty keep the schedule from the previous snapshot.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("%s is not a valid year", args[0])
		}
		semester, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("%s is not a valid semester code", args[1])
		}
		term := catalog.Term{Year: year, Semester: semester}

		// Fetch the data
		fetcher := catalog.NewFetcher(source, verbose)
		result, err := fetcher.FetchSemester(year, semester)
		if err != nil {
			panic(err)
		}
		log.Println("Fetched", len(result.Courses), "courses,", len(result.Failures), "failures")

		// If the csv flag is set, dump the report and exit early
		if csvOut {
			name := fmt.Sprintf("courses_%d_%d", year, semester)
			if err := report.WriteSemester(name, result.Courses); err != nil {
				panic(err)
			}
			log.Println("Wrote to file", name+".csv")
			return
		}

		// Merge against the previous snapshot and save it back
		store := database.NewJSONStore(dataDir)
		previous, err := store.LoadSnapshot(term)
		if err != nil {
			log.Println("Warning: failed to load prior snapshot:", err)
		}
		courses := catalog.ReconcileSchedules(result.Courses, previous)
		if err := store.SaveCourses(term, courses); err != nil {
			panic(err)
		}
		log.Println("Saved", len(courses), "courses to", dataDir)

		// Mirror into the local database
		userCacheDir, _ := os.UserCacheDir()
		sqlite := database.NewSqlite(userCacheDir + dbFile)
		if err := sqlite.SaveCourses(term, courses); err != nil {
			panic(err)
		}
		_ = sqlite.Close()
		log.Println("Saved to database", dbFile)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVar(&csvOut, "csv", false, "Dump the term as a CSV instead of persisting (default: false)")
}

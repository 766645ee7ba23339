package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/spf13/cobra"

	"github.com/sapfetch/sapfetch/pkg/catalog"
	"github.com/sapfetch/sapfetch/pkg/database"
)

const (
	projectID    = "studyhall-7c2e1"
	datasetID    = "course_catalog"
	topicID      = "semester-refreshed"
	universityID = "Technion"
)

var (
	dryRun      bool
	currentOnly bool
	syncYear    int
	syncSem     int
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the current terms to Firestore",
	Long: `This command determines the current semester from the wall clock (or
takes an explicit --year and --semester), fetches its courses, and
writes them to Firestore and BigQuery. Unless --current-only is set,
the following semester is synced as well.`,
	Run: func(cmd *cobra.Command, args []string) {
		var terms []catalog.Term
		if syncYear != 0 && syncSem != 0 {
			terms = []catalog.Term{{Year: syncYear, Semester: syncSem}}
		} else {
			current := catalog.CurrentTerm(time.Now())
			terms = append(terms, current)
			if !currentOnly {
				terms = append(terms, current.Next())
			}
		}

		var fs database.Firestore
		var bq database.BigQuery
		if !dryRun {
			var err error
			fs, err = database.NewFirestore(projectID, universityID)
			if err != nil {
				panic(fmt.Errorf("failed to connect to firestore: %v", err))
			}
			bq, err = database.NewBigQuery(projectID, datasetID)
			if err != nil {
				panic(fmt.Errorf("failed to connect to bigquery: %v", err))
			}
		}

		store := database.NewJSONStore(dataDir)
		fetcher := catalog.NewFetcher(source, verbose)
		succeeded, failed := 0, 0
		for _, term := range terms {
			log.Printf("Fetching %s %d (%s)", term.SeasonName(), term.Year, term)

			result, err := fetcher.FetchSemester(term.Year, term.Semester)
			if err != nil {
				log.Printf("Failed to fetch %s: %v", term, err)
				failed++
				continue
			}
			if len(result.Courses) == 0 {
				log.Println("No courses found for term", term)
				continue
			}

			// Reconcile against the previous snapshot, then refresh it
			previous, err := store.LoadSnapshot(term)
			if err != nil {
				log.Println("Warning: failed to load prior snapshot:", err)
			}
			courses := catalog.ReconcileSchedules(result.Courses, previous)
			if err := store.SaveCourses(term, courses); err != nil {
				log.Println("Warning: failed to save local snapshot:", err)
			}

			if dryRun {
				fmt.Println("Dry run: data will not be inserted")
			} else {
				if err := fs.SaveCourses(term, courses); err != nil {
					log.Printf("Failed to save %s to firestore: %v", term, err)
					failed++
					continue
				}
				if err := bq.InsertCourses(courses, term); err != nil {
					log.Printf("Failed to insert %s into bigquery: %v", term, err)
					failed++
					continue
				}
				if err := publishRefreshed(term); err != nil {
					log.Printf("Failed to publish event for %s: %v", term, err)
				}
			}

			log.Printf("Updated %s: %d courses (%d failures)", term, len(courses), len(result.Failures))
			succeeded++
		}

		log.Printf("Sync finished: %d terms succeeded, %d failed", succeeded, failed)
		switch {
		case failed > 0 && succeeded == 0:
			os.Exit(1)
		case failed > 0:
			os.Exit(2)
		}
	},
}

// publishRefreshed notifies downstream consumers that a term's course
// collection was refreshed.
func publishRefreshed(term catalog.Term) error {
	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to create client: %v", err)
	}
	defer client.Close()

	msg, err := json.Marshal(struct {
		Year     int `json:"year"`
		Semester int `json:"semester"`
	}{term.Year, term.Semester})
	if err != nil {
		return fmt.Errorf("failed to create message: %v", err)
	}

	res := client.Topic(topicID).Publish(ctx, &pubsub.Message{Data: msg})
	_, err = res.Get(ctx)
	return err
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Run without modifying the databases (default: false)")
	syncCmd.Flags().BoolVar(&currentOnly, "current-only", false, "Only sync the current semester (default: false)")
	syncCmd.Flags().IntVar(&syncYear, "year", 0, "Sync a specific year")
	syncCmd.Flags().IntVar(&syncSem, "semester", 0, "Sync a specific semester code")
}

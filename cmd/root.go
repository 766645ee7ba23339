package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sapfetch/sapfetch/pkg/sap"
)

var source sap.QuerySource

var (
	cacheDir string
	noCache  bool
	dataDir  string
	verbose  bool
)

const defaultCacheDir = "/sapfetch/web-cache"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sapfetch",
	Short: "A tool for fetching course catalog data from the Technion",
	Long: `Fetches course catalog data from the Technion SAP portal into a
cheesefork-compatible format. Given an academic term, this application
can write the courses to local JSON and SQLite stores or send the
results to Firestore and BigQuery.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initSource)

	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Cache responses in this directory (default: user cache dir)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Bypass the response cache (default: false)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "Directory for local JSON snapshots")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every course fetch (default: false)")
}

func initSource() {
	source = sap.NewClient()
	if noCache {
		return
	}
	if cacheDir == "" {
		userCacheDir, _ := os.UserCacheDir()
		cacheDir = userCacheDir + defaultCacheDir
	}
	source = sap.NewCache(cacheDir, source)
}

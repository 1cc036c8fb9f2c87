package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sb-verify/core/config"
	"sb-verify/core/database"
	"sb-verify/core/logger"
	"sb-verify/core/reconcile"
	"sb-verify/core/storage"
	"sb-verify/feature/safebrowsing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verifyJSON     bool
	verifyChecksum bool
	strictHeader   bool
	bucketProfile  bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [old-profile-dir] [new-profile-dir]",
	Short: "Verify a migrated SafeBrowsing cache against the legacy store",
	Long: `Verify decodes every .sbstore/.pset pair in the new profile directory,
loads the reference lists from the legacy urlclassifier sqlite store and
reports per-list mismatch counts.

With --bucket the second argument is an object key prefix inside the
configured storage bucket instead of a local directory.

Arguments and flags fall back to the verify section of the configuration
(verify.old_profile, verify.new_profile, verify.strict_header,
verify.verify_checksum; storage.prefix for --bucket).

Examples:
  # Compare two local profile directories
  sb-verify verify ./old-profile ./new-profile

  # Verify stored MD5 checksums too, and fail on unknown store versions
  sb-verify verify --verify-checksum --strict-header ./old-profile ./new-profile

  # New profile archived in object storage
  sb-verify verify --bucket ./old-profile backups/host42/profile`,
	Args: cobra.MaximumNArgs(2),
	RunE: runVerify,
}

func init() {
	RootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "Save the detailed report as JSON")
	verifyCmd.Flags().BoolVar(&verifyChecksum, "verify-checksum", false, "Verify the stored MD5 checksum of each store file")
	verifyCmd.Flags().BoolVar(&strictHeader, "strict-header", false, "Reject store files with unknown magic or version")
	verifyCmd.Flags().BoolVar(&bucketProfile, "bucket", false, "Treat the new profile argument as an object storage prefix")
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	startTime := time.Now()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Arguments beat the configured defaults, flags beat the configured
	// strictness.
	oldDir, newArg := cfg.Verify.OldProfile, cfg.Verify.NewProfile
	if bucketProfile && newArg == "" {
		newArg = cfg.Storage.Prefix
	}
	if len(args) > 0 {
		oldDir = args[0]
	}
	if len(args) > 1 {
		newArg = args[1]
	}
	if oldDir == "" {
		return fmt.Errorf("no legacy profile: pass <old-profile-dir> or set verify.old_profile")
	}
	if newArg == "" && !bucketProfile {
		return fmt.Errorf("no migrated profile: pass <new-profile-dir> or set verify.new_profile")
	}

	if cmd.Flags().Changed("strict-header") {
		cfg.Verify.StrictHeader = strictHeader
	}
	if cmd.Flags().Changed("verify-checksum") {
		cfg.Verify.VerifyChecksum = verifyChecksum
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	schema := safebrowsing.DefaultLegacySchema()

	// The legacy store is the sqlite file inside the old profile directory
	// unless a mysql mirror is configured.
	dbCfg := cfg.Database
	if dbCfg.Driver != "mysql" {
		dbCfg.Driver = "sqlite"
		dbCfg.Name = filepath.Join(oldDir, schema.DatabaseFile)
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to open legacy store: %w", err)
	}

	// Fail early on an unexpected urlclassifier schema.
	for table, wanted := range map[string][]string{
		schema.TablesTable:     {"id", "name"},
		schema.ClassifierTable: {"domain", "partial_data", "chunk_id"},
		schema.SubsTable:       {"domain", "partial_data", "chunk_id", "add_chunk_id"},
	} {
		missing, err := database.HasColumns(db, table, wanted)
		if err != nil {
			return fmt.Errorf("failed to inspect legacy table %s: %w", table, err)
		}
		if len(missing) > 0 {
			return fmt.Errorf("legacy table %s is missing columns: %s", table, strings.Join(missing, ", "))
		}
	}

	opts := cfg.Verify.Options()

	var report *reconcile.OverallReport
	if bucketProfile {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		report, err = safebrowsing.RunFromBucket(ctx, db, schema, client, cfg.Storage.Bucket, newArg, opts, logg)
		if err != nil {
			return err
		}
	} else {
		report, err = safebrowsing.Run(ctx, db, schema, newArg, opts, logg)
		if err != nil {
			return err
		}
	}

	if verifyJSON {
		filename := fmt.Sprintf("verify_report_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	printReport(os.Stdout, report, time.Since(startTime))

	if report.Failed() {
		return fmt.Errorf("verification failed: %d of %d lists inconsistent",
			report.Summary.TotalLists-report.Summary.ConsistentLists, report.Summary.TotalLists)
	}
	return nil
}

func printReport(w io.Writer, report *reconcile.OverallReport, executionTime time.Duration) {
	fmt.Fprintln(w, "\n=== SafeBrowsing Migration Report ===")
	fmt.Fprintf(w, "Run ID: %s\n", report.RunID)
	for _, l := range report.Lists {
		switch {
		case l.Missing:
			fmt.Fprintf(w, "%-40s %-8s not compared\n", l.Name, "MISSING")
		case l.Error != "":
			// A list that never decoded has no meaningful match percentage.
			fmt.Fprintf(w, "%-40s %-8s not compared\n", l.Name, "ERROR")
			fmt.Fprintf(w, "  error: %s\n", l.Error)
		default:
			status := "OK"
			if !l.Consistent() {
				status = "MISMATCH"
			}
			fmt.Fprintf(w, "%-40s %-8s adds=%d subs=%d match=%.2f%%\n",
				l.Name, status, l.AddMismatches, l.SubMismatches, l.MatchPercent())
		}
	}
	fmt.Fprintf(w, "Total Lists: %d\n", report.Summary.TotalLists)
	fmt.Fprintf(w, "Consistent: %d\n", report.Summary.ConsistentLists)
	fmt.Fprintf(w, "Missing: %d\n", report.Summary.MissingLists)
	fmt.Fprintf(w, "Failed: %d\n", report.Summary.FailedLists)
	fmt.Fprintf(w, "Total Records: %d\n", report.Summary.TotalRecords)
	fmt.Fprintf(w, "Total Mismatches: %d\n", report.Summary.TotalMismatches)
	fmt.Fprintf(w, "Execution Time: %s\n", executionTime.String())
}

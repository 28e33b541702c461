package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/djangolens/djangolens/internal/cache"
	"github.com/djangolens/djangolens/internal/config"
	"github.com/djangolens/djangolens/internal/project"
	"github.com/djangolens/djangolens/internal/storage"
)

var (
	quietFlag bool
	saveFlag  bool
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scan a Django project and print its structure as JSON",
	Long: `Scan discovers models.py, urls.py, admin.py, and settings.py files under
the project root (located by ascending to the nearest manage.py), runs every
extractor over them concurrently, and prints the resulting snapshot as JSON.

Examples:
  # Scan the project containing the current directory
  djangolens scan

  # Scan a specific tree and persist the snapshot
  djangolens scan ~/src/mysite --save

  # Scan without a progress bar
  djangolens scan --quiet
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress output")
	scanCmd.Flags().BoolVar(&saveFlag, "save", false, "Persist the snapshot to the project's snapshot database")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted! Cancelling scan...")
		cancel()
	}()

	start := "."
	if len(args) == 1 {
		start = args[0]
	}
	root := project.FindProjectRoot(start)

	cfg, err := config.NewLoader(root).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fileCache, err := cache.New(cfg.Cache.MaxEntries, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	if err != nil {
		return err
	}
	defer fileCache.Close()

	discovery, err := project.NewDiscovery(root, cfg.Paths.Ignore)
	if err != nil {
		return err
	}

	scanner := project.NewScanner(discovery, fileCache)
	if !quietFlag {
		scanner.OnProgress(newScanProgress())
	}

	snap, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	if saveFlag {
		dbPath := cfg.Storage.Location
		if dbPath == "" {
			dbPath = defaultSnapshotPath(root)
		}
		store, err := storage.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		scanID, err := store.SaveSnapshot(snap)
		if err != nil {
			return err
		}
		if verbose {
			log.Printf("Saved snapshot %s to %s", scanID, dbPath)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// newScanProgress returns a per-file progress callback backed by a
// progress bar, created lazily once the file total is known.
func newScanProgress() project.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(done, total int, file project.File) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Scanning files"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
			)
		}
		_ = bar.Add(1)
	}
}

func defaultSnapshotPath(root string) string {
	dir := filepath.Join(root, ".djangolens")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "snapshots.db")
}

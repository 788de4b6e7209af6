package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chorechampions/internal/config"
	"chorechampions/internal/repository"
	"chorechampions/internal/service"

	"github.com/spf13/cobra"
)

type storeOpener func(ctx context.Context) (repository.Store, error)

func main() {
	if err := newRootCmd(openConfiguredStore).Execute(); err != nil {
		os.Exit(1)
	}
}

func openConfiguredStore(ctx context.Context) (repository.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return repository.OpenStore(ctx, cfg)
}

func newRootCmd(open storeOpener) *cobra.Command {
	root := &cobra.Command{
		Use:   "backup",
		Short: "Chore Champions state backup tool",
		Long: `Export and import the persisted household state.

The store is selected the same way as the server: STORE_TYPE (sql, redis,
memory), DB_TYPE, DB_PATH, DATABASE_URL and REDIS_URL. Stop the server
before importing.`,
		SilenceUsage: true,
	}
	root.AddCommand(newExportCmd(open), newImportCmd(open))
	return root
}

func newExportCmd(open storeOpener) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export state to a JSON file",
		Example: `  backup export
  backup export --output backups/mybackup.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Generate default filename if not provided
			if output == "" {
				output = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
			}

			// Ensure directory exists
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			log.Printf("Exporting state to: %s", output)
			if err := service.NewBackupService(store).Export(cmd.Context(), output); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if info, err := os.Stat(output); err == nil {
				log.Printf("Export complete! File size: %.2f KB", float64(info.Size())/1024)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd(open storeOpener) *cobra.Command {
	var (
		input     string
		clearData bool
		assumeYes bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import state from a JSON file",
		Example: `  # Merge learners and tasks by id
  backup import --input backup.json

  # Replace the stored state
  backup import --input backup.json --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file does not exist: %s", input)
			}

			if clearData && !assumeYes {
				fmt.Fprint(cmd.OutOrStdout(), "WARNING: This will replace all existing data. Type 'yes' to confirm: ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if strings.TrimSpace(answer) != "yes" {
					log.Println("Import cancelled")
					return nil
				}
			}

			store, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			log.Printf("Importing state from: %s", input)
			if err := service.NewBackupService(store).Import(cmd.Context(), input, clearData); err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			log.Println("Import complete!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input file path")
	cmd.Flags().BoolVar(&clearData, "clear", false, "replace existing data instead of merging (destructive)")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt for --clear")
	cmd.MarkFlagRequired("input")
	return cmd
}

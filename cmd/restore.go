package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repobridge/internal/pathutil"
)

var restoreCmd = &cobra.Command{
	Use:   "restore <project>",
	Short: "Pull a persisted session back from the storage tiers",
	Long: `Restore a session from the durable tiers, including the cold blob
store, and backfill the faster ones. The directory handle is rehydrated
when its directory still exists.

Example:
  repobridge restore prj_42`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	projectID := args[0]
	snapshot := reg.RestoreSession(projectID)
	if snapshot == nil {
		fmt.Printf("Nothing persisted for project %s\n", projectID)
		return nil
	}

	fmt.Printf("Project:    %s\n", projectID)
	fmt.Printf("Repository: %s\n", pathutil.BrowserLocalRepoPath(snapshot.RootName))
	fmt.Printf("Files:      %d\n", len(snapshot.Files))
	fmt.Printf("Characters: %d\n", snapshot.TotalChars())
	fmt.Printf("Writable:   %v\n", reg.HasWriteCapability(projectID))
	return nil
}

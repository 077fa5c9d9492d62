package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repobridge/internal/pathutil"
	"repobridge/internal/refs"
)

var statusCmd = &cobra.Command{
	Use:   "status <project>",
	Short: "Show the session registered for a project",
	Long: `Show the restored session for a project: snapshot shape, write
capability and, when a directory handle exists, the repository's branches.

Example:
  repobridge status prj_42`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	projectID := args[0]
	snapshot := reg.RestoreSession(projectID)
	if snapshot == nil {
		fmt.Printf("No session for project %s\n", projectID)
		return nil
	}

	fmt.Printf("Project:    %s\n", projectID)
	fmt.Printf("Repository: %s\n", pathutil.BrowserLocalRepoPath(snapshot.RootName))
	fmt.Printf("Indexed:    %s\n", snapshot.IndexedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Files:      %d\n", len(snapshot.Files))
	fmt.Printf("Characters: %d\n", snapshot.TotalChars())
	fmt.Printf("Writable:   %v\n", reg.HasWriteCapability(projectID))

	if !reg.HasWriteCapability(projectID) {
		return nil
	}

	branches, err := refs.ListBranches(reg, projectID, 0)
	if err != nil {
		return err
	}
	if branches.Detached {
		fmt.Println("HEAD:       detached")
	} else if branches.ActiveBranch != "" {
		fmt.Printf("HEAD:       %s\n", branches.ActiveBranch)
	}
	fmt.Printf("Branches:   %d\n", len(branches.Branches))
	for _, b := range branches.Branches {
		marker := "  "
		if b == branches.ActiveBranch {
			marker = "* "
		}
		fmt.Printf("  %s%s\n", marker, b)
	}
	return nil
}

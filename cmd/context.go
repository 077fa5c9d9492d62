package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repobridge/internal/repoctx"
)

var contextBranch string

var contextCmd = &cobra.Command{
	Use:   "context <project>",
	Short: "Print the documentation-generation context for a project",
	Long: `Select the most relevant snapshot files by path score and print them as
fenced blocks, honoring the per-file and total character budgets. This
is the input a documentation pass works from.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	rootCmd.AddCommand(contextCmd)

	contextCmd.Flags().StringVar(&contextBranch, "branch", "", "Branch name recorded in the context")
}

func runContext(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	projectID := args[0]
	reg.RestoreSession(projectID)

	ctx := repoctx.BuildDocumentationContext(reg, projectID, contextBranch)
	if ctx == nil {
		fmt.Printf("No snapshot for project %s\n", projectID)
		return nil
	}

	fmt.Printf("Repository: %s\n", ctx.RepoRoot)
	fmt.Printf("Files: %d\n\n", len(ctx.FilePaths))
	fmt.Println(ctx.Context)
	return nil
}

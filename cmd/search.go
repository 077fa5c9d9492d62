package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repobridge/internal/repoctx"
)

var searchBranch string

var searchCmd = &cobra.Command{
	Use:   "search <project> <question>",
	Short: "Grep the snapshot for a natural-language question",
	Long: `Extract grep terms from a question and print the context block the
assistant receives: header, match lines and short excerpts around the
first hit of the most relevant files.

Examples:
  repobridge search prj_42 "where is the session registry persisted"
  repobridge search prj_42 --branch feature/x "checkout handling"`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchBranch, "branch", "", "Branch name shown in the context header")
}

func runSearch(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	projectID, question := args[0], args[1]
	reg.RestoreSession(projectID)

	block, ok := repoctx.BuildFrontendContext(reg, projectID, question, searchBranch)
	if !ok {
		fmt.Printf("No snapshot for project %s\n", projectID)
		return nil
	}
	fmt.Println(block)
	return nil
}

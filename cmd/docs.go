package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"repobridge/internal/docwriter"
	"repobridge/internal/models"
	"repobridge/internal/repoctx"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Inspect and rewrite the generated documentation folder",
}

var docsListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List the documentation files in the snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsList,
}

var docsReadCmd = &cobra.Command{
	Use:   "read <project> <path>",
	Short: "Print one documentation file from the snapshot",
	Args:  cobra.ExactArgs(2),
	RunE:  runDocsRead,
}

var docsWriteCmd = &cobra.Command{
	Use:   "write <project> <markdown-file>...",
	Short: "Replace the documentation folder with the given markdown files",
	Long: `Clear the documentation folder in the live tree and write each given
markdown file into it, named after its basename. Requires write consent
on the project's directory handle. The snapshot is updated to match.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDocsWrite,
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsReadCmd)
	docsCmd.AddCommand(docsWriteCmd)
}

func runDocsList(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	projectID := args[0]
	reg.RestoreSession(projectID)

	paths := repoctx.ListDocumentationFiles(reg, projectID)
	if len(paths) == 0 {
		fmt.Println("No documentation files.")
		return nil
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}

func runDocsRead(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	projectID, path := args[0], args[1]
	reg.RestoreSession(projectID)

	content, ok := repoctx.ReadDocumentationFile(reg, projectID, path)
	if !ok {
		return fmt.Errorf("documentation file not found: %s", path)
	}
	fmt.Print(content)
	return nil
}

func runDocsWrite(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	projectID := args[0]
	var files []models.DocFile
	for _, src := range args[1:] {
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", src, err)
		}
		files = append(files, models.DocFile{
			Path:    filepath.Base(src),
			Content: string(data),
		})
	}

	written, err := docwriter.Write(reg, projectID, files, cliPrompter())
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %d documentation file(s):\n", len(written))
	for _, p := range written {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

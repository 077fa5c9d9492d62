package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"repobridge/internal/acquire"
	"repobridge/internal/pathutil"
)

var (
	pickProject string
	pickFlat    bool
)

var pickCmd = &cobra.Command{
	Use:   "pick <directory> | pick --flat <file>...",
	Short: "Grant access to a working directory and snapshot it",
	Long: `Snapshot a working directory's readable text files under the size and
count budgets and register the session.

The default mode walks the directory and keeps a write-capable handle to
it, so documentation writes and branch operations stay available. The
--flat mode takes individual files instead (no handle, read-only session).

Without --project a provisional identifier is minted; use "repobridge
move" once the backend assigns a persistent one.

Examples:
  repobridge pick ~/src/myrepo
  repobridge pick --flat src/main.go src/util.go
  repobridge pick --project prj_42 ~/src/myrepo`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().StringVar(&pickProject, "project", "", "Project identifier (default: minted provisional id)")
	pickCmd.Flags().BoolVar(&pickFlat, "flat", false, "Treat arguments as a flat file selection instead of a directory")
}

func runPick(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	limits := acquire.LimitsFromConfig()

	var sess *acquire.Session
	if pickFlat {
		uploads := make([]acquire.Upload, 0, len(args))
		for _, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
				continue
			}
			uploads = append(uploads, acquire.Upload{Path: path, Data: data})
		}
		sess, err = acquire.FileList(uploads, limits)
	} else {
		sess, err = acquire.Directory(args[0], limits)
	}
	if err != nil {
		return err
	}

	projectID := pickProject
	if projectID == "" {
		projectID = "local-" + uuid.NewString()
	}

	if err := reg.SetSession(projectID, sess); err != nil {
		return err
	}

	fmt.Printf("Project:    %s\n", projectID)
	fmt.Printf("Repository: %s\n", pathutil.BrowserLocalRepoPath(sess.Snapshot.RootName))
	fmt.Printf("Files:      %d\n", len(sess.Snapshot.Files))
	fmt.Printf("Characters: %d\n", sess.Snapshot.TotalChars())
	fmt.Printf("Writable:   %v\n", sess.Writable())
	return nil
}

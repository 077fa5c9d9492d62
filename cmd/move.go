package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <from-project> <to-project>",
	Short: "Relocate a session to a new project identifier",
	Long: `Relocate a stored session from one project identifier to another across
every storage tier, removing the source records. Used when a provisional
identifier minted by "pick" is replaced by the persisted one.

Example:
  repobridge move local-3f2a prj_42`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func init() {
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	fromID, toID := args[0], args[1]
	reg.MoveSnapshot(fromID, toID)

	if reg.RestoreSession(toID) == nil {
		fmt.Printf("No session found under %s\n", fromID)
		return nil
	}
	fmt.Printf("Moved session %s -> %s\n", fromID, toID)
	return nil
}

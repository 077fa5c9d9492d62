package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"repobridge/internal/config"
	"repobridge/internal/refs"
)

var (
	branchSource     string
	branchNoCheckout bool
	checkoutCreate   bool
	checkoutStart    string
)

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "List, create, and check out branches via ref files",
}

var branchListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List branches from loose and packed refs",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchList,
}

var branchCreateCmd = &cobra.Command{
	Use:   "create <project> <name>",
	Short: "Create a branch by writing a loose ref",
	Long: `Write refs/heads/<name> pointing at the resolved source commit and, by
default, point HEAD at the new branch. Requires write consent on the
project's directory handle.`,
	Args: cobra.ExactArgs(2),
	RunE: runBranchCreate,
}

var branchCheckoutCmd = &cobra.Command{
	Use:   "checkout <project> <name>",
	Short: "Point HEAD at a branch",
	Args:  cobra.ExactArgs(2),
	RunE:  runBranchCheckout,
}

func init() {
	rootCmd.AddCommand(branchCmd)
	branchCmd.AddCommand(branchListCmd)
	branchCmd.AddCommand(branchCreateCmd)
	branchCmd.AddCommand(branchCheckoutCmd)

	branchCreateCmd.Flags().StringVar(&branchSource, "source", "", "Branch, ref path, or commit to start from")
	branchCreateCmd.Flags().BoolVar(&branchNoCheckout, "no-checkout", false, "Create the branch without moving HEAD")

	branchCheckoutCmd.Flags().BoolVar(&checkoutCreate, "create", false, "Create the branch if it does not exist")
	branchCheckoutCmd.Flags().StringVar(&checkoutStart, "start", "", "Start point when creating (branch, ref path, or commit)")
}

func runBranchList(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := refs.ListBranches(reg, args[0], config.GetMaxBranches())
	if err != nil {
		return err
	}
	if list.Detached {
		fmt.Println("HEAD is detached")
	}
	for _, name := range list.Branches {
		marker := "  "
		if name == list.ActiveBranch {
			marker = "* "
		}
		fmt.Printf("%s%s\n", marker, name)
	}
	return nil
}

func runBranchCreate(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	opts := refs.CreateBranchOptions{
		Branch:    args[1],
		SourceRef: branchSource,
	}
	if branchNoCheckout {
		checkout := false
		opts.Checkout = &checkout
	}

	result, err := refs.CreateBranch(reg, args[0], opts, cliPrompter())
	if err != nil {
		return err
	}
	fmt.Printf("Created branch %s at %s\n", result.Branch, result.Commit)
	if result.CheckedOut {
		fmt.Println("HEAD now points at it.")
	}
	return nil
}

func runBranchCheckout(cmd *cobra.Command, args []string) error {
	reg, cleanup, err := openRegistry()
	if err != nil {
		return err
	}
	defer cleanup()

	opts := refs.CheckoutBranchOptions{
		Branch:          args[1],
		CreateIfMissing: checkoutCreate,
		StartPoint:      checkoutStart,
	}

	result, err := refs.CheckoutBranch(reg, args[0], opts, cliPrompter())
	if err != nil {
		return err
	}
	if result.Created {
		fmt.Printf("Created and checked out %s at %s\n", result.Branch, result.Commit)
	} else {
		fmt.Printf("Checked out %s at %s\n", result.Branch, result.Commit)
	}
	if result.PreviousBranch != "" && result.PreviousBranch != result.Branch {
		fmt.Printf("Previous branch: %s\n", result.PreviousBranch)
	}
	return nil
}

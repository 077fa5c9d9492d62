package refs

import (
	"sort"
	"strings"

	"repobridge/internal/acquire"
	"repobridge/internal/config"
	"repobridge/internal/errors"
	"repobridge/internal/models"
	"repobridge/internal/session"
)

const defaultMaxBranches = 200

// fallbackBranch is tried last when no other source commit resolves.
func fallbackBranch() string {
	if b := config.GetFallbackBranch(); b != "" {
		return b
	}
	return "main"
}

// handleFor returns the project's capability handle; every ref operation
// requires one.
func handleFor(reg *session.Registry, projectID string) (*acquire.Handle, error) {
	if reg.Session(projectID) == nil {
		reg.RestoreSession(projectID)
	}
	handle := reg.Handle(projectID)
	if handle == nil {
		return nil, errors.New(errors.NoWritableHandle, "no directory handle for project "+projectID)
	}
	return handle, nil
}

// ListBranches combines HEAD resolution with the merged loose/packed branch
// map. The active branch (if any) is first; the rest follow path-sorted,
// deduplicated and capped at max.
func ListBranches(reg *session.Registry, projectID string, max int) (*models.BranchList, error) {
	handle, err := handleFor(reg, projectID)
	if err != nil {
		return nil, err
	}
	if max <= 0 {
		max = config.GetMaxBranches()
	}
	if max <= 0 {
		max = defaultMaxBranches
	}

	head := ReadHeadInfo(handle.Root)
	active := ""
	if strings.HasPrefix(head.Ref, headsPrefix) {
		active = strings.TrimPrefix(head.Ref, headsPrefix)
	}

	commits := ListBranchCommits(handle.Root)
	names := make([]string, 0, len(commits))
	for name := range commits {
		if name != active {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	branches := make([]string, 0, len(names)+1)
	if active != "" {
		branches = append(branches, active)
	}
	branches = append(branches, names...)
	if len(branches) > max {
		branches = branches[:max]
	}

	return &models.BranchList{
		ActiveBranch: active,
		Detached:     head.Ref == "",
		Branches:     branches,
	}, nil
}

// CreateBranchOptions configures CreateBranch. A nil Checkout means "yes".
type CreateBranchOptions struct {
	Branch    string
	SourceRef string
	Checkout  *bool
}

// CreateBranch writes a new loose ref pointing at a resolved source commit
// and, unless Checkout is explicitly false, points HEAD at the new branch.
// The source commit is resolved by trying, in order: the given SourceRef,
// HEAD's current ref, HEAD's detached commit, and the fallback branch.
func CreateBranch(reg *session.Registry, projectID string, opts CreateBranchOptions, prompter acquire.Prompter) (*models.CreateBranchResult, error) {
	handle, err := handleFor(reg, projectID)
	if err != nil {
		return nil, err
	}
	if err := handle.EnsureWritable(prompter); err != nil {
		return nil, err
	}
	if !ValidBranchName(opts.Branch) {
		return nil, errors.New(errors.InvalidBranchName, "invalid branch name: "+opts.Branch)
	}
	if ResolveRefCommit(handle.Root, opts.Branch) != nil {
		return nil, errors.New(errors.BranchExists, "branch already exists: "+opts.Branch)
	}

	commit := resolveSource(handle.Root, opts.SourceRef)
	if commit == "" {
		return nil, errors.New(errors.NoResolvableSource, "no resolvable source commit for branch "+opts.Branch)
	}

	ref := headsPrefix + opts.Branch
	if err := writeLooseRef(handle.Root, ref, commit); err != nil {
		return nil, err
	}

	checkout := opts.Checkout == nil || *opts.Checkout
	if checkout {
		if err := writeSymbolicHead(handle.Root, ref); err != nil {
			return nil, err
		}
	}

	return &models.CreateBranchResult{
		Branch:     opts.Branch,
		Commit:     commit,
		CheckedOut: checkout,
	}, nil
}

// CheckoutBranchOptions configures CheckoutBranch.
type CheckoutBranchOptions struct {
	Branch          string
	CreateIfMissing bool
	StartPoint      string
}

// CheckoutBranch points HEAD at the target branch, creating it first when
// allowed. A missing branch without CreateIfMissing fails with
// BranchNotFound. The start commit for creation is resolved by trying, in
// order: the explicit StartPoint, the previously active branch, HEAD's
// detached commit, and the fallback branch.
func CheckoutBranch(reg *session.Registry, projectID string, opts CheckoutBranchOptions, prompter acquire.Prompter) (*models.CheckoutResult, error) {
	handle, err := handleFor(reg, projectID)
	if err != nil {
		return nil, err
	}
	if err := handle.EnsureWritable(prompter); err != nil {
		return nil, err
	}
	if !ValidBranchName(opts.Branch) {
		return nil, errors.New(errors.InvalidBranchName, "invalid branch name: "+opts.Branch)
	}

	head := ReadHeadInfo(handle.Root)
	previous := ""
	if strings.HasPrefix(head.Ref, headsPrefix) {
		previous = strings.TrimPrefix(head.Ref, headsPrefix)
	}

	created := false
	var commit string
	if res := ResolveRefCommit(handle.Root, opts.Branch); res != nil {
		commit = res.Commit
	} else {
		if !opts.CreateIfMissing {
			return nil, errors.New(errors.BranchNotFound, "branch not found: "+opts.Branch)
		}
		commit = resolveStart(handle.Root, opts.StartPoint, previous, head.Commit)
		if commit == "" {
			return nil, errors.New(errors.NoResolvableSource, "no resolvable start commit for branch "+opts.Branch)
		}
		if err := writeLooseRef(handle.Root, headsPrefix+opts.Branch, commit); err != nil {
			return nil, err
		}
		created = true
	}

	if err := writeSymbolicHead(handle.Root, headsPrefix+opts.Branch); err != nil {
		return nil, err
	}

	return &models.CheckoutResult{
		Branch:         opts.Branch,
		Commit:         commit,
		PreviousBranch: previous,
		Created:        created,
	}, nil
}

// resolveSource picks the source commit for branch creation.
func resolveSource(root, sourceRef string) string {
	head := ReadHeadInfo(root)
	for _, candidate := range []string{sourceRef, head.Ref, head.Commit, fallbackBranch()} {
		if candidate == "" {
			continue
		}
		if res := ResolveRefCommit(root, candidate); res != nil {
			return res.Commit
		}
	}
	return ""
}

// resolveStart picks the start commit for checkout-with-create.
func resolveStart(root, startPoint, previousBranch, detachedCommit string) string {
	for _, candidate := range []string{startPoint, previousBranch, detachedCommit, fallbackBranch()} {
		if candidate == "" {
			continue
		}
		if res := ResolveRefCommit(root, candidate); res != nil {
			return res.Commit
		}
	}
	return ""
}

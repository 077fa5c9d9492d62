package refs

import (
	"testing"

	"repobridge/internal/acquire"
	"repobridge/internal/errors"
	"repobridge/internal/session"
	"repobridge/internal/slogutil"
	"repobridge/internal/store"
	"repobridge/internal/testutil"
)

var grantAll = acquire.PrompterFunc(func(string) bool { return true })

func setupProject(t *testing.T) (*session.Registry, *testutil.TempRepo) {
	t.Helper()
	repo := testutil.NewTempRepo(t)

	sess, err := acquire.Directory(repo.Path, acquire.DefaultLimits())
	if err != nil {
		t.Fatalf("acquisition failed: %v", err)
	}
	tiers := store.NewTiers(slogutil.NewDiscardLogger(), store.NewMemoryStore(), store.NewMemoryStore())
	reg := session.NewRegistry(tiers, slogutil.NewDiscardLogger())
	if err := reg.SetSession("prj", sess); err != nil {
		t.Fatalf("failed to register session: %v", err)
	}
	return reg, repo
}

func TestListBranches(t *testing.T) {
	reg, repo := setupProject(t)
	repo.SetBranch("feature/login", otherCommit)
	repo.SetPackedRefs(map[string]string{"refs/heads/archived": otherCommit})

	list, err := ListBranches(reg, "prj", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.ActiveBranch != "main" || list.Detached {
		t.Errorf("unexpected head state: %+v", list)
	}
	// Active branch first, the rest sorted.
	want := []string{"main", "archived", "feature/login"}
	if len(list.Branches) != len(want) {
		t.Fatalf("branches = %v, want %v", list.Branches, want)
	}
	for i := range want {
		if list.Branches[i] != want[i] {
			t.Errorf("branches[%d] = %s, want %s", i, list.Branches[i], want[i])
		}
	}
}

func TestListBranchesDetached(t *testing.T) {
	reg, repo := setupProject(t)
	repo.SetDetachedHead(otherCommit)

	list, err := ListBranches(reg, "prj", 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !list.Detached || list.ActiveBranch != "" {
		t.Errorf("detached head not reported: %+v", list)
	}
}

func TestListBranchesCap(t *testing.T) {
	reg, repo := setupProject(t)
	repo.SetBranch("aaa", otherCommit)
	repo.SetBranch("bbb", otherCommit)
	repo.SetBranch("ccc", otherCommit)

	list, err := ListBranches(reg, "prj", 2)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Branches) != 2 {
		t.Errorf("cap ignored: %v", list.Branches)
	}
	if list.Branches[0] != "main" {
		t.Errorf("active branch must survive the cap: %v", list.Branches)
	}
}

func TestCreateBranch(t *testing.T) {
	reg, repo := setupProject(t)

	result, err := CreateBranch(reg, "prj", CreateBranchOptions{Branch: "feature/x"}, grantAll)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Commit != testutil.MainCommit || !result.CheckedOut {
		t.Errorf("unexpected result: %+v", result)
	}

	// The loose ref exists and HEAD moved to the new branch.
	if got := repo.ReadFile(".git/refs/heads/feature/x"); got != testutil.MainCommit+"\n" {
		t.Errorf("loose ref content = %q", got)
	}
	if repo.Head() != "ref: refs/heads/feature/x" {
		t.Errorf("HEAD = %q", repo.Head())
	}
}

func TestCreateBranchNoCheckout(t *testing.T) {
	reg, repo := setupProject(t)

	noCheckout := false
	result, err := CreateBranch(reg, "prj", CreateBranchOptions{
		Branch:   "feature/y",
		Checkout: &noCheckout,
	}, grantAll)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.CheckedOut {
		t.Error("checkout should be suppressed")
	}
	if repo.Head() != "ref: refs/heads/main" {
		t.Errorf("HEAD moved despite no-checkout: %q", repo.Head())
	}
}

func TestCreateBranchFromSource(t *testing.T) {
	reg, repo := setupProject(t)
	repo.SetBranch("release", otherCommit)

	result, err := CreateBranch(reg, "prj", CreateBranchOptions{
		Branch:    "hotfix",
		SourceRef: "release",
	}, grantAll)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Commit != otherCommit {
		t.Errorf("source ref ignored: %+v", result)
	}
}

func TestCreateBranchExisting(t *testing.T) {
	reg, repo := setupProject(t)

	_, err := CreateBranch(reg, "prj", CreateBranchOptions{Branch: "main"}, grantAll)
	if !errors.HasCode(err, errors.BranchExists) {
		t.Fatalf("expected BRANCH_EXISTS, got %v", err)
	}
	// The failed create must not have touched HEAD or the ref.
	if repo.Head() != "ref: refs/heads/main" {
		t.Errorf("HEAD changed by failed create: %q", repo.Head())
	}
	if got := repo.ReadFile(".git/refs/heads/main"); got != testutil.MainCommit+"\n" {
		t.Errorf("ref changed by failed create: %q", got)
	}
}

func TestCreateBranchInvalidName(t *testing.T) {
	reg, _ := setupProject(t)
	for _, bad := range []string{"", "a..b", "has space"} {
		_, err := CreateBranch(reg, "prj", CreateBranchOptions{Branch: bad}, grantAll)
		if !errors.HasCode(err, errors.InvalidBranchName) {
			t.Errorf("%q: expected INVALID_BRANCH_NAME, got %v", bad, err)
		}
	}
}

func TestCreateBranchFromDetachedHead(t *testing.T) {
	reg, repo := setupProject(t)
	repo.SetDetachedHead(otherCommit)

	result, err := CreateBranch(reg, "prj", CreateBranchOptions{Branch: "rescue"}, grantAll)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Commit != otherCommit {
		t.Errorf("detached commit not used as source: %+v", result)
	}
}

func TestCreateBranchFallsBackToDefaultBranch(t *testing.T) {
	reg, repo := setupProject(t)
	// HEAD points at a branch that has no ref anywhere; only main resolves.
	repo.SetHead("ghost")

	result, err := CreateBranch(reg, "prj", CreateBranchOptions{Branch: "recovered"}, grantAll)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Commit != testutil.MainCommit {
		t.Errorf("fallback branch not used: %+v", result)
	}
}

func TestCreateBranchNoResolvableSource(t *testing.T) {
	reg, repo := setupProject(t)
	repo.RemoveFile(".git/refs/heads/main")
	repo.SetHead("ghost")

	_, err := CreateBranch(reg, "prj", CreateBranchOptions{Branch: "doomed"}, grantAll)
	if !errors.HasCode(err, errors.NoResolvableSource) {
		t.Errorf("expected NO_RESOLVABLE_SOURCE, got %v", err)
	}
}

func TestCheckoutBranch(t *testing.T) {
	reg, repo := setupProject(t)
	repo.SetBranch("feature/z", otherCommit)

	result, err := CheckoutBranch(reg, "prj", CheckoutBranchOptions{Branch: "feature/z"}, grantAll)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Created || result.Commit != otherCommit || result.PreviousBranch != "main" {
		t.Errorf("unexpected result: %+v", result)
	}
	if repo.Head() != "ref: refs/heads/feature/z" {
		t.Errorf("HEAD = %q", repo.Head())
	}
}

func TestCheckoutBranchNotFound(t *testing.T) {
	reg, repo := setupProject(t)

	_, err := CheckoutBranch(reg, "prj", CheckoutBranchOptions{Branch: "absent"}, grantAll)
	if !errors.HasCode(err, errors.BranchNotFound) {
		t.Fatalf("expected BRANCH_NOT_FOUND, got %v", err)
	}
	if repo.Head() != "ref: refs/heads/main" {
		t.Errorf("HEAD changed by failed checkout: %q", repo.Head())
	}
}

func TestCheckoutBranchCreateIfMissing(t *testing.T) {
	reg, repo := setupProject(t)

	result, err := CheckoutBranch(reg, "prj", CheckoutBranchOptions{
		Branch:          "feature/new",
		CreateIfMissing: true,
	}, grantAll)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !result.Created || result.Commit != testutil.MainCommit {
		t.Errorf("unexpected result: %+v", result)
	}
	if got := repo.ReadFile(".git/refs/heads/feature/new"); got != testutil.MainCommit+"\n" {
		t.Errorf("created ref content = %q", got)
	}
	if repo.Head() != "ref: refs/heads/feature/new" {
		t.Errorf("HEAD = %q", repo.Head())
	}
}

func TestCheckoutBranchCreateWithStartPoint(t *testing.T) {
	reg, _ := setupProject(t)

	result, err := CheckoutBranch(reg, "prj", CheckoutBranchOptions{
		Branch:          "pinned",
		CreateIfMissing: true,
		StartPoint:      otherCommit,
	}, grantAll)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if result.Commit != otherCommit {
		t.Errorf("start point ignored: %+v", result)
	}
}

func TestRefOpsRequireHandle(t *testing.T) {
	tiers := store.NewTiers(slogutil.NewDiscardLogger(), store.NewMemoryStore(), store.NewMemoryStore())
	reg := session.NewRegistry(tiers, slogutil.NewDiscardLogger())

	if _, err := ListBranches(reg, "missing", 0); !errors.HasCode(err, errors.NoWritableHandle) {
		t.Errorf("list: expected NO_WRITABLE_HANDLE, got %v", err)
	}
	if _, err := CreateBranch(reg, "missing", CreateBranchOptions{Branch: "x"}, grantAll); !errors.HasCode(err, errors.NoWritableHandle) {
		t.Errorf("create: expected NO_WRITABLE_HANDLE, got %v", err)
	}
	if _, err := CheckoutBranch(reg, "missing", CheckoutBranchOptions{Branch: "x"}, grantAll); !errors.HasCode(err, errors.NoWritableHandle) {
		t.Errorf("checkout: expected NO_WRITABLE_HANDLE, got %v", err)
	}
}

func TestCreateBranchConsentDeclined(t *testing.T) {
	reg, _ := setupProject(t)
	deny := acquire.PrompterFunc(func(string) bool { return false })

	_, err := CreateBranch(reg, "prj", CreateBranchOptions{Branch: "x"}, deny)
	if !errors.HasCode(err, errors.PermissionDenied) {
		t.Errorf("expected PERMISSION_DENIED, got %v", err)
	}
}

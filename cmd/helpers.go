package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"repobridge/internal/acquire"
	"repobridge/internal/config"
	"repobridge/internal/errors"
	"repobridge/internal/session"
	"repobridge/internal/slogutil"
	"repobridge/internal/store"
)

// openRegistry wires the four tiers and the session registry. The returned
// cleanup closes the tiers.
func openRegistry() (*session.Registry, func(), error) {
	logger := slogutil.NewStderrLogger(slogutil.LevelFromString(config.GetLogLevel()))

	stateDir := config.GetStateDir()

	scratch, err := store.NewScratchStoreAt(config.GetScratchDir())
	if err != nil {
		return nil, nil, errors.Wrap(errors.StorageFailed, "failed to open scratch store", err)
	}
	fileStore, err := store.NewFileStore(filepath.Join(stateDir, "state.json"), 0)
	if err != nil {
		return nil, nil, errors.Wrap(errors.StorageFailed, "failed to open file store", err)
	}
	blobStore, err := store.OpenBlobStore(filepath.Join(stateDir, "snapshots.db"))
	if err != nil {
		return nil, nil, errors.Wrap(errors.StorageFailed, "failed to open blob store", err)
	}

	tiers := store.NewTiers(logger, store.NewMemoryStore(), scratch, fileStore, blobStore)
	return session.NewRegistry(tiers, logger), func() { tiers.Close() }, nil
}

// cliPrompter asks for write consent on the terminal, unless consent.auto
// grants it outright.
func cliPrompter() acquire.Prompter {
	return acquire.PrompterFunc(func(root string) bool {
		if config.GetAutoConsent() {
			return true
		}
		fmt.Printf("Allow write access to %s? [y/N] ", root)
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}

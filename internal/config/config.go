// Package config exposes typed getters over the viper-backed configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetMaxFiles returns the snapshot file-count budget.
func GetMaxFiles() int {
	return viper.GetInt("snapshot.max_files")
}

// GetMaxTotalChars returns the snapshot cumulative character budget.
func GetMaxTotalChars() int {
	return viper.GetInt("snapshot.max_total_chars")
}

// GetMaxFileBytes returns the per-file byte budget.
func GetMaxFileBytes() int64 {
	return viper.GetInt64("snapshot.max_file_bytes")
}

// GetContextMaxChars returns the ceiling for a frontend context block.
func GetContextMaxChars() int {
	return viper.GetInt("context.max_chars")
}

// GetDocContextMaxFiles returns the documentation context file budget.
func GetDocContextMaxFiles() int {
	return viper.GetInt("docs.max_files")
}

// GetDocContextFileChars returns the per-file character ceiling for the
// documentation context.
func GetDocContextFileChars() int {
	return viper.GetInt("docs.max_file_chars")
}

// GetDocContextTotalChars returns the total documentation context budget.
func GetDocContextTotalChars() int {
	return viper.GetInt("docs.max_total_chars")
}

// GetDocContextPerRootCap returns how many files a single top-level
// directory may contribute to the documentation context.
func GetDocContextPerRootCap() int {
	return viper.GetInt("docs.per_root_cap")
}

// GetFallbackBranch returns the branch tried last when resolving a source
// commit for branch creation.
func GetFallbackBranch() string {
	return viper.GetString("git.fallback_branch")
}

// GetMaxBranches returns the branch listing cap.
func GetMaxBranches() int {
	return viper.GetInt("git.max_branches")
}

// GetAutoConsent reports whether write-permission prompts are auto-granted.
func GetAutoConsent() bool {
	return viper.GetBool("consent.auto")
}

// GetLogLevel returns the configured log level name.
func GetLogLevel() string {
	return viper.GetString("log.level")
}

// GetScratchDir returns the directory backing the session-scoped tier.
// Falls back to a fixed directory under the OS temp dir.
func GetScratchDir() string {
	if dir := viper.GetString("storage.scratch_dir"); dir != "" {
		return dir
	}
	return filepath.Join(os.TempDir(), "repobridge-session")
}

// GetStateDir returns the directory holding the durable tiers. Falls back
// to ~/.local/state/repobridge when unset.
func GetStateDir() string {
	if dir := viper.GetString("storage.state_dir"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "repobridge")
	}
	return filepath.Join(home, ".local", "state", "repobridge")
}

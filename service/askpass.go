package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yllada/adguardvpn-desktop/common"
)

// AskPassScriptName is the wrapper sudo runs through SUDO_ASKPASS.
const AskPassScriptName = "askpass.sh"

// WriteAskPassScript writes an executable script to dir that runs
// `executable askpass`, and returns its path. sudo only accepts a program
// path in SUDO_ASKPASS, so the subcommand needs a wrapper.
func WriteAskPassScript(dir, executable string) (string, error) {
	if err := common.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("creating askpass directory: %w", err)
	}

	quoted := "'" + strings.ReplaceAll(executable, "'", `'\''`) + "'"
	script := fmt.Sprintf("#!/bin/sh\nexec %s askpass \"$@\"\n", quoted)

	path := filepath.Join(dir, AskPassScriptName)
	if err := os.WriteFile(path, []byte(script), 0700); err != nil {
		return "", fmt.Errorf("writing askpass script: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0700); err != nil {
		return "", fmt.Errorf("writing askpass script: %w", err)
	}
	return path, nil
}

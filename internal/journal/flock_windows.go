//go:build windows

package journal

import "os"

// lockFile is a no-op on Windows; the in-process mutex and the state lock
// serialize writers for a single-user CLI.
func lockFile(_ *os.File) error   { return nil }
func unlockFile(_ *os.File) error { return nil }

package storage

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"seqvault/internal/services"
)

// Preflight verifies that the storage root exists, is a directory, and is
// fully accessible before any relocation begins.
func Preflight(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "storage", "preflight", fmt.Sprintf("storage root %s is not accessible", root), err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrConfiguration, "storage", "preflight", fmt.Sprintf("storage root %s is not a directory", root), nil)
	}
	if err := unix.Access(root, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return services.Wrap(services.ErrConfiguration, "storage", "preflight", fmt.Sprintf("insufficient permissions on storage root %s", root), err)
	}
	return nil
}

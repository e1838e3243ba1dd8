//go:build linux || freebsd || openbsd || netbsd || dragonfly || solaris || android

package dispatch

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// createWritable implements the memory-backed half of spec §4.6.5's
// create_writable/exec contract: an anonymous, executable, close-on-exec
// in-memory file via memfd_create, so the reconstructed variant never
// touches a filesystem path. name is informational only (shows up in
// /proc/<pid>/fd and process listings for debugging), never a real path.
func createWritable(name string, data []byte) (int, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return -1, fmt.Errorf("dispatch: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(len(data))); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("dispatch: ftruncate memfd: %w", err)
	}
	if _, err := unix.Pwrite(fd, data, 0); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("dispatch: writing memfd: %w", err)
	}
	return fd, nil
}

// execHandle execs the fd produced by createWritable via /proc/self/fd,
// the portable way to fexecve an anonymous memfd across the Unix targets
// this build tag covers (Linux's own execveat syscall is not available
// identically on every one of them).
func execHandle(fd int, argv, envp []string) error {
	path := fmt.Sprintf("/proc/self/fd/%d", fd)
	err := unix.Exec(path, argv, envp)
	// unix.Exec only returns on failure; success replaces this process image.
	return fmt.Errorf("dispatch: exec %s: %w", path, err)
}

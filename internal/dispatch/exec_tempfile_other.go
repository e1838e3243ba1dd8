//go:build !(linux || freebsd || openbsd || netbsd || dragonfly || solaris || android)

package dispatch

import (
	"fmt"
	"os"
	"os/exec"
)

// createWritable implements the filesystem-backed half of spec §4.6.5's
// contract for platforms with no memfd_create equivalent (notably Windows
// and Darwin): a uniquely named temp file, marked executable, closed
// before exec. name seeds the temp-file pattern for process-listing
// clarity; cleanup of the temp file is best-effort and out of scope, per
// spec §4.6.5.
func createWritable(name string, data []byte) (int, error) {
	f, err := os.CreateTemp("", name+"-*")
	if err != nil {
		return -1, fmt.Errorf("dispatch: creating temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return -1, fmt.Errorf("dispatch: writing temp file: %w", err)
	}
	if err := f.Chmod(0o755); err != nil {
		f.Close()
		return -1, fmt.Errorf("dispatch: chmod temp file: %w", err)
	}
	fd := int(f.Fd())
	tempFilePaths[fd] = f.Name()
	f.Close()
	return fd, nil
}

// tempFilePaths remembers the path createWritable picked, since the fd
// itself is already closed by the time execHandle runs (Windows cannot
// exec an open-for-write handle the way fexecve would on Unix).
var tempFilePaths = map[int]string{}

// execHandle spawns the reconstructed variant as a child process and waits
// for it, the closest a Go process on a non-memfd platform can get to the
// original's "exec syscall never returns on success": this process exits
// with the child's exit code once it completes.
func execHandle(fd int, argv, envp []string) error {
	path, ok := tempFilePaths[fd]
	if !ok {
		return fmt.Errorf("dispatch: no temp file recorded for fd %d", fd)
	}
	defer os.Remove(path)

	cmd := exec.Command(path, argv[1:]...)
	cmd.Env = envp
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("dispatch: running %s: %w", path, err)
	}
	os.Exit(0)
	return nil
}

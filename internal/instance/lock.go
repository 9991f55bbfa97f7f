// Package instance keeps two gadgets from sharing one geometry namespace.
// Both would restore the same rectangle and the last one to close would win.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"golang.org/x/sys/unix"

	"github.com/1broseidon/tinygadget/internal/paths"
)

// ErrAlreadyRunning is returned when another process holds the namespace.
var ErrAlreadyRunning = errors.New("a gadget with this namespace is already running")

// Lock is an advisory lock on a namespace, released on Release or process exit.
type Lock struct {
	file *os.File
	path string
}

// LockPath returns the runtime lock file for namespace. The runtime
// directory falls back to a per-user temp directory when
// XDG_RUNTIME_DIR is unset.
func LockPath(namespace string) (string, error) {
	path, err := xdg.RuntimeFile(filepath.Join(paths.AppName, namespace+".lock"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve lock path: %w", err)
	}
	return path, nil
}

// Acquire takes the lock for namespace without blocking.
func Acquire(namespace string) (*Lock, error) {
	path, err := LockPath(namespace)
	if err != nil {
		return nil, err
	}
	return acquireAt(path)
}

func acquireAt(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			if pid := readPID(path); pid > 0 {
				return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
			}
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}

	if err := f.Truncate(0); err == nil {
		f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}
	return &Lock{file: f, path: path}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release clears the recorded pid and drops the lock. The file itself stays
// so every process locks the same inode. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.file.Truncate(0)
	err := l.file.Close()
	l.file = nil
	return err
}

func readPID(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

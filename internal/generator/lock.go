package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

type outputLock struct {
	lock *flock.Flock
}

func acquireLock(outputDir string) (*outputLock, error) {
	target := lockPath(outputDir)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("generator: create lock directory: %w", err)
	}

	lock := flock.New(target)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("generator: acquire output lock: %w", err)
	}
	if !locked {
		return nil, ErrBuildLocked
	}
	return &outputLock{lock: lock}, nil
}

func (l *outputLock) release() {
	if l == nil || l.lock == nil {
		return
	}
	_ = l.lock.Unlock()
}

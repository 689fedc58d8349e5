package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileLock_TryLockAndUnlock(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), LogFileName)
	lock := NewFileLock(logPath)

	acquired, err := lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock() failed: %v", err)
	}
	if !acquired {
		t.Fatal("TryLock() should return true when lock is available")
	}
	if !lock.IsLocked() {
		t.Error("IsLocked() should be true after TryLock()")
	}

	// Verify lock file exists next to the log
	if lock.Path() != logPath+".lock" {
		t.Errorf("unexpected lock path: %s", lock.Path())
	}
	if _, err := os.Stat(lock.Path()); os.IsNotExist(err) {
		t.Error("Lock file was not created")
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}
	if lock.IsLocked() {
		t.Error("IsLocked() should be false after Unlock()")
	}
}

func TestFileLock_TryLock_AlreadyHeld(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), LogFileName)

	owner := NewFileLock(logPath)
	if acquired, err := owner.TryLock(); err != nil || !acquired {
		t.Fatalf("first TryLock() = %v, %v", acquired, err)
	}
	defer func() { _ = owner.Unlock() }()

	other := NewFileLock(logPath)
	acquired, err := other.TryLock()
	if err != nil {
		t.Fatalf("second TryLock() failed: %v", err)
	}
	if acquired {
		t.Error("second TryLock() should fail while the lock is held")
	}
}

func TestFileLock_UnlockWithoutLock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), LogFileName))

	// Unlock without TryLock should not error
	if err := lock.Unlock(); err != nil {
		t.Errorf("Unlock() without TryLock() should not error: %v", err)
	}
}

func TestFileLock_CreatesDirectory(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "logs", LogFileName)
	lock := NewFileLock(logPath)

	acquired, err := lock.TryLock()
	if err != nil {
		t.Fatalf("TryLock() failed: %v", err)
	}
	defer func() { _ = lock.Unlock() }()
	if !acquired {
		t.Error("TryLock() should acquire a lock in a new directory")
	}
}

func TestPerProcessPath(t *testing.T) {
	got := perProcessPath("/var/log/craft/main.log", 4242)
	if got != "/var/log/craft/main-4242.log" {
		t.Errorf("perProcessPath() = %s", got)
	}
}

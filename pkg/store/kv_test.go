package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileKVRoundTrip(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	if err := kv.SetItem("wakewalk:daily-outcomes", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	got, err := kv.GetItem("wakewalk:daily-outcomes")
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Errorf("Expected stored value back, got %q", got)
	}
}

func TestFileKVMissingKey(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	got, err := kv.GetItem("never-written")
	if err != nil {
		t.Fatalf("Missing key must not error: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing key, got %q", got)
	}
}

func TestFileKVOverwriteAndRemove(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	if err := kv.SetItem("k", []byte("one")); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := kv.SetItem("k", []byte("two")); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}
	got, _ := kv.GetItem("k")
	if string(got) != "two" {
		t.Errorf("Expected overwritten value, got %q", got)
	}

	if err := kv.RemoveItem("k"); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	got, _ = kv.GetItem("k")
	if got != nil {
		t.Errorf("Expected nil after remove, got %q", got)
	}
	if err := kv.RemoveItem("k"); err != nil {
		t.Errorf("Removing an absent key must not error: %v", err)
	}
}

func TestFileKVSanitizesKeyNames(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}

	if err := kv.SetItem("wakewalk:alarm-settings", []byte("{}")); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "wakewalk_alarm-settings.json")); err != nil {
		t.Errorf("Expected sanitized file name on disk: %v", err)
	}
}

func TestFileKVLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	kv, err := NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV failed: %v", err)
	}
	if err := kv.SetItem("k", []byte("value")); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the key file in the data dir, found %d entries", len(entries))
	}
}

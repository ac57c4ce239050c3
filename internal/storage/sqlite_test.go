package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "paneldeck.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%s): %v", path, err)
	}
	ctx := context.Background()

	if _, ok, err := s.LoadLayout(ctx); ok || err != nil {
		t.Errorf("LoadLayout on fresh db: ok=%v err=%v, expected absent", ok, err)
	}
	if _, ok, err := s.LoadPresets(ctx); ok || err != nil {
		t.Errorf("LoadPresets on fresh db: ok=%v err=%v, expected absent", ok, err)
	}
	if _, ok, err := s.LoadLock(ctx); ok || err != nil {
		t.Errorf("LoadLock on fresh db: ok=%v err=%v, expected absent", ok, err)
	}

	if err := s.SaveLayout(ctx, []byte(`[{"widgetId":"a"}]`)); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	if err := s.SavePresets(ctx, []byte(`{"presets":{}}`)); err != nil {
		t.Fatalf("SavePresets: %v", err)
	}
	if err := s.SaveLock(ctx, true); err != nil {
		t.Fatalf("SaveLock: %v", err)
	}

	// Values survive a reopen.
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	data, ok, err := s.LoadLayout(ctx)
	if err != nil || !ok || string(data) != `[{"widgetId":"a"}]` {
		t.Errorf("LoadLayout after reopen = (%q, %v, %v)", data, ok, err)
	}
	data, ok, err = s.LoadPresets(ctx)
	if err != nil || !ok || string(data) != `{"presets":{}}` {
		t.Errorf("LoadPresets after reopen = (%q, %v, %v)", data, ok, err)
	}
	locked, ok, err := s.LoadLock(ctx)
	if err != nil || !ok || !locked {
		t.Errorf("LoadLock after reopen = (%v, %v, %v), expected (true, true, nil)", locked, ok, err)
	}
}

func TestSQLiteOverwrite(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "paneldeck.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	for _, v := range []string{"one", "two", "three"} {
		if err := s.SaveLayout(ctx, []byte(v)); err != nil {
			t.Fatalf("SaveLayout(%s): %v", v, err)
		}
	}
	data, ok, err := s.LoadLayout(ctx)
	if err != nil || !ok || string(data) != "three" {
		t.Errorf("LoadLayout = (%q, %v, %v), expected latest write", data, ok, err)
	}
}

func TestSQLiteCorruptLockTreatedAbsent(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "paneldeck.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if err := s.set(ctx, keyLock, "definitely-not-a-bool"); err != nil {
		t.Fatalf("set: %v", err)
	}
	locked, ok, err := s.LoadLock(ctx)
	if err != nil {
		t.Fatalf("LoadLock: %v", err)
	}
	if ok || locked {
		t.Errorf("LoadLock on corrupt value = (%v, %v), expected absent", locked, ok)
	}
}

func TestMemoryGateway(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, _ := m.LoadLayout(ctx); ok {
		t.Errorf("LoadLayout on fresh memory gateway: expected absent")
	}
	if err := m.SaveLayout(ctx, []byte("x")); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	data, ok, err := m.LoadLayout(ctx)
	if err != nil || !ok || string(data) != "x" {
		t.Errorf("LoadLayout = (%q, %v, %v)", data, ok, err)
	}

	if err := m.SaveLock(ctx, true); err != nil {
		t.Fatalf("SaveLock: %v", err)
	}
	locked, ok, _ := m.LoadLock(ctx)
	if !ok || !locked {
		t.Errorf("LoadLock = (%v, %v), expected (true, true)", locked, ok)
	}
}

package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s, err := New("memory")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if _, err := s.Get(ctx, SessionKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := s.Set(ctx, SessionKey, []byte(`{"started":true}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := s.Get(ctx, SessionKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `{"started":true}` {
		t.Fatalf("unexpected value: %s", value)
	}

	if err := s.Delete(ctx, SessionKey); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, SessionKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s, err := New("memory")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	original := []byte("abc")
	if err := s.Set(ctx, ChatKey, original); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	original[0] = 'x'

	value, err := s.Get(ctx, ChatKey)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != "abc" {
		t.Fatalf("stored value was aliased: %s", value)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New("redis"); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig without a client, got %v", err)
	}
	if _, err := New("etcd"); !errors.Is(err, ErrInvalidDriver) {
		t.Fatalf("expected ErrInvalidDriver, got %v", err)
	}
}

package dedupe

import (
	"testing"
	"time"
)

func TestSeen(t *testing.T) {
	s := NewStore(1 * time.Hour)

	if s.Seen("wamid.1") {
		t.Error("expected first sighting to report false")
	}
	if !s.Seen("wamid.1") {
		t.Error("expected second sighting to report true")
	}
	if s.Seen("wamid.2") {
		t.Error("expected a different ID to report false")
	}
}

func TestSeenExpires(t *testing.T) {
	s := NewStore(10 * time.Millisecond)

	s.Seen("wamid.1")
	time.Sleep(20 * time.Millisecond)

	if s.Seen("wamid.1") {
		t.Error("expected expired ID to report false")
	}
}

func TestCleanup(t *testing.T) {
	s := NewStore(10 * time.Millisecond)

	s.Seen("wamid.old")
	time.Sleep(20 * time.Millisecond)
	s.Seen("wamid.new")

	s.cleanup()

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.seen["wamid.old"]; ok {
		t.Error("expected expired ID to be removed")
	}
	if _, ok := s.seen["wamid.new"]; !ok {
		t.Error("expected fresh ID to be kept")
	}
}

package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dropDatabas3/moim/internal/domain/repository"
)

func TestCreateGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Create(ctx, repository.User{
		StableID:    "id-1",
		Handle:      "kim",
		DisplayName: "Kim",
		Email:       "kim@example.com",
		Provider:    repository.ProviderLocal,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}

	byID, err := s.GetByStableID(ctx, "id-1")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	byHandle, err := s.GetByHandle(ctx, "KIM") // handle lookup is case-insensitive
	if err != nil {
		t.Fatalf("get by handle: %v", err)
	}
	if byID.StableID != byHandle.StableID {
		t.Fatal("lookups disagree")
	}
}

func TestUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.Create(ctx, repository.User{StableID: "id-1", Handle: "kim"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, repository.User{StableID: "id-1", Handle: "other"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate stable id: err = %v, want ErrConflict", err)
	}
	if _, err := s.Create(ctx, repository.User{StableID: "id-2", Handle: "kim"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate handle: err = %v, want ErrConflict", err)
	}
}

func TestUpdate_HandleCollision(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, _ = s.Create(ctx, repository.User{StableID: "id-1", Handle: "kim"})
	_, _ = s.Create(ctx, repository.User{StableID: "id-2", Handle: "lee"})

	taken := "kim"
	if _, err := s.Update(ctx, "id-2", repository.UpdateUserInput{Handle: &taken}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}

	// Re-asserting your own handle is not a collision.
	own := "lee"
	if _, err := s.Update(ctx, "id-2", repository.UpdateUserInput{Handle: &own}); err != nil {
		t.Fatalf("self-handle update: %v", err)
	}
}

func TestUpdate_PartialPatch(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, _ = s.Create(ctx, repository.User{
		StableID: "id-1", Handle: "kim", DisplayName: "Kim", Email: "a@b.com",
	})

	email := "c@d.com"
	got, err := s.Update(ctx, "id-1", repository.UpdateUserInput{Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Email != "c@d.com" {
		t.Fatalf("email = %q", got.Email)
	}
	if got.Handle != "kim" || got.DisplayName != "Kim" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestDelete_FreesHandle(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, _ = s.Create(ctx, repository.User{StableID: "id-1", Handle: "kim"})
	if err := s.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "id-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
	if _, err := s.Create(ctx, repository.User{StableID: "id-2", Handle: "kim"}); err != nil {
		t.Fatalf("handle should be reusable after delete: %v", err)
	}
}

func TestConcurrentCreate_SameHandle(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Create(ctx, repository.User{
				StableID: "id-" + string(rune('a'+i)),
				Handle:   "contested",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
}

func TestCascadeCounters(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Buckets().(*bucketRepo).Add("id-1", 3)
	s.Messages().(*messageRepo).Add("id-1", "id-2", 2)

	n, err := s.Buckets().DeleteByOwner(ctx, "id-1")
	if err != nil || n != 3 {
		t.Fatalf("buckets: n=%d err=%v", n, err)
	}
	n, err = s.Messages().DeleteBySender(ctx, "id-1")
	if err != nil || n != 2 {
		t.Fatalf("sent messages: n=%d err=%v", n, err)
	}
	n, err = s.Messages().DeleteByReceiver(ctx, "id-2")
	if err != nil || n != 2 {
		t.Fatalf("received messages: n=%d err=%v", n, err)
	}
}

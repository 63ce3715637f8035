package links

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/models"
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// fakeStore is an in-memory Store double for exercising the allocator,
// including insert-time races the real database would produce.
type fakeStore struct {
	mu               sync.Mutex
	codes            map[string]bool
	existsCalls      int
	insertCalls      int
	alwaysInUse      bool
	conflictOnInsert int
	insertErr        error
}

func newFakeStore() *fakeStore {
	return &fakeStore{codes: make(map[string]bool)}
}

func (s *fakeStore) CodeInUse(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existsCalls++
	if s.alwaysInUse {
		return true, nil
	}
	return s.codes[code], nil
}

func (s *fakeStore) Insert(ctx context.Context, link *models.Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.insertErr != nil {
		return s.insertErr
	}
	if s.conflictOnInsert > 0 {
		s.conflictOnInsert--
		return ErrCodeTaken
	}
	if s.codes[link.ShortCode] {
		return ErrCodeTaken
	}
	s.codes[link.ShortCode] = true
	return nil
}

func TestRandomCodeProperties(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := randomCode()
		require.NoError(t, err)
		assert.True(t, codePattern.MatchString(code), "code %q should be 6 chars of [A-Za-z0-9]", code)
	}
}

func TestAllocateAssignsCode(t *testing.T) {
	store := newFakeStore()
	allocator := NewAllocator(store)

	link := &models.Link{UserID: 1, Name: "Example", OriginalURL: "https://example.com"}
	err := allocator.Allocate(context.Background(), link)

	require.NoError(t, err)
	assert.True(t, codePattern.MatchString(link.ShortCode))
	assert.True(t, store.codes[link.ShortCode], "link should be persisted under its code")
	assert.Equal(t, 1, store.insertCalls)
}

func TestAllocateRetriesAfterInsertConflict(t *testing.T) {
	// The existence check reports the code free, but the insert hits the
	// unique index anyway: another request claimed it in between. The
	// allocator must treat that exactly like a collision and retry.
	store := newFakeStore()
	store.conflictOnInsert = 2
	allocator := NewAllocator(store)

	link := &models.Link{UserID: 1, Name: "Example", OriginalURL: "https://example.com"}
	err := allocator.Allocate(context.Background(), link)

	require.NoError(t, err)
	assert.Equal(t, 3, store.insertCalls, "two conflicted inserts plus the successful one")
	assert.True(t, codePattern.MatchString(link.ShortCode))
}

func TestAllocateExhaustedWhenEveryCodeTaken(t *testing.T) {
	store := newFakeStore()
	store.alwaysInUse = true
	allocator := NewAllocator(store)

	link := &models.Link{UserID: 1, Name: "Example", OriginalURL: "https://example.com"}
	err := allocator.Allocate(context.Background(), link)

	require.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, maxAllocateAttempts, store.existsCalls, "allocator must stop after its retry budget")
	assert.Zero(t, store.insertCalls, "no insert should be attempted while every code reads as taken")
}

func TestAllocatePropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("disk I/O error")
	allocator := NewAllocator(store)

	link := &models.Link{UserID: 1, Name: "Example", OriginalURL: "https://example.com"}
	err := allocator.Allocate(context.Background(), link)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, 1, store.insertCalls, "a non-conflict store error must not be retried")
}

func TestConcurrentAllocationsProduceDistinctCodes(t *testing.T) {
	const n = 50

	store := newFakeStore()
	allocator := NewAllocator(store)

	var wg sync.WaitGroup
	errs := make([]error, n)
	codes := make([]string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link := &models.Link{UserID: uint(i + 1), Name: "Example", OriginalURL: "https://example.com"}
			errs[i] = allocator.Allocate(context.Background(), link)
			codes[i] = link.ShortCode
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.True(t, codePattern.MatchString(codes[i]))
		assert.False(t, seen[codes[i]], "code %q allocated twice", codes[i])
		seen[codes[i]] = true
	}
	assert.Len(t, store.codes, n)
}

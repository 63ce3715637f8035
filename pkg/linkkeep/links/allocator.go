package links

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/metrics"
	"github.com/codexshetty/LinkKeep-backend/pkg/linkkeep/models"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 6

	// With a 62^6 keyspace the collision probability stays negligible
	// until the table is extremely large, so a small budget is plenty.
	maxAllocateAttempts = 10
)

// Store is the persistence contract the allocator needs: an existence
// check and an insert that reports ErrCodeTaken when the unique index on
// short_code rejects the row.
type Store interface {
	CodeInUse(ctx context.Context, code string) (bool, error)
	Insert(ctx context.Context, link *models.Link) error
}

// Allocator assigns a unique short code to new links.
type Allocator struct {
	store Store
}

// NewAllocator creates an allocator backed by the given store.
func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store}
}

// Allocate draws random codes until one inserts cleanly, then persists
// the link with that code set. The existence check is only a fast path:
// another request may claim the same code between the check and the
// insert, so the store's unique index is the authoritative guard and an
// insert-time conflict is retried like any other collision.
func (a *Allocator) Allocate(ctx context.Context, link *models.Link) error {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return err
		}

		taken, err := a.store.CodeInUse(ctx, code)
		if err != nil {
			return err
		}
		if taken {
			metrics.CodeCollisions.Inc()
			continue
		}

		link.ShortCode = code
		err = a.store.Insert(ctx, link)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrCodeTaken) {
			// Lost the race between check and insert.
			metrics.CodeCollisions.Inc()
			continue
		}
		return err
	}

	return ErrAllocationExhausted
}

func randomCode() (string, error) {
	b := make([]byte, codeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

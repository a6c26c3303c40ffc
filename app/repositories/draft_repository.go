package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
)

var ErrDraftNotFound = errors.New("booking draft not found")

// DraftRepository keeps open booking drafts. Drafts not touched within the
// repository's TTL are gone.
type DraftRepository interface {
	Get(ctx context.Context, id string) (entities.Draft, error)
	Save(ctx context.Context, draft entities.Draft) error
	Delete(ctx context.Context, id string) error
	DeleteByOwner(ctx context.Context, owner string) (int, error)
}

// ==========================================
// IN-MEMORY
// ==========================================

type memoryDraftRepository struct {
	mu     sync.RWMutex
	drafts map[string]entities.Draft
	ttl    time.Duration
	now    func() time.Time
}

func NewMemoryDraftRepository(ttl time.Duration) DraftRepository {
	return &memoryDraftRepository{
		drafts: make(map[string]entities.Draft),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (r *memoryDraftRepository) expired(d entities.Draft) bool {
	return r.ttl > 0 && r.now().Sub(d.UpdatedAt) > r.ttl
}

func (r *memoryDraftRepository) Get(_ context.Context, id string) (entities.Draft, error) {
	r.mu.RLock()
	d, ok := r.drafts[id]
	r.mu.RUnlock()

	if !ok {
		return entities.Draft{}, ErrDraftNotFound
	}
	if r.expired(d) {
		r.mu.Lock()
		delete(r.drafts, id)
		r.mu.Unlock()
		return entities.Draft{}, ErrDraftNotFound
	}
	return d.Clone(), nil
}

func (r *memoryDraftRepository) Save(_ context.Context, draft entities.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, d := range r.drafts {
		if r.expired(d) {
			delete(r.drafts, id)
		}
	}
	r.drafts[draft.ID] = draft.Clone()
	return nil
}

func (r *memoryDraftRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, id)
	return nil
}

func (r *memoryDraftRepository) DeleteByOwner(_ context.Context, owner string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, d := range r.drafts {
		if d.Owner == owner {
			delete(r.drafts, id)
			removed++
		}
	}
	return removed, nil
}

// ==========================================
// REDIS
// ==========================================

type redisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftRepository stores drafts as JSON under "draft:<id>" and keeps a
// per-owner index set so logout can drop them.
func NewRedisDraftRepository(client *redis.Client, ttl time.Duration) DraftRepository {
	return &redisDraftRepository{client: client, ttl: ttl}
}

func draftKey(id string) string { return "draft:" + id }
func ownerKey(owner string) string { return "draft-owner:" + owner }

func (r *redisDraftRepository) Get(ctx context.Context, id string) (entities.Draft, error) {
	var d entities.Draft

	raw, err := r.client.Get(ctx, draftKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return d, ErrDraftNotFound
	}
	if err != nil {
		return d, fmt.Errorf("redis get draft %s: %w", id, err)
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

func (r *redisDraftRepository) Save(ctx context.Context, draft entities.Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", draft.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, draftKey(draft.ID), raw, r.ttl)
	pipe.SAdd(ctx, ownerKey(draft.Owner), draft.ID)
	if r.ttl > 0 {
		pipe.Expire(ctx, ownerKey(draft.Owner), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save draft %s: %w", draft.ID, err)
	}
	return nil
}

func (r *redisDraftRepository) Delete(ctx context.Context, id string) error {
	d, err := r.Get(ctx, id)
	if errors.Is(err, ErrDraftNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, draftKey(id))
	pipe.SRem(ctx, ownerKey(d.Owner), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisDraftRepository) DeleteByOwner(ctx context.Context, owner string) (int, error) {
	ids, err := r.client.SMembers(ctx, ownerKey(owner)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis list drafts of %s: %w", owner, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, draftKey(id))
	}
	keys = append(keys, ownerKey(owner))

	removed, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, err
	}
	// the owner set itself is one of the deleted keys
	if removed > 0 {
		removed--
	}
	return int(removed), nil
}

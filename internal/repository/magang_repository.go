package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

// ErrDuplicateApplicant is returned when an NRP has already applied.
var ErrDuplicateApplicant = appErrors.New("DUPLICATE_APPLICANT", http.StatusConflict, "this NRP has already applied")

// MemoryMagangRepository keeps applicants in process memory.
type MemoryMagangRepository struct {
	mu         sync.RWMutex
	applicants []models.MagangApplicant
	nrps       map[string]struct{}
}

// NewMemoryMagangRepository constructs an empty store.
func NewMemoryMagangRepository() *MemoryMagangRepository {
	return &MemoryMagangRepository{nrps: make(map[string]struct{})}
}

// Create appends the applicant unless the NRP was seen before.
func (r *MemoryMagangRepository) Create(_ context.Context, a models.MagangApplicant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nrps[a.NRP]; ok {
		return ErrDuplicateApplicant
	}
	r.nrps[a.NRP] = struct{}{}
	r.applicants = append(r.applicants, a)
	return nil
}

// List returns applicants in submission order.
func (r *MemoryMagangRepository) List(_ context.Context) ([]models.MagangApplicant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.MagangApplicant, len(r.applicants))
	copy(out, r.applicants)
	return out, nil
}

const (
	magangListKey = "magang:applicants"
	magangNRPKey  = "magang:nrp"
)

// RedisMagangRepository stores applicants as a Redis list guarded by a set of NRPs.
type RedisMagangRepository struct {
	client *redis.Client
}

// NewRedisMagangRepository constructs the Redis-backed store.
func NewRedisMagangRepository(client *redis.Client) *RedisMagangRepository {
	return &RedisMagangRepository{client: client}
}

// Create records the applicant. SADD doubles as the uniqueness check.
func (r *RedisMagangRepository) Create(ctx context.Context, a models.MagangApplicant) error {
	added, err := r.client.SAdd(ctx, magangNRPKey, a.NRP).Result()
	if err != nil {
		return fmt.Errorf("redis sadd %s: %w", magangNRPKey, err)
	}
	if added == 0 {
		return ErrDuplicateApplicant
	}
	payload, err := json.Marshal(a)
	if err != nil {
		_ = r.client.SRem(ctx, magangNRPKey, a.NRP).Err()
		return fmt.Errorf("marshal applicant: %w", err)
	}
	if err := r.client.RPush(ctx, magangListKey, payload).Err(); err != nil {
		_ = r.client.SRem(ctx, magangNRPKey, a.NRP).Err()
		return fmt.Errorf("redis rpush %s: %w", magangListKey, err)
	}
	return nil
}

// List returns applicants in submission order.
func (r *RedisMagangRepository) List(ctx context.Context) ([]models.MagangApplicant, error) {
	raw, err := r.client.LRange(ctx, magangListKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange %s: %w", magangListKey, err)
	}
	out := make([]models.MagangApplicant, 0, len(raw))
	for _, item := range raw {
		var a models.MagangApplicant
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			return nil, fmt.Errorf("decode applicant: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

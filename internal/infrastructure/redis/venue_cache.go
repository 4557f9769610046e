package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-venue-booking/internal/domain/venue"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// cachedVenue はキャッシュに保存する会場の表現
type cachedVenue struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Address     string     `json:"address"`
	Published   bool       `json:"published"`
	Seats       *int       `json:"seats,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func (c cachedVenue) toEntity() *venue.Venue {
	return &venue.Venue{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Address:     c.Address,
		Published:   c.Published,
		Seats:       c.Seats,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		DeletedAt:   c.DeletedAt,
	}
}

// VenueCache は会場の読み取りキャッシュを管理する
type VenueCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewVenueCache は新しいVenueCacheインスタンスを作成する
func NewVenueCache(client *redis.Client, ttl time.Duration) *VenueCache {
	return &VenueCache{client: client, ttl: ttl}
}

// Get は会場をキャッシュから取得する
func (c *VenueCache) Get(ctx context.Context, id uint64) (*venue.Venue, error) {
	data, err := c.client.Get(ctx, venueKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}

	var cached cachedVenue
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("キャッシュの復元に失敗: %w", err)
	}
	return cached.toEntity(), nil
}

// Set は会場をキャッシュに保存する
func (c *VenueCache) Set(ctx context.Context, v *venue.Venue) error {
	data, err := json.Marshal(cachedVenue{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Address:     v.Address,
		Published:   v.Published,
		Seats:       v.Seats,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		DeletedAt:   v.DeletedAt,
	})
	if err != nil {
		return fmt.Errorf("キャッシュの変換に失敗: %w", err)
	}
	if err := c.client.Set(ctx, venueKey(v.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は会場のキャッシュを無効化する
func (c *VenueCache) Invalidate(ctx context.Context, id uint64) error {
	if err := c.client.Del(ctx, venueKey(id)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

// IsMiss はキャッシュミスを表すエラーかを返す
func (c *VenueCache) IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

func venueKey(id uint64) string {
	return "venues:" + strconv.FormatUint(id, 10)
}

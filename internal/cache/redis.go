package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/tripbooking/config"
	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache holds flight search results per route. Seat counts read from it
// are advisory; bookings always re-read flights under lock.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

// GetRouteFlights returns nil, nil on a cache miss.
func (c *RedisCache) GetRouteFlights(ctx context.Context, fromCity, toCity string) ([]domain.Flight, error) {
	data, err := c.client.Get(ctx, routeKey(fromCity, toCity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetRouteFlights(ctx context.Context, fromCity, toCity string, flights []domain.Flight) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, routeKey(fromCity, toCity), payload, c.flightsTTL).Err()
}

func (c *RedisCache) InvalidateRoutes(ctx context.Context, flights []domain.Flight) error {
	if len(flights) == 0 {
		return nil
	}
	keys := make([]string, 0, len(flights))
	for _, f := range flights {
		keys = append(keys, routeKey(f.FromCity, f.ToCity))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func routeKey(fromCity, toCity string) string {
	return fmt.Sprintf("cache:flights:%s:%s", fromCity, toCity)
}

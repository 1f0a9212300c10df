package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Open returns the backend named by location:
//
//	""  or "none"                 caching disabled
//	"/path" or "file:///path"     FileCache
//	"redis://host:6379/0"         RedisCache
//	"mongodb://host:27017/db"     MongoCache (database from the path)
func Open(ctx context.Context, location string) (Cache, error) {
	switch {
	case location == "" || location == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err := NewRedisCache(ctx, location)
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parse mongodb url: %w", err)
		}
		c, err := NewMongoCache(ctx, location, strings.Trim(u.Path, "/"), "")
		if err != nil {
			return nil, err
		}
		return c, nil
	case strings.Contains(location, "://") && !strings.HasPrefix(location, "file://"):
		return nil, fmt.Errorf("unsupported cache location %q", location)
	}
	c, err := NewFileCache(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, err
	}
	return c, nil
}

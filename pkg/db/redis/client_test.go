package redis_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbredis "recetario/pkg/db/redis"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	t.Run("connects to running server", func(t *testing.T) {
		s := miniredis.RunT(t)

		host, portStr, _ := strings.Cut(s.Addr(), ":")
		port, err := strconv.Atoi(portStr)
		require.NoError(t, err)

		cfg := dbredis.DefaultConfig()
		cfg.Host = host
		cfg.Port = port

		client, err := dbredis.NewClient(ctx, cfg)
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
		got, err := s.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("fails when server is unavailable", func(t *testing.T) {
		cfg := &dbredis.Config{
			Host:           "127.0.0.1",
			Port:           1,
			ConnectTimeout: 100 * time.Millisecond,
			ReadTimeout:    100 * time.Millisecond,
			WriteTimeout:   100 * time.Millisecond,
		}

		client, err := dbredis.NewClient(ctx, cfg)
		require.Error(t, err)
		assert.Nil(t, client)
		assert.Contains(t, err.Error(), dbredis.ErrConnect)
	})
}

package utils_test

import (
	"context"
	"testing"
	"time"

	"notifyrelay/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestHealthMonitorFirstPassIsImmediate(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A client pointed at a closed port fails its ping fast; the monitor
	// must still record the snapshot.
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(50*time.Millisecond))
	require.NoError(t, err)

	utils.StartHealthMonitor(ctx, nil, client, func(context.Context) bool { return true }, time.Second)

	require.Eventually(t, func() bool {
		return !utils.GetHealthStatus().CheckedAt.IsZero()
	}, 2*time.Second, 20*time.Millisecond, "first snapshot must not wait for the first tick")

	snap := utils.GetHealthStatus()
	assert.True(t, snap.Notifier)
	assert.False(t, snap.Mongo)
	assert.Empty(t, snap.Redis)
}

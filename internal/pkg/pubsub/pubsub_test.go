package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestPublishSubscribe(t *testing.T) {
	client := setupRedis(t)

	pub := NewPublisher(client)
	sub := NewSubscriber(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *ProgressMessage, 1)
	go func() {
		_ = sub.Subscribe(ctx, func(msg *ProgressMessage) {
			received <- msg
		})
	}()

	// 等待订阅建立
	time.Sleep(100 * time.Millisecond)

	err := pub.PublishProgress(ctx, &ProgressMessage{
		UserID: 1,
		JobID:  42,
		Status: "processing",
		Step:   StepGenerating,
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "job_progress", msg.Type)
		assert.Equal(t, int64(42), msg.JobID)
		assert.Equal(t, StepGenerating, msg.Step)
		assert.Equal(t, StepProgress[StepGenerating], msg.Progress)
		assert.Equal(t, StepMessages[StepGenerating], msg.Message)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for progress message")
	}
}

func TestPublishProgressFillsDefaults(t *testing.T) {
	client := setupRedis(t)
	pub := NewPublisher(client)

	msg := &ProgressMessage{UserID: 1, JobID: 1, Step: StepDone}
	err := pub.PublishProgress(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, 100, msg.Progress)
	assert.Equal(t, "Generation completed", msg.Message)
}

func TestPublishProgressKeepsExplicitValues(t *testing.T) {
	client := setupRedis(t)
	pub := NewPublisher(client)

	msg := &ProgressMessage{
		UserID:   1,
		JobID:    1,
		Step:     StepGenerating,
		Progress: 66,
		Message:  "custom",
	}
	err := pub.PublishProgress(context.Background(), msg)
	require.NoError(t, err)

	assert.Equal(t, 66, msg.Progress)
	assert.Equal(t, "custom", msg.Message)
}

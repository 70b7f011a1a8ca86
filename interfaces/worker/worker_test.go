package worker

import (
	"context"
	stderrors "errors"
	"testing"

	catalogapp "shop-backend/application/catalog"
	"shop-backend/application/ports"
	"shop-backend/application/ports/mocks"
	sqsmq "shop-backend/infrastructure/messaging/sqs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestBatchFunc(t *testing.T) {
	valid := []ports.QueueMessage{{ID: "1", Body: []byte(`{"title":"Lamp","price":2,"count":1}`)}}

	t.Run("done", func(t *testing.T) {
		store := new(mocks.MockCatalogStore)
		notifier := new(mocks.MockNotifier)
		store.On("Commit", mock.Anything, mock.Anything).Return(nil)
		notifier.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)
		fn := BatchFunc(catalogapp.NewCoordinator(store, notifier, nil, 0, zap.NewNop(), nil, nil), zap.NewNop())

		assert.NoError(t, fn(context.Background(), valid))
	})

	t.Run("rejected", func(t *testing.T) {
		fn := BatchFunc(catalogapp.NewCoordinator(new(mocks.MockCatalogStore), new(mocks.MockNotifier), nil, 0, zap.NewNop(), nil, nil), zap.NewNop())

		assert.NoError(t, fn(context.Background(), []ports.QueueMessage{{ID: "1", Body: []byte(`{}`)}}))
	})

	t.Run("publish failure", func(t *testing.T) {
		store := new(mocks.MockCatalogStore)
		notifier := new(mocks.MockNotifier)
		store.On("Commit", mock.Anything, mock.Anything).Return(nil)
		notifier.On("PublishBatch", mock.Anything, mock.Anything).Return(stderrors.New("throttled"))
		fn := BatchFunc(catalogapp.NewCoordinator(store, notifier, nil, 0, zap.NewNop(), nil, nil), zap.NewNop())

		err := fn(context.Background(), valid)
		assert.ErrorContains(t, err, "throttled")
	})
}

func TestPollerRunner_StopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	runner := NewPollerRunner(sqsmq.NewPoller(nil, "queue", 10, zap.NewNop()), func(context.Context, []ports.QueueMessage) error {
		called = true
		return nil
	})

	assert.NoError(t, runner.Run(ctx))
	assert.False(t, called)
}

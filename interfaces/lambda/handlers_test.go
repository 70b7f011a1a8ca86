package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"
	"testing"

	catalogapp "shop-backend/application/catalog"
	"shop-backend/application/ingest"
	"shop-backend/application/ports/mocks"
	"shop-backend/pkg/auth"
	"shop-backend/pkg/errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProducer(t *testing.T, blobs *mocks.MockBlobStore, queue *mocks.MockBatchQueue) *ingest.Producer {
	t.Helper()
	p, err := ingest.NewProducer(blobs, queue, ingest.ProducerConfig{BatchSize: 5}, zap.NewNop(), nil, nil)
	require.NoError(t, err)
	return p
}

func s3Event(t *testing.T, keys ...string) events.S3Event {
	t.Helper()
	records := make([]map[string]interface{}, 0, len(keys))
	for _, k := range keys {
		records = append(records, map[string]interface{}{
			"s3": map[string]interface{}{
				"bucket": map[string]interface{}{"name": "imports"},
				"object": map[string]interface{}{"key": k},
			},
		})
	}
	raw, err := json.Marshal(map[string]interface{}{"Records": records})
	require.NoError(t, err)

	var event events.S3Event
	require.NoError(t, json.Unmarshal(raw, &event))
	return event
}

func TestS3Handler_ProcessesDecodedKey(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	queue := new(mocks.MockBatchQueue)
	blobs.On("Get", mock.Anything, "imports", "uploaded/spring sale.csv").
		Return(io.NopCloser(strings.NewReader("title,price,count\nLamp,1,2\n")), nil)
	blobs.On("Copy", mock.Anything, "imports", "uploaded/spring sale.csv", "parsed/spring sale.csv").Return(nil)
	blobs.On("Delete", mock.Anything, "imports", "uploaded/spring sale.csv").Return(nil)
	queue.On("SendBatch", mock.Anything, mock.MatchedBy(func(b [][]byte) bool { return len(b) == 1 })).Return(nil)

	handler := NewS3Handler(newProducer(t, blobs, queue), nil, zap.NewNop())

	err := handler.Handle(context.Background(), s3Event(t, "uploaded/spring+sale.csv"))

	require.NoError(t, err)
	blobs.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestS3Handler_SkipsForeignAndMissing(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	queue := new(mocks.MockBatchQueue)
	blobs.On("Get", mock.Anything, "imports", "uploaded/gone.csv").Return(nil, errors.NewNotFoundError("Object"))

	handler := NewS3Handler(newProducer(t, blobs, queue), nil, zap.NewNop())

	err := handler.Handle(context.Background(), s3Event(t, "parsed/done.csv", "uploaded/gone.csv"))

	require.NoError(t, err)
	queue.AssertNotCalled(t, "SendBatch", mock.Anything, mock.Anything)
}

func TestS3Handler_ReturnsFailures(t *testing.T) {
	blobs := new(mocks.MockBlobStore)
	queue := new(mocks.MockBatchQueue)
	blobs.On("Get", mock.Anything, "imports", "uploaded/a.csv").Return(nil, stderrors.New("access denied"))

	handler := NewS3Handler(newProducer(t, blobs, queue), nil, zap.NewNop())

	err := handler.Handle(context.Background(), s3Event(t, "uploaded/a.csv"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "imports/uploaded/a.csv")
}

func sqsEvent(bodies ...string) events.SQSEvent {
	var event events.SQSEvent
	for i, b := range bodies {
		event.Records = append(event.Records, events.SQSMessage{MessageId: string(rune('a' + i)), Body: b})
	}
	return event
}

func newCoordinator(store *mocks.MockCatalogStore, notifier *mocks.MockNotifier) *catalogapp.Coordinator {
	return catalogapp.NewCoordinator(store, notifier, nil, 0, zap.NewNop(), nil, nil)
}

func TestSQSHandler_Outcomes(t *testing.T) {
	t.Run("created batch is acknowledged", func(t *testing.T) {
		store := new(mocks.MockCatalogStore)
		notifier := new(mocks.MockNotifier)
		store.On("Commit", mock.Anything, mock.Anything).Return(nil)
		notifier.On("PublishBatch", mock.Anything, mock.Anything).Return(nil)

		err := NewSQSHandler(newCoordinator(store, notifier), nil, zap.NewNop()).
			Handle(context.Background(), sqsEvent(`{"title":"Lamp","price":"3","count":"1"}`))

		assert.NoError(t, err)
		store.AssertNumberOfCalls(t, "Commit", 1)
	})

	t.Run("all invalid is acknowledged", func(t *testing.T) {
		store := new(mocks.MockCatalogStore)
		notifier := new(mocks.MockNotifier)

		err := NewSQSHandler(newCoordinator(store, notifier), nil, zap.NewNop()).
			Handle(context.Background(), sqsEvent(`{"title":""}`, `garbage`))

		assert.NoError(t, err)
		store.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
	})

	t.Run("commit failure is redelivered", func(t *testing.T) {
		store := new(mocks.MockCatalogStore)
		notifier := new(mocks.MockNotifier)
		store.On("Commit", mock.Anything, mock.Anything).Return(stderrors.New("conditional check failed"))

		err := NewSQSHandler(newCoordinator(store, notifier), nil, zap.NewNop()).
			Handle(context.Background(), sqsEvent(`{"title":"Lamp","price":3,"count":1}`))

		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeStoreTransaction))
		notifier.AssertNotCalled(t, "PublishBatch", mock.Anything, mock.Anything)
	})
}

func TestMessages(t *testing.T) {
	msgs := Messages(sqsEvent(`{"a":1}`, `{"b":2}`))

	require.Len(t, msgs, 2)
	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, `{"b":2}`, string(msgs[1].Body))
}

func TestAuthorizerHandler(t *testing.T) {
	handler := NewAuthorizerHandler(auth.NewBasicChecker("admin=TEST_PASSWORD"), zap.NewNop())
	arn := "arn:aws:execute-api:eu-west-1:123:api/dev/GET/import"
	token := func(creds string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
	}

	tests := []struct {
		name   string
		req    events.APIGatewayCustomAuthorizerRequest
		effect string
	}{
		{name: "valid", req: events.APIGatewayCustomAuthorizerRequest{Type: "TOKEN", AuthorizationToken: token("admin:TEST_PASSWORD"), MethodArn: arn}, effect: "Allow"},
		{name: "wrong password", req: events.APIGatewayCustomAuthorizerRequest{Type: "TOKEN", AuthorizationToken: token("admin:nope"), MethodArn: arn}, effect: "Deny"},
		{name: "missing token", req: events.APIGatewayCustomAuthorizerRequest{Type: "TOKEN", MethodArn: arn}, effect: "Deny"},
		{name: "wrong type", req: events.APIGatewayCustomAuthorizerRequest{Type: "REQUEST", AuthorizationToken: token("admin:TEST_PASSWORD"), MethodArn: arn}, effect: "Deny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := handler.Handle(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, "user", resp.PrincipalID)
			assert.Equal(t, tt.effect, resp.PolicyDocument.Statement[0].Effect)
			assert.Equal(t, []string{arn}, resp.PolicyDocument.Statement[0].Resource)
		})
	}
}

func TestAuthorizerHandler_NoCredentialsConfigured(t *testing.T) {
	handler := NewAuthorizerHandler(auth.NewBasicChecker(""), zap.NewNop())

	resp, err := handler.Handle(context.Background(), events.APIGatewayCustomAuthorizerRequest{
		Type: "TOKEN", AuthorizationToken: "Basic YTpi", MethodArn: "arn",
	})

	require.NoError(t, err)
	assert.Equal(t, "Deny", resp.PolicyDocument.Statement[0].Effect)
}

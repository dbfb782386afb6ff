package reviewRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestNewMongoReviewRepo_IndexFailureIsReturned(t *testing.T) {
	client, err := mongo.Connect(context.Background(), options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100*time.Millisecond))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	repo, err := NewMongoReviewRepo(client.Database("caretrust_test"))
	require.Error(t, err)
	assert.Nil(t, repo)
}

package incidentRepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func unreachableDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(100 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client.Database("caretrust_test")
}

func TestNewMongoIncidentRepo_IndexFailureIsReturned(t *testing.T) {
	repo, err := NewMongoIncidentRepo(unreachableDatabase(t))
	require.Error(t, err)
	assert.Nil(t, repo)
	assert.Contains(t, err.Error(), "failed to create incident indexes")
}

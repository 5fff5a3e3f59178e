package mongostore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConn_ReleaseWithoutOwnershipIsNoop(t *testing.T) {
	c := &Conn{}
	assert.NoError(t, c.Release(context.Background()))
}

func TestClientOptions_DefaultTimeout(t *testing.T) {
	opts := clientOptions(Config{URI: "mongodb://127.0.0.1:27017"})

	if assert.NotNil(t, opts.ServerSelectionTimeout) {
		assert.Equal(t, "5s", opts.ServerSelectionTimeout.String())
	}
}

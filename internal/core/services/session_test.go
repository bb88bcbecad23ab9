package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_ResetReleasesEverything(t *testing.T) {
	display := NewMockDisplayStore()
	v, session := newViewer(&MockDocumentStore{}, display)

	_, err := v.Open(context.Background(), "42", "Doc 42")
	require.NoError(t, err)
	assert.Equal(t, "42", session.DocumentID())
	assert.Equal(t, 1, display.Live())
	before := session.Generation()

	require.NoError(t, session.Reset())

	assert.Empty(t, session.DocumentID())
	assert.Nil(t, session.Analysis())
	assert.Equal(t, 0, display.Live())
	assert.Greater(t, session.Generation(), before)
}

func TestSession_ResetTwiceReleasesOnce(t *testing.T) {
	display := NewMockDisplayStore()
	v, session := newViewer(&MockDocumentStore{}, display)
	_, err := v.Open(context.Background(), "42", "Doc 42")
	require.NoError(t, err)

	require.NoError(t, session.Reset())
	require.NoError(t, session.Reset())

	assert.Len(t, display.Released(), 1)
}

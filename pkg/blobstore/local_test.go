package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveAndOpen(t *testing.T) {
	store, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Save(ctx, PurposeBids, "proposal.PDF", strings.NewReader("%PDF-1.4 content"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, "bids/"))
	require.True(t, strings.HasSuffix(path, ".pdf"), "extension is preserved lowercased")

	reader, err := store.Open(ctx, path)
	require.NoError(t, err)
	payload, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.NoError(t, reader.Close())
	require.Equal(t, "%PDF-1.4 content", string(payload))
}

func TestStoreNamesNeverCollide(t *testing.T) {
	store, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Save(ctx, PurposeBids, "proposal.pdf", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := store.Save(ctx, PurposeBids, "proposal.pdf", strings.NewReader("two"))
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestStoreOpenRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "../etc/passwd")
	require.Error(t, err)

	_, err = store.Open(context.Background(), "/etc/passwd")
	require.Error(t, err)
}

func TestStoreOpenMissingFile(t *testing.T) {
	store, err := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "bids/missing.pdf")
	require.Error(t, err)
}

package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/logging"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadService_Download(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	gate := &fakeGate{}
	s := NewDownloadService(repos.Downloads, gate, prefixResolver{}, logging.NewNop())

	public, err := models.NewDownloadItem("Pack", "Minecraft", "https://example.com/pack.zip")
	require.NoError(t, err)
	public, err = repos.Downloads.Add(ctx, public)
	require.NoError(t, err)

	vipOnly, err := models.NewDownloadItem("Secret", "Minecraft", "s3://downloads/secret.zip")
	require.NoError(t, err)
	vipOnly.IsVipOnly = true
	vipOnly, err = repos.Downloads.Add(ctx, vipOnly)
	require.NoError(t, err)

	hidden, err := models.NewDownloadItem("Hidden", "Minecraft", "https://example.com/h.zip")
	require.NoError(t, err)
	hidden.IsVisible = false
	hidden, err = repos.Downloads.Add(ctx, hidden)
	require.NoError(t, err)

	url, err := s.Download(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved:https://example.com/pack.zip", url)

	got, err := repos.Downloads.Get(ctx, public.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.DownloadCount)

	_, err = s.Download(ctx, vipOnly.ID)
	assert.ErrorIs(t, err, common.ErrVipRequired)

	gate.vip = true
	url, err = s.Download(ctx, vipOnly.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved:s3://downloads/secret.zip", url)

	_, err = s.Download(ctx, hidden.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = s.Download(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDownloadService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	s := NewDownloadService(repos.Downloads, &fakeGate{}, prefixResolver{}, logging.NewNop())

	for _, c := range []string{"Minecraft", "Streaming"} {
		d, err := models.NewDownloadItem(c+" pack", c, "https://example.com/"+c)
		require.NoError(t, err)
		_, err = repos.Downloads.Add(ctx, d)
		require.NoError(t, err)
	}

	assert.Len(t, s.List(ctx), 2)
	got := s.Search(ctx, "pack", "Streaming")
	require.Len(t, got, 1)
	assert.Equal(t, "Streaming pack", got[0].Title)
}

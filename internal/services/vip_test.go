package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/qfvjug/internal/common"
	"github.com/dmitrijs2005/qfvjug/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVipService(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	gate := &fakeGate{}
	s := NewVipService(repos.VipContent, gate, prefixResolver{})

	item, err := models.NewVipContentItem("Early access", "Next episode")
	require.NoError(t, err)
	item.DownloadURL = "s3://downloads/early.mp4"
	item, err = repos.VipContent.Add(ctx, item)
	require.NoError(t, err)

	_, err = s.Content(ctx)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = s.Download(ctx, item.ID)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	gate.vip = true
	content, err := s.Content(ctx)
	require.NoError(t, err)
	require.Len(t, content, 1)
	assert.Equal(t, "Early access", content[0].Title)

	url, err := s.Download(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "resolved:s3://downloads/early.mp4", url)

	_, err = s.Download(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferError(t *testing.T) {
	err := &TransferError{URL: "https://cdn.example.com/ep.mp3", StatusCode: 404}
	assert.Equal(t, "transfer failed for https://cdn.example.com/ep.mp3: status 404", err.Error())
	assert.True(t, IsTransferFailed(fmt.Errorf("episode 3: %w", err)))
	assert.False(t, IsFeedFetchFailed(err))

	netErr := &TransferError{URL: "https://cdn.example.com/ep.mp3", Err: context.DeadlineExceeded}
	assert.Contains(t, netErr.Error(), "deadline exceeded")
	assert.True(t, errors.Is(netErr, context.DeadlineExceeded))
}

func TestFeedFetchError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &FeedFetchError{URL: "https://example.com/feed.xml", Err: cause}

	assert.True(t, IsFeedFetchFailed(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "https://example.com/feed.xml")
}

func TestFolderCreateError(t *testing.T) {
	err := &FolderCreateError{Path: "/root/forbidden", Err: errors.New("permission denied")}

	assert.True(t, IsFolderCreateFailed(err))
	assert.False(t, IsTransferFailed(err))
	assert.Equal(t, "failed to create download folder /root/forbidden: permission denied", err.Error())
}

func TestIsEmptySelection(t *testing.T) {
	assert.True(t, IsEmptySelection(ErrEmptySelection))
	assert.True(t, IsEmptySelection(fmt.Errorf("select last: %w", ErrEmptySelection)))
	assert.False(t, IsEmptySelection(errors.New("other")))
}

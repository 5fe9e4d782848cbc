package domain

import (
	"errors"
	"fmt"
)

// ErrEmptySelection is returned when "first" or "last" is requested against an empty feed
var ErrEmptySelection = errors.New("empty selection: feed has no entries")

// TransferError reports a failed transfer of a single episode
type TransferError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

// Error implements the error interface
func (e *TransferError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transfer failed for %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("transfer failed for %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *TransferError) Unwrap() error {
	return e.Err
}

// FeedFetchError reports a feed that could not be retrieved or parsed
type FeedFetchError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *FeedFetchError) Error() string {
	return fmt.Sprintf("failed to fetch feed %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *FeedFetchError) Unwrap() error {
	return e.Err
}

// FolderCreateError reports a destination folder that could not be created
type FolderCreateError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *FolderCreateError) Error() string {
	return fmt.Sprintf("failed to create download folder %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *FolderCreateError) Unwrap() error {
	return e.Err
}

// IsEmptySelection checks if an error is an empty selection
func IsEmptySelection(err error) bool {
	return errors.Is(err, ErrEmptySelection)
}

// IsTransferFailed checks if an error is a TransferError
func IsTransferFailed(err error) bool {
	var transferErr *TransferError
	return errors.As(err, &transferErr)
}

// IsFeedFetchFailed checks if an error is a FeedFetchError
func IsFeedFetchFailed(err error) bool {
	var fetchErr *FeedFetchError
	return errors.As(err, &fetchErr)
}

// IsFolderCreateFailed checks if an error is a FolderCreateError
func IsFolderCreateFailed(err error) bool {
	var folderErr *FolderCreateError
	return errors.As(err, &folderErr)
}

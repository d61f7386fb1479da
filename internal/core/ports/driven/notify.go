package driven

import "github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"

// FileWatcher surfaces filesystem changes as domain events.
type FileWatcher interface {
	// Add starts watching a directory tree.
	Add(path string) error

	// Events returns the event channel. The channel is closed when the
	// watcher is closed; consumers should range over it.
	Events() <-chan domain.FileEvent

	// Close stops watching and closes the event channel.
	Close() error
}

package notify

import (
	"github.com/glyphmint/glyphmint/service/messaging/fs"
	"github.com/glyphmint/glyphmint/service/messaging/memory"
)

type Option func(s *Service)

// WithNewFsQueueConfig sets the filesystem queue configuration factory; name
// identifies the per type queue.
func WithNewFsQueueConfig(newConfig func(name string) fs.QueueConfig) Option {
	return func(s *Service) {
		s.fsNewQueueConfig = newConfig
	}
}

// WithNewMemoryQueueConfig sets the memory queue configuration factory.
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}

package repository

import "os"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileName overrides the published document name.
func WithFileName(name string) Option {
	return func(s *FileStore) {
		if name != "" {
			s.fileName = name
		}
	}
}

// WithIndent sets the JSON indentation; empty writes compact JSON.
func WithIndent(indent string) Option {
	return func(s *FileStore) {
		s.indent = indent
	}
}

// WithFileMode sets the permissions of the published document.
func WithFileMode(perm os.FileMode) Option {
	return func(s *FileStore) {
		if perm != 0 {
			s.perm = perm
		}
	}
}

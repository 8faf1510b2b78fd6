package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     string
	}{
		{"file:// URI is converted to local path", "file:///srv/docs/file.txt", "/srv/docs/file.txt"},
		{"file:// URI with spaces", "file:///srv/my docs/file.txt", "/srv/my docs/file.txt"},
		{"bare path passes through", "/srv/docs", "/srv/docs"},
		{"relative path is cleaned", "./docs/../corpus/", "corpus"},
		{"tilde expands to home", "~/corpus", "/home/ana/corpus"},
		{"bare tilde", "~", "/home/ana"},
		{"surrounding whitespace trimmed", "  /srv/docs  ", "/srv/docs"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.location, "/home/ana"))
		})
	}
}

func TestResolvePath_NoHome(t *testing.T) {
	assert.Equal(t, "~/corpus", ResolvePath("~/corpus", ""))
}

package filesystem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"notes.txt", "text/plain"},
		{"README", "text/plain"},
		{"guide.md", "text/markdown"},
		{"GUIDE.MD", "text/markdown"},
		{"index.html", "text/html"},
		{"index.htm", "text/html"},
		{"main.go", "text/x-go"},
		{"config.yml", "text/yaml"},
		{"blob.unknownext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, detectMIMEType(tt.path))
		})
	}
}

func TestIsHidden(t *testing.T) {
	assert.True(t, isHidden(".env"))
	assert.True(t, isHidden(".git/config"))
	assert.True(t, isHidden("docs/.draft/a.txt"))
	assert.False(t, isHidden("docs/a.txt"))
	assert.False(t, isHidden("./docs/a.txt"))
	assert.False(t, isHidden("../docs/a.txt"))
	assert.False(t, isHidden("file.with.dots.txt"))
}

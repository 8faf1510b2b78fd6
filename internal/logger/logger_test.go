package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestVerboseLevels(t *testing.T) {
	buf := capture(t, true)

	Debug("query %q", "sdlc")
	Info("indexed %d segments", 3)
	Warn("persist failed: %s", "disk")
	Section("Retrieval")

	assert.Equal(t,
		"[DEBUG] query \"sdlc\"\n[INFO] indexed 3 segments\n[WARN] persist failed: disk\n\n=== Retrieval ===\n",
		buf.String())
}

func TestQuietWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Debug("a")
	Info("b")
	Warn("c")
	Section("d")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("completion failed: %v", "timeout")

	assert.Equal(t, "[ERROR] completion failed: timeout\n", buf.String())
}

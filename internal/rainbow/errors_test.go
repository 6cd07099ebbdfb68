package rainbow

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := NewIOError("open wordlist", "/tmp/words.txt", fs.ErrNotExist)
	assert.Equal(t, "IO_ERROR: open wordlist /tmp/words.txt: file does not exist", err.Error())

	dec := NewDecodeError("words.txt", 7, errors.New("invalid UTF-8"))
	assert.Equal(t, "DECODE_ERROR: decode line words.txt:7: invalid UTF-8", dec.Error())

	cfg := NewConfigError("validate chain", errors.New("iterations must be >= 1, got 0"))
	assert.Equal(t, "CONFIG_ERROR: validate chain: iterations must be >= 1, got 0", cfg.Error())

	lineOnly := &Error{Code: ErrCodeDecode, Op: "decode line", Line: 3}
	assert.Equal(t, "DECODE_ERROR: decode line (line 3)", lineOnly.Error())
}

func TestError_Unwrap(t *testing.T) {
	err := NewIOError("read wordlist", "w.txt", fs.ErrPermission)
	assert.True(t, errors.Is(err, fs.ErrPermission))
}

func TestError_Predicates(t *testing.T) {
	cfg := NewConfigError("validate", nil)
	dec := NewDecodeError("w", 1, nil)
	ioe := NewIOError("open", "w", nil)
	sink := NewSinkUnavailable("out.db", nil)

	assert.True(t, IsConfigError(cfg))
	assert.True(t, IsDecodeError(dec))
	assert.True(t, IsIOError(ioe))
	assert.True(t, IsSinkUnavailable(sink))

	assert.False(t, IsConfigError(dec))
	assert.False(t, IsIOError(errors.New("plain")))

	assert.True(t, IsFatal(cfg))
	assert.True(t, IsFatal(sink))
	assert.False(t, IsFatal(dec))
	assert.False(t, IsFatal(ioe))
	assert.False(t, IsFatal(nil))
}

func TestError_WrappedPredicates(t *testing.T) {
	wrapped := fmt.Errorf("generate: %w", NewSinkUnavailable("out.db", errors.New("disk full")))
	assert.True(t, IsSinkUnavailable(wrapped))
	assert.Equal(t, ErrCodeSinkUnavailable, CodeOf(wrapped))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("other")))
}

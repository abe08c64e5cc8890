package util

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrFileTooLarge is returned by ReadTextFile when a file exceeds the limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// ReadTextFile reads a file of at most maxBytes bytes (0 means unlimited)
// and decodes it with DecodeText.
func ReadTextFile(path string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, info.Size(), maxBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeText(data)
}

// DecodeText converts UTF-16 input with a byte order mark to UTF-8 and strips
// a UTF-8 BOM. Input without a BOM is returned unchanged.
func DecodeText(data []byte) ([]byte, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, fmt.Errorf("decoding text: %w", err)
	}
	return decoded, nil
}

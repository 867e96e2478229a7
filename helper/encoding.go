package helper

import (
	"bytes"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadDecodedFile reads a text file and returns its content as UTF-8.
// See DecodeText for the accepted encodings.
func ReadDecodedFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, NewError("read file", err)
	}

	decoded, err := DecodeText(raw)
	if err != nil {
		return nil, NewError("decode "+path, err)
	}

	return decoded, nil
}

// DecodeText converts raw bytes to UTF-8. UTF-8 and UTF-16 input is
// recognized by its byte order mark, BOM-less valid UTF-8 is returned
// unchanged, and anything else is decoded as Windows-1252.
func DecodeText(raw []byte) ([]byte, error) {
	if bytes.HasPrefix(raw, bomUTF8) || bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE) {
		out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	if utf8.Valid(raw) {
		return raw, nil
	}

	out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
	if err != nil {
		return nil, err
	}
	return out, nil
}

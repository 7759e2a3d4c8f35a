package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"diffscope/internal/errors"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// ReadPatch returns the diff text in path, or in stdin when path is empty
// or "-". zstd and gzip input is decompressed transparently.
func ReadPatch(path string, stdin io.Reader) (string, error) {
	var r io.Reader = stdin
	name := "stdin"
	if path != "" && path != "-" {
		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.NotFound(fmt.Sprintf("patch file %s does not exist", path), err)
			}
			return "", fmt.Errorf("opening patch: %w", err)
		}
		defer file.Close()
		r, name = file, path
	}

	text, err := readMaybeCompressed(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}
	return text, nil
}

func readMaybeCompressed(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return "", err
	}

	var content []byte
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return "", fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		content, err = io.ReadAll(dec)
		if err != nil {
			return "", fmt.Errorf("decompressing zstd: %w", err)
		}
	case bytes.HasPrefix(head, gzipMagic):
		gz, err := gzip.NewReader(br)
		if err != nil {
			return "", fmt.Errorf("creating gzip reader: %w", err)
		}
		defer gz.Close()
		content, err = io.ReadAll(gz)
		if err != nil {
			return "", fmt.Errorf("decompressing gzip: %w", err)
		}
	default:
		content, err = io.ReadAll(br)
		if err != nil {
			return "", err
		}
	}
	return string(content), nil
}

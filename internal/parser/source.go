package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DefaultMaxLineBytes bounds a single log line.
const DefaultMaxLineBytes = 1 << 20

var errLineTooLong = errors.New("line too long")

// lineSource lazily yields raw lines split on '\n'. It is single-pass.
type lineSource struct {
	sc    *bufio.Scanner
	cr    *countingReader
	n     int
	err   error
	start bool
}

func newLineSource(r io.Reader, maxLine int) *lineSource {
	if maxLine <= 0 {
		maxLine = DefaultMaxLineBytes
	}
	cr := &countingReader{r: r}
	sc := bufio.NewScanner(cr)
	// The scanner's limit covers the terminator as well as the line.
	limit := maxLine + 1
	initial := min(64<<10, limit)
	sc.Buffer(make([]byte, 0, initial), limit)
	sc.Split(scanLF)
	return &lineSource{sc: sc, cr: cr}
}

// Lines yields (lineNumber, raw) pairs. The raw slice is only valid until
// the next iteration.
func (s *lineSource) Lines() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		if s.start {
			return
		}
		s.start = true
		for s.sc.Scan() {
			s.n++
			if !yield(s.n, s.sc.Bytes()) {
				return
			}
		}
		if err := s.sc.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = errLineTooLong
			}
			s.err = err
		}
	}
}

// Err returns the error that stopped iteration, if any.
func (s *lineSource) Err() error { return s.err }

// Bytes returns how many bytes have been pulled from the underlying reader.
func (s *lineSource) Bytes() int64 { return s.cr.n }

// scanLF splits on '\n' only. A final unterminated line is returned.
func scanLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// openLog opens path and transparently decompresses zstd or gzip content,
// detected by magic bytes.
func openLog(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	magic, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(magic, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return &stackedCloser{Reader: dec, closers: []func() error{func() error { dec.Close(); return nil }, f.Close}}, nil
	case bytes.HasPrefix(magic, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &stackedCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	default:
		return &stackedCloser{Reader: br, closers: []func() error{f.Close}}, nil
	}
}

type stackedCloser struct {
	io.Reader
	closers []func() error
}

func (s *stackedCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

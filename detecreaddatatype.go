package axiomfp

import (
	"bufio"
	"compress/bzip2"
	"compress/zlib"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/pgzip"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
)

func (d DataType) String() string {
	switch d {
	case DataTypeNoCompression:
		return "plain"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	}
	return "invalid"
}

var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
}

// DetectDataType inspects the leading bytes of a buffered stream without
// consuming them. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectDataType(r *bufio.Reader) (DataType, error) {
	buff, err := r.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// OpenMaybeCompressed opens path and, if its magic bytes indicate a known
// compression format, returns a reader over the decompressed stream. Closing
// the returned ReadCloser closes the underlying file.
func OpenMaybeCompressed(path string) (io.ReadCloser, DataType, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, DataTypeInvalid, err
	}

	rc, dt, err := maybeDecompress(f)
	if err != nil {
		f.Close()
		return nil, dt, fmt.Errorf("%s: %w", path, err)
	}

	return rc, dt, nil
}

func maybeDecompress(f *os.File) (io.ReadCloser, DataType, error) {
	br := bufio.NewReader(f)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, dt, err
	}

	switch dt {
	case DataTypeGzip:
		gz, err := pgzip.NewReader(br)
		if err != nil {
			return nil, dt, err
		}
		return &stackedReadCloser{Reader: gz, closers: []io.Closer{gz, f}}, dt, nil
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		// Only the first entry of an archive is read.
		if _, err := zr.Next(); err != nil {
			return nil, dt, err
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{f}}, dt, nil
	case DataTypeBZip2:
		return &stackedReadCloser{Reader: bzip2.NewReader(br), closers: []io.Closer{f}}, dt, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, err
		}
		return &stackedReadCloser{Reader: reader, closers: []io.Closer{f}}, dt, nil
	case DataTypeZ:
		zl, err := zlib.NewReader(br)
		if err != nil {
			return nil, dt, err
		}
		return &stackedReadCloser{Reader: zl, closers: []io.Closer{zl, f}}, dt, nil
	}

	// No data type detected. For now, we assume this is uncompressed.
	return &stackedReadCloser{Reader: br, closers: []io.Closer{f}}, dt, nil
}

// stackedReadCloser reads from the outermost decoder and closes every layer
// beneath it, innermost last.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (c *stackedReadCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

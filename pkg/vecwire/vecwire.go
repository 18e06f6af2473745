// Package vecwire encodes vectors of fixed-width primitives into checksummed
// binary frames.
//
// Frame layout:
//
//	"AV" | version | kind | flags | varint count | payload | crc32
//
// kind is the reflect.Kind of the element type, the payload is count
// little-endian elements (zstd-compressed when FlagZstd is set) and the CRC32
// (IEEE, little-endian) covers every byte after the magic.
package vecwire

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"reflect"
	"slices"
	"unsafe"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/rawbytedev/arrayvec"
	"github.com/rawbytedev/arrayvec/internal/common"
)

// Version is the frame version written by Encode.
const Version = 1

// FlagZstd marks a zstd-compressed payload.
const FlagZstd byte = 1 << 0

const (
	magic0, magic1 = 'A', 'V'
	headerSize     = 5
	crcSize        = 4

	// maxDecoded bounds the zstd window; no vector holds more than this.
	maxDecoded = 64 << 20
)

var (
	ErrMagic     = errors.New("vecwire: bad magic")
	ErrVersion   = errors.New("vecwire: unsupported version")
	ErrFlags     = errors.New("vecwire: unknown flags")
	ErrKind      = errors.New("vecwire: element kind mismatch")
	ErrChecksum  = errors.New("vecwire: crc mismatch")
	ErrTruncated = errors.New("vecwire: truncated frame")
	ErrInvalid   = errors.New("vecwire: invalid element encoding")
)

// Fixed is the set of element types vecwire can encode.
type Fixed interface {
	~bool | ~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Options control encoding.
type Options struct {
	// Compress zstd-compresses the payload.
	Compress bool
	// UnsafePrimitives copies element memory directly on little-endian hosts
	// instead of converting element by element.
	UnsafePrimitives bool
}

// Codec encodes and decodes frames, reusing its buffers and zstd state
// between calls. A Codec is not safe for concurrent use.
type Codec struct {
	Opts Options

	buf []byte
	raw []byte
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec returns a Codec using opts.
func NewCodec(opts Options) *Codec {
	return &Codec{Opts: opts}
}

// Close releases the zstd encoder and decoder, if they were created.
func (c *Codec) Close() error {
	var err error
	if c.enc != nil {
		err = c.enc.Close()
		c.enc = nil
	}
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
	return err
}

// Encode writes the live elements of v as a frame. The returned bytes are
// owned by c and valid until its next Encode.
func Encode[T Fixed](c *Codec, v arrayvec.SliceVec[T]) ([]byte, error) {
	kind, width := layout[T]()
	s := v.Slice()

	var payload []byte
	switch {
	case kind == reflect.Bool:
		c.raw = c.raw[:0]
		for i := range s {
			if *(*bool)(unsafe.Pointer(&s[i])) {
				c.raw = append(c.raw, 1)
			} else {
				c.raw = append(c.raw, 0)
			}
		}
		payload = c.raw
	case c.Opts.UnsafePrimitives && common.LittleEndian:
		payload = common.Bytes(s, width)
	default:
		c.raw = common.AppendFixed(c.raw[:0], s, width)
		payload = c.raw
	}

	var flags byte
	if c.Opts.Compress {
		enc, err := c.encoder()
		if err != nil {
			return nil, err
		}
		c.raw = enc.EncodeAll(payload, c.raw[len(c.raw):len(c.raw)])
		payload = c.raw
		flags |= FlagZstd
	}

	c.buf = append(c.buf[:0], magic0, magic1, Version, byte(kind), flags)
	c.buf = common.WriteVarUint(c.buf, uint64(len(s)))
	c.buf = append(c.buf, payload...)
	c.buf = binary.LittleEndian.AppendUint32(c.buf, crc32.ChecksumIEEE(c.buf[2:]))
	return c.buf, nil
}

// Decode appends the elements of a frame to dst. Either every element is
// appended or dst is left unchanged; a frame with more elements than dst has
// free slots fails with arrayvec.ErrCapacity.
func Decode[T Fixed](c *Codec, data []byte, dst arrayvec.SliceVec[T]) error {
	kind, width := layout[T]()
	if len(data) < headerSize+1+crcSize {
		return ErrTruncated
	}
	if data[0] != magic0 || data[1] != magic1 {
		return ErrMagic
	}
	if data[2] != Version {
		return errors.Wrapf(ErrVersion, "version %d", data[2])
	}
	if data[3] != byte(kind) {
		return errors.Wrapf(ErrKind, "frame holds %v, want %v", reflect.Kind(data[3]), kind)
	}
	end := len(data) - crcSize
	if crc32.ChecksumIEEE(data[2:end]) != binary.LittleEndian.Uint32(data[end:]) {
		return ErrChecksum
	}
	flags := data[4]
	if flags&^FlagZstd != 0 {
		return errors.Wrapf(ErrFlags, "flags %#x", flags)
	}
	count, n := common.ReadVarUint(data[headerSize:end])
	if n == 0 {
		return errors.Wrap(ErrTruncated, "element count")
	}
	if free := dst.Remaining(); count > uint64(free) {
		return errors.Wrapf(arrayvec.ErrCapacity, "vecwire: frame holds %d elements, %d slots free", count, free)
	}
	want := int(count) * width
	payload := data[headerSize+n : end]
	if flags&FlagZstd != 0 && len(payload) > 0 {
		raw, err := c.decompress(payload, want)
		if err != nil {
			return err
		}
		payload = raw
	}
	if len(payload) != want {
		return errors.Wrapf(ErrTruncated, "payload is %d bytes, want %d", len(payload), want)
	}

	spare := dst.Spare()[:count]
	switch {
	case kind == reflect.Bool:
		for _, b := range payload {
			if b > 1 {
				return errors.Wrapf(ErrInvalid, "bool byte %#x", b)
			}
		}
		for i, b := range payload {
			*(*bool)(unsafe.Pointer(&spare[i])) = b == 1
		}
	case c.Opts.UnsafePrimitives && common.LittleEndian:
		copy(common.Bytes(spare, width), payload)
	default:
		common.ReadFixed(spare, payload, width)
	}
	dst.SetLen(dst.Len() + int(count))
	return nil
}

func layout[T Fixed]() (reflect.Kind, int) {
	k := reflect.TypeFor[T]().Kind()
	return k, common.FixedSize(k)
}

func (c *Codec) encoder() (*zstd.Encoder, error) {
	if c.enc == nil {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, errors.Wrap(err, "vecwire: zstd encoder")
		}
		c.enc = enc
	}
	return c.enc, nil
}

// decompress inflates a zstd payload that must hold exactly want bytes. It
// stops reading one byte past want, so a forged frame cannot inflate further.
func (c *Codec) decompress(payload []byte, want int) ([]byte, error) {
	dec, err := c.decoder()
	if err != nil {
		return nil, err
	}
	defer dec.Reset(nil)
	if err := dec.Reset(bytes.NewReader(payload)); err != nil {
		return nil, errors.Wrap(err, "vecwire: decompress")
	}
	c.raw = slices.Grow(c.raw[:0], want)[:want]
	if got, err := io.ReadFull(dec, c.raw); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(ErrTruncated, "payload is %d bytes, want %d", got, want)
		}
		return nil, errors.Wrap(err, "vecwire: decompress")
	}
	var extra [1]byte
	switch _, err := io.ReadFull(dec, extra[:]); {
	case err == nil:
		return nil, errors.Wrapf(ErrTruncated, "payload is longer than %d bytes", want)
	case err != io.EOF:
		return nil, errors.Wrap(err, "vecwire: decompress")
	}
	return c.raw, nil
}

func (c *Codec) decoder() (*zstd.Decoder, error) {
	if c.dec == nil {
		dec, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderMaxMemory(maxDecoded))
		if err != nil {
			return nil, errors.Wrap(err, "vecwire: zstd decoder")
		}
		c.dec = dec
	}
	return c.dec, nil
}

package scale

import (
	"encoding/binary"
	"errors"
	"math/big"
)

var (
	// ErrTruncated input ends before the value is complete
	ErrTruncated = errors.New("truncated scale input")
	// ErrInvalidBool boolean byte is neither 0 nor 1
	ErrInvalidBool = errors.New("invalid boolean byte")
	// ErrInvalidOption option marker byte is neither 0 nor 1
	ErrInvalidOption = errors.New("invalid option marker byte")
)

// Decodeable is implemented by values that can consume their canonical encoding.
type Decodeable interface {
	DecodeScale(dec *Decoder) error
}

// Decoder reads canonically encoded values from a byte slice.
type Decoder struct {
	data []byte
	pos  int
}

// NewDecoder creates a decoder over data
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Offset returns the number of bytes consumed so far
func (d *Decoder) Offset() int {
	return d.pos
}

// Remaining returns the number of bytes not yet consumed
func (d *Decoder) Remaining() int {
	return len(d.data) - d.pos
}

// Read consumes and returns the next n bytes
func (d *Decoder) Read(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, ErrTruncated
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// DecodeUint8 reads a single byte
func (d *Decoder) DecodeUint8() (uint8, error) {
	b, err := d.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// DecodeUint16 reads a fixed-width little-endian u16
func (d *Decoder) DecodeUint16() (uint16, error) {
	b, err := d.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// DecodeUint32 reads a fixed-width little-endian u32
func (d *Decoder) DecodeUint32() (uint32, error) {
	b, err := d.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// DecodeUint64 reads a fixed-width little-endian u64
func (d *Decoder) DecodeUint64() (uint64, error) {
	b, err := d.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// DecodeUint128 reads a fixed-width little-endian u128
func (d *Decoder) DecodeUint128() (*big.Int, error) {
	b, err := d.Read(16)
	if err != nil {
		return nil, err
	}
	be := make([]byte, 16)
	for i := range b {
		be[15-i] = b[i]
	}
	return new(big.Int).SetBytes(be), nil
}

// DecodeBool reads a boolean byte
func (d *Decoder) DecodeBool() (bool, error) {
	b, err := d.DecodeUint8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

// DecodeCompact reads a compact encoded integer fitting an uint64
func (d *Decoder) DecodeCompact() (uint64, error) {
	v, err := d.DecodeBigCompact()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, ErrCompactTooLarge
	}
	return v.Uint64(), nil
}

// DecodeBigCompact reads a compact encoded integer of arbitrary width
func (d *Decoder) DecodeBigCompact() (*big.Int, error) {
	first, err := d.DecodeUint8()
	if err != nil {
		return nil, err
	}
	switch first & 0b11 {
	case 0b00:
		return new(big.Int).SetUint64(uint64(first >> 2)), nil
	case 0b01:
		second, err := d.DecodeUint8()
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetUint64(uint64(first)>>2 | uint64(second)<<6), nil
	case 0b10:
		rest, err := d.Read(3)
		if err != nil {
			return nil, err
		}
		v := uint64(first) | uint64(rest[0])<<8 | uint64(rest[1])<<16 | uint64(rest[2])<<24
		return new(big.Int).SetUint64(v >> 2), nil
	default:
		numBytes := int(first>>2) + 4
		raw, err := d.Read(numBytes)
		if err != nil {
			return nil, err
		}
		be := make([]byte, numBytes)
		for i := range raw {
			be[numBytes-1-i] = raw[i]
		}
		return new(big.Int).SetBytes(be), nil
	}
}

// DecodeBytes reads a compact length prefix and that many bytes
func (d *Decoder) DecodeBytes() ([]byte, error) {
	length, err := d.DecodeCompact()
	if err != nil {
		return nil, err
	}
	if length > uint64(d.Remaining()) {
		return nil, ErrTruncated
	}
	return d.Read(int(length))
}

// DecodeOption reads an option marker and, when Some, decodes into value.
// The returned bool reports whether the value was present.
func (d *Decoder) DecodeOption(value Decodeable) (bool, error) {
	marker, err := d.DecodeUint8()
	if err != nil {
		return false, err
	}
	switch marker {
	case 0:
		return false, nil
	case 1:
		return true, value.DecodeScale(d)
	default:
		return false, ErrInvalidOption
	}
}

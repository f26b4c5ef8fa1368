// Package scale implements the canonical little-endian value codec used for
// extrinsic payloads, storage keys and event records. Identical logical values
// always encode to identical bytes.
package scale

import (
	"encoding/binary"
	"errors"
	"io"
	"math/big"
)

var (
	// ErrCompactTooLarge compact value exceeds 2^536-1
	ErrCompactTooLarge = errors.New("compact value too large")
	// ErrNegativeCompact compact encoding is defined for unsigned values only
	ErrNegativeCompact = errors.New("cannot compact encode negative value")
)

// Encodeable is implemented by values that know their canonical encoding.
type Encodeable interface {
	EncodeScale(enc *Encoder) error
}

// Encoder writes canonically encoded values to an underlying writer.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates an encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Write writes raw bytes unmodified
func (e *Encoder) Write(b []byte) error {
	_, err := e.w.Write(b)
	return err
}

// EncodeUint8 writes a single byte
func (e *Encoder) EncodeUint8(v uint8) error {
	return e.Write([]byte{v})
}

// EncodeUint16 writes a fixed-width little-endian u16
func (e *Encoder) EncodeUint16(v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	return e.Write(buf[:])
}

// EncodeUint32 writes a fixed-width little-endian u32
func (e *Encoder) EncodeUint32(v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return e.Write(buf[:])
}

// EncodeUint64 writes a fixed-width little-endian u64
func (e *Encoder) EncodeUint64(v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return e.Write(buf[:])
}

// EncodeUint128 writes a fixed-width little-endian u128
func (e *Encoder) EncodeUint128(v *big.Int) error {
	if v.Sign() < 0 {
		return ErrNegativeCompact
	}
	var buf [16]byte
	vb := v.Bytes() // big endian
	if len(vb) > 16 {
		return ErrCompactTooLarge
	}
	for i, b := range vb {
		buf[len(vb)-1-i] = b
	}
	return e.Write(buf[:])
}

// EncodeBool writes a boolean as one byte
func (e *Encoder) EncodeBool(v bool) error {
	if v {
		return e.EncodeUint8(1)
	}
	return e.EncodeUint8(0)
}

// EncodeCompact writes v in compact integer encoding
func (e *Encoder) EncodeCompact(v uint64) error {
	switch {
	case v < 1<<6:
		return e.EncodeUint8(uint8(v) << 2)
	case v < 1<<14:
		return e.EncodeUint16(uint16(v)<<2 | 0b01)
	case v < 1<<30:
		return e.EncodeUint32(uint32(v)<<2 | 0b10)
	default:
		return e.EncodeBigCompact(new(big.Int).SetUint64(v))
	}
}

// EncodeBigCompact writes an arbitrary-precision unsigned value in
// compact integer encoding
func (e *Encoder) EncodeBigCompact(v *big.Int) error {
	if v.Sign() < 0 {
		return ErrNegativeCompact
	}
	if v.IsUint64() && v.Uint64() < 1<<30 {
		return e.EncodeCompact(v.Uint64())
	}
	numBytes := (v.BitLen() + 7) / 8
	if numBytes > 67 {
		return ErrCompactTooLarge
	}
	if err := e.EncodeUint8(uint8(numBytes-4)<<2 | 0b11); err != nil {
		return err
	}
	buf := make([]byte, numBytes)
	vb := v.Bytes()
	for i, b := range vb {
		buf[len(vb)-1-i] = b
	}
	return e.Write(buf)
}

// EncodeBytes writes a compact length prefix followed by the bytes
func (e *Encoder) EncodeBytes(b []byte) error {
	if err := e.EncodeCompact(uint64(len(b))); err != nil {
		return err
	}
	return e.Write(b)
}

// EncodeOption writes an Option. A nil value encodes as None,
// otherwise one byte Some marker followed by the value encoding.
func (e *Encoder) EncodeOption(value Encodeable) error {
	if value == nil {
		return e.EncodeUint8(0)
	}
	if err := e.EncodeUint8(1); err != nil {
		return err
	}
	return value.EncodeScale(e)
}

// Encode writes each value in order
func (e *Encoder) Encode(values ...Encodeable) error {
	for _, v := range values {
		if err := v.EncodeScale(e); err != nil {
			return err
		}
	}
	return nil
}

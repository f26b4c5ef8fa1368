package scale

import "math/big"

// Typed wrappers giving plain values a canonical encoding. These are the
// argument types accepted by the call builder.

// U8 encodes as one byte
type U8 uint8

// EncodeScale implements Encodeable
func (v U8) EncodeScale(enc *Encoder) error { return enc.EncodeUint8(uint8(v)) }

// DecodeScale implements Decodeable
func (v *U8) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeUint8()
	*v = U8(b)
	return err
}

// U16 encodes as fixed-width little-endian
type U16 uint16

// EncodeScale implements Encodeable
func (v U16) EncodeScale(enc *Encoder) error { return enc.EncodeUint16(uint16(v)) }

// DecodeScale implements Decodeable
func (v *U16) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeUint16()
	*v = U16(b)
	return err
}

// U32 encodes as fixed-width little-endian
type U32 uint32

// EncodeScale implements Encodeable
func (v U32) EncodeScale(enc *Encoder) error { return enc.EncodeUint32(uint32(v)) }

// DecodeScale implements Decodeable
func (v *U32) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeUint32()
	*v = U32(b)
	return err
}

// U64 encodes as fixed-width little-endian
type U64 uint64

// EncodeScale implements Encodeable
func (v U64) EncodeScale(enc *Encoder) error { return enc.EncodeUint64(uint64(v)) }

// DecodeScale implements Decodeable
func (v *U64) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeUint64()
	*v = U64(b)
	return err
}

// U128 encodes as fixed-width little-endian u128
type U128 struct {
	Int *big.Int
}

// NewU128 wraps v as an U128 value
func NewU128(v *big.Int) U128 { return U128{Int: v} }

// EncodeScale implements Encodeable
func (v U128) EncodeScale(enc *Encoder) error { return enc.EncodeUint128(v.Int) }

// DecodeScale implements Decodeable
func (v *U128) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeUint128()
	v.Int = b
	return err
}

// Bool encodes as one byte
type Bool bool

// EncodeScale implements Encodeable
func (v Bool) EncodeScale(enc *Encoder) error { return enc.EncodeBool(bool(v)) }

// DecodeScale implements Decodeable
func (v *Bool) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeBool()
	*v = Bool(b)
	return err
}

// Compact encodes in compact integer encoding
type Compact uint64

// EncodeScale implements Encodeable
func (v Compact) EncodeScale(enc *Encoder) error { return enc.EncodeCompact(uint64(v)) }

// DecodeScale implements Decodeable
func (v *Compact) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeCompact()
	*v = Compact(b)
	return err
}

// BigCompact encodes an arbitrary-precision value in compact integer encoding
type BigCompact struct {
	Int *big.Int
}

// NewBigCompact wraps v as a BigCompact value
func NewBigCompact(v *big.Int) BigCompact { return BigCompact{Int: v} }

// EncodeScale implements Encodeable
func (v BigCompact) EncodeScale(enc *Encoder) error { return enc.EncodeBigCompact(v.Int) }

// DecodeScale implements Decodeable
func (v *BigCompact) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeBigCompact()
	v.Int = b
	return err
}

// Bytes encodes as a compact length prefix followed by the bytes
type Bytes []byte

// EncodeScale implements Encodeable
func (v Bytes) EncodeScale(enc *Encoder) error { return enc.EncodeBytes(v) }

// DecodeScale implements Decodeable
func (v *Bytes) DecodeScale(dec *Decoder) error {
	b, err := dec.DecodeBytes()
	*v = b
	return err
}

// Raw encodes as the bytes unmodified, without a length prefix.
// Used for fixed-size values like hashes and account ids.
type Raw []byte

// EncodeScale implements Encodeable
func (v Raw) EncodeScale(enc *Encoder) error { return enc.Write(v) }

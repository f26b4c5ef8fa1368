package types

import (
	"math/bits"

	"github.com/polkabridge/substrate-client/scale"
)

// Era is the validity window of an extrinsic. The zero value is the
// immortal era, valid from the genesis block onwards.
type Era struct {
	IsMortal bool
	Period   uint64
	Phase    uint64
}

// ImmortalEra returns the era valid forever (anchored at genesis)
func ImmortalEra() Era {
	return Era{}
}

// MortalEra returns the era covering period blocks around the current
// block number, with period and phase quantized the way the runtime
// expects them.
func MortalEra(period, current uint64) Era {
	adjusted := nextPowerOfTwo(period)
	if adjusted < 4 {
		adjusted = 4
	}
	if adjusted > 1<<16 {
		adjusted = 1 << 16
	}
	phase := current % adjusted
	quantizeFactor := adjusted >> 12
	if quantizeFactor < 1 {
		quantizeFactor = 1
	}
	return Era{
		IsMortal: true,
		Period:   adjusted,
		Phase:    phase / quantizeFactor * quantizeFactor,
	}
}

func nextPowerOfTwo(v uint64) uint64 {
	if v == 0 {
		return 1
	}
	if bits.OnesCount64(v) == 1 {
		return v
	}
	return 1 << bits.Len64(v)
}

// EncodeScale implements scale.Encodeable.
// Immortal is one zero byte; mortal is two bytes packing the period
// exponent in the low 4 bits and the quantized phase above.
func (e Era) EncodeScale(enc *scale.Encoder) error {
	if !e.IsMortal {
		return enc.EncodeUint8(0)
	}
	exponent := uint64(bits.TrailingZeros64(e.Period)) - 1
	if exponent < 1 {
		exponent = 1
	}
	if exponent > 15 {
		exponent = 15
	}
	quantizeFactor := e.Period >> 12
	if quantizeFactor < 1 {
		quantizeFactor = 1
	}
	encoded := uint16(exponent) | uint16(e.Phase/quantizeFactor)<<4
	return enc.EncodeUint16(encoded)
}

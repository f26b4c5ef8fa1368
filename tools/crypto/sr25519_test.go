package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polkabridge/substrate-client/common/hexutil"
)

// well known dev account (Alice) mini secret seed
const aliceSeedHex = "0xe5be9a5092b81bca64be81d212e7f2f9eba183bb7a90954f7b76361f6edb5c0a"

func TestKeypairFromSeed(t *testing.T) {
	kp, err := NewKeypairFromSeed(hexutil.MustDecode(aliceSeedHex))
	require.NoError(t, err)

	assert.Equal(t,
		"0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d",
		hexutil.Encode(kp.AccountID().Bytes()))
	assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", kp.Address(42))

	_, err = NewKeypairFromSeed([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrWrongSeedLength)
}

func TestSignVerify(t *testing.T) {
	kp, err := NewKeypairFromSeed(hexutil.MustDecode(aliceSeedHex))
	require.NoError(t, err)

	msg := []byte("payload to sign")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)

	assert.True(t, kp.Verify(msg, sig))
	assert.False(t, kp.Verify([]byte("different payload"), sig))

	tampered := append([]byte{}, sig...)
	tampered[0] ^= 0xff
	assert.False(t, kp.Verify(msg, tampered))

	var empty *Keypair
	_, err = empty.Sign(msg)
	assert.ErrorIs(t, err, ErrNoKeyMaterial)
}

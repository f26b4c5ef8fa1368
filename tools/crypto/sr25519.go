// Package crypto wraps sr25519 key material and signing.
package crypto

import (
	"errors"

	"github.com/ChainSafe/go-schnorrkel"

	"github.com/polkabridge/substrate-client/common"
)

// SignatureLength is the byte length of an sr25519 signature
const SignatureLength = 64

// SeedLength is the byte length of a mini secret seed
const SeedLength = 32

// signingContext is the domain separator all substrate chains sign under
var signingContext = []byte("substrate")

var (
	// ErrWrongSeedLength seed is not 32 bytes
	ErrWrongSeedLength = errors.New("wrong seed length")
	// ErrNoKeyMaterial keypair has no secret key
	ErrNoKeyMaterial = errors.New("no key material")
)

// Keypair holds sr25519 key material. The secret key never leaves the
// keypair; a keypair is safe for concurrent signing.
type Keypair struct {
	secret    *schnorrkel.SecretKey
	public    *schnorrkel.PublicKey
	accountID common.AccountID
}

// NewKeypairFromSeed expands a 32 byte mini secret seed into a keypair
func NewKeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != SeedLength {
		return nil, ErrWrongSeedLength
	}
	var raw [SeedLength]byte
	copy(raw[:], seed)
	mini, err := schnorrkel.NewMiniSecretKeyFromRaw(raw)
	if err != nil {
		return nil, err
	}
	public := mini.Public()
	pubBytes := public.Encode()
	return &Keypair{
		secret:    mini.ExpandEd25519(),
		public:    public,
		accountID: common.BytesToAccountID(pubBytes[:]),
	}, nil
}

// AccountID returns the public key as an account identifier
func (kp *Keypair) AccountID() common.AccountID {
	return kp.accountID
}

// Address returns the ss58 address under the given network prefix
func (kp *Keypair) Address(networkPrefix uint8) string {
	return kp.accountID.ToAddress(networkPrefix)
}

// Sign signs msg under the substrate signing context
func (kp *Keypair) Sign(msg []byte) ([]byte, error) {
	if kp == nil || kp.secret == nil {
		return nil, ErrNoKeyMaterial
	}
	sig, err := kp.secret.Sign(schnorrkel.NewSigningContext(signingContext, msg))
	if err != nil {
		return nil, err
	}
	enc := sig.Encode()
	return enc[:], nil
}

// Verify reports whether signature is a valid signature of msg by this keypair
func (kp *Keypair) Verify(msg, signature []byte) bool {
	if kp == nil || kp.public == nil || len(signature) != SignatureLength {
		return false
	}
	var raw [SignatureLength]byte
	copy(raw[:], signature)
	sig := new(schnorrkel.Signature)
	if err := sig.Decode(raw); err != nil {
		return false
	}
	ok, err := kp.public.Verify(sig, schnorrkel.NewSigningContext(signingContext, msg))
	return err == nil && ok
}

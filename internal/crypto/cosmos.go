package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/cockroachdb/errors"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// PrivToHex returns the raw 32-byte secp256k1 key as lowercase hex without a 0x prefix.
func PrivToHex(priv *ecdsa.PrivateKey) string {
	return hex.EncodeToString(gethcrypto.FromECDSA(priv))
}

// PubKeyHash is RIPEMD160(SHA256(compressed pubkey)), the cosmos account address bytes.
func PubKeyHash(pub *ecdsa.PublicKey) []byte {
	return btcutil.Hash160(gethcrypto.CompressPubkey(pub))
}

// Bech32Address encodes the account address of pub under the given human-readable prefix.
func Bech32Address(hrp string, pub *ecdsa.PublicKey) (string, error) {
	conv, err := bech32.ConvertBits(PubKeyHash(pub), 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}
	addr, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", errors.Wrapf(err, "bech32 encode with prefix %q", hrp)
	}
	return addr, nil
}

// DecodeBech32Address returns the prefix and the 20 address bytes of addr.
func DecodeBech32Address(addr string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "bech32 decode %q", addr)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(err, "convert bits")
	}
	return hrp, raw, nil
}

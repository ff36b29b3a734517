package mnemonic

import (
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/cockroachdb/errors"

	"OsmoTools/internal/crypto"
	"OsmoTools/internal/wallet"
)

const (
	// AddressPrefix is the bech32 human-readable part of Osmosis accounts.
	AddressPrefix = "osmo"
	// DerivationPath is the BIP-44 path for coin type 118, account 0, external chain, index 0.
	DerivationPath = "m/44'/118'/0'/0/0"
)

var osmoPath = hdwallet.MustParseDerivationPath(DerivationPath)

func NewMnemonic(strength int) (string, error) {
	if strength == 0 {
		strength = 256 // 24 words
	}
	entropy, err := bip39.NewEntropy(strength)
	if err != nil {
		return "", errors.Wrapf(err, "new entropy (%d bits)", strength)
	}
	return bip39.NewMnemonic(entropy)
}

// FromMnemonic derives the Osmosis credential of mn. The same mnemonic and
// passphrase always yield the same credential.
func FromMnemonic(mn, passphrase string) (wallet.Credential, error) {
	seed := bip39.NewSeed(mn, passphrase)
	w, err := hdwallet.NewFromSeed(seed)
	if err != nil {
		return wallet.Credential{}, errors.Wrap(err, "hd wallet from seed")
	}
	// standard BIP-32 hardened derivation, also for parent keys with a leading zero byte
	w.SetFixIssue172(true)
	acct, err := w.Derive(osmoPath, false)
	if err != nil {
		return wallet.Credential{}, errors.Wrapf(err, "derive %s", DerivationPath)
	}
	priv, err := w.PrivateKey(acct)
	if err != nil {
		return wallet.Credential{}, errors.Wrap(err, "private key")
	}
	addr, err := crypto.Bech32Address(AddressPrefix, &priv.PublicKey)
	if err != nil {
		return wallet.Credential{}, err
	}
	return wallet.Credential{
		Mnemonic:   mn,
		PrivateKey: crypto.PrivToHex(priv),
		Address:    addr,
	}, nil
}

// OsmoDeriver derives one credential from a freshly generated mnemonic per call.
type OsmoDeriver struct {
	Passphrase string // BIP-39 passphrase (not encryption!)
}

func (d OsmoDeriver) Derive(strength int) (wallet.Credential, error) {
	mn, err := NewMnemonic(strength)
	if err != nil {
		return wallet.Credential{}, err
	}
	return FromMnemonic(mn, d.Passphrase)
}

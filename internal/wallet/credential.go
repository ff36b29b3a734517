package wallet

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"

	"OsmoTools/pkg/errs"
)

// FeeDenom is the Osmosis fee denomination checked by the scanner.
const FeeDenom = "uosmo"

// Credential is one generated wallet as persisted in a shard file.
type Credential struct {
	Mnemonic   string `json:"mnemonic"`
	PrivateKey string `json:"private_key"`
	Address    string `json:"address"`
}

// ScanResult is a credential whose FeeDenom balance was found positive.
type ScanResult struct {
	Credential
	UOsmo Amount `json:"uosmo"`
}

// Amount is an integer amount of the smallest denomination unit.
// It is written as a bare JSON number of any size.
type Amount struct {
	decimal.Decimal
}

// ParseAmount parses a non-negative integer amount as returned by the ledger.
// Only plain decimal digits are accepted: no sign, exponent or fraction.
func ParseAmount(s string) (Amount, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return Amount{}, errors.Newf("amount %q is not a non-negative integer", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, errors.Wrapf(err, "parse amount %q", s)
	}
	if !d.IsInteger() || d.IsNegative() {
		return Amount{}, errors.Newf("amount %q is not a non-negative integer", s)
	}
	return Amount{Decimal: d}, nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

var wordsToStrength = map[int]int{
	12: 128,
	15: 160,
	18: 192,
	21: 224,
	24: 256,
}

// StrengthForWords maps a mnemonic word count to its entropy size in bits.
func StrengthForWords(words int) (int, error) {
	s, ok := wordsToStrength[words]
	if !ok {
		return 0, errors.Mark(errors.Newf("word count %d must be one of 12, 15, 18, 21, 24", words), errs.Configuration)
	}
	return s, nil
}

// WordsForStrength is the inverse of StrengthForWords.
func WordsForStrength(strength int) (int, error) {
	for w, s := range wordsToStrength {
		if s == strength {
			return w, nil
		}
	}
	return 0, errors.Mark(errors.Newf("entropy strength %d must be one of 128, 160, 192, 224, 256", strength), errs.Configuration)
}

// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// Bytes32 is a storage slot key or the big-endian word stored in it.
type Bytes32 [32]byte

// BytesToBytes32 right aligns b, dropping leading bytes beyond 32.
func BytesToBytes32(b []byte) (w Bytes32) {
	if len(b) > len(w) {
		b = b[len(b)-len(w):]
	}
	copy(w[len(w)-len(b):], b)
	return
}

// NameToSlot is the fixed slot of a named contract variable.
func NameToSlot(name string) Bytes32 {
	return BytesToBytes32([]byte(name))
}

// Uint64ToBytes32 encodes v as a storage word.
func Uint64ToBytes32(v uint64) Bytes32 {
	return uint256.NewInt(v).Bytes32()
}

// BigToBytes32 encodes v as a storage word. It fails when v is negative or
// wider than 256 bits.
func BigToBytes32(v *big.Int) (Bytes32, error) {
	if v.Sign() < 0 {
		return Bytes32{}, errors.New("negative word")
	}
	u, overflow := uint256.FromBig(v)
	if overflow {
		return Bytes32{}, errors.New("word exceeds 256 bits")
	}
	return u.Bytes32(), nil
}

// Big decodes the word as an unsigned integer.
func (b Bytes32) Big() *big.Int { return new(big.Int).SetBytes(b[:]) }

func (b Bytes32) Bytes() []byte { return b[:] }
func (b Bytes32) IsZero() bool  { return b == Bytes32{} }
func (b Bytes32) String() string {
	return hexutil.Encode(b[:])
}

// MarshalText encodes the word as 0x prefixed hex, which also serves JSON.
func (b Bytes32) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *Bytes32) UnmarshalText(text []byte) error {
	parsed, err := ParseBytes32(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 parses exactly 64 hex digits. The 0x prefix is optional.
func ParseBytes32(s string) (Bytes32, error) {
	if len(s) == 64 {
		s = "0x" + s
	}
	if len(s) != 66 {
		return Bytes32{}, errors.New("invalid length")
	}
	raw, err := hexutil.Decode(s)
	if err != nil {
		return Bytes32{}, err
	}
	return Bytes32(raw), nil
}

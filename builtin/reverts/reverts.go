// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind uint8

const (
	KindInput        Kind = iota + 1 // bad argument
	KindTemporal                     // not yet allowed at this time
	KindCollaborator                 // token or dependent call failed
	KindAuth                         // caller not permitted
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTemporal:
		return "temporal"
	case KindCollaborator:
		return "collaborator"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// ErrRevert aborts an operation. All state changes of the operation are rolled back.
type ErrRevert struct {
	kind    Kind
	message string
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		kind:    KindInput,
		message: message,
	}
}

func NewKind(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert in err's chain, or 0 if none.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}

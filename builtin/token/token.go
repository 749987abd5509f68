// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the capped reward token minted by pools.
package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/builtin/reverts"
	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
	"github.com/vechain/corepool/xenv"
)

var (
	logger = log.WithContext("pkg", "token")

	slotOwner       = thor.NameToSlot("token-owner")
	slotTotalSupply = thor.NameToSlot("token-total-supply")
	slotBalances    = thor.NameToSlot("token-balances")
	slotAllowances  = thor.NameToSlot("token-allowances")
	slotMinters     = thor.NameToSlot("token-minters")
	slotLocks       = thor.NameToSlot("token-locks")

	ErrInsufficientBalance   = reverts.NewKind(reverts.KindCollaborator, "token: insufficient balance")
	ErrInsufficientAllowance = reverts.NewKind(reverts.KindCollaborator, "token: insufficient allowance")
	ErrMintCapExceeded       = reverts.NewKind(reverts.KindCollaborator, "token: mint cap exceeded")
	ErrDailyCapExceeded      = reverts.NewKind(reverts.KindCollaborator, "token: daily mint cap exceeded")
	ErrUnknownMinter         = reverts.NewKind(reverts.KindCollaborator, "token: unknown minter")
	ErrNotOwner              = reverts.NewKind(reverts.KindAuth, "token: caller is not the owner")
	ErrAlreadyInitialized    = reverts.NewKind(reverts.KindInput, "token: already initialized")
	ErrInvalidAmount         = reverts.NewKind(reverts.KindInput, "token: invalid amount")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Token is an ERC20-like token with a minter registry and a lock ledger.
type Token struct {
	sctx  *solidity.Context
	clock xenv.Clock

	owner       *solidity.Address
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *big.Int]
	allowances  *solidity.Mapping[allowanceKey, *big.Int]
	minters     *solidity.Mapping[thor.Address, *Minter]
	locks       *solidity.Mapping[thor.Address, *lockLedger]
}

// New create a new instance.
func New(addr thor.Address, state *state.State, clock xenv.Clock, meter *solidity.Meter) *Token {
	sctx := solidity.NewContext(addr, state, meter)
	return &Token{
		sctx:        sctx,
		clock:       clock,
		owner:       solidity.NewAddress(sctx, slotOwner),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *big.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *big.Int](sctx, slotAllowances),
		minters:     solidity.NewMapping[thor.Address, *Minter](sctx, slotMinters),
		locks:       solidity.NewMapping[thor.Address, *lockLedger](sctx, slotLocks),
	}
}

// Address returns the token contract address.
func (t *Token) Address() thor.Address {
	return t.sctx.Address()
}

func (t *Token) emit(name string, subject thor.Address, body any) error {
	ev, err := tx.NewEvent(t.sctx.Address(), name, subject, body)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	t.sctx.State().AddEvent(ev)
	return nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

//
// Getters - no state change
//

func (t *Token) Owner() (thor.Address, error) {
	return t.owner.Get()
}

func (t *Token) TotalSupply() (*big.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil {
		return new(big.Int), nil
	}
	return bal, nil
}

func (t *Token) Allowance(owner, spender thor.Address) (*big.Int, error) {
	v, err := t.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	if v == nil {
		return new(big.Int), nil
	}
	return v, nil
}

// GetMinter returns the minter record, nil if addr is not a minter.
func (t *Token) GetMinter(addr thor.Address) (*Minter, error) {
	m, err := t.minters.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get minter")
	}
	return m, nil
}

// LockedBalanceOf returns the part of the balance locked at the current block time.
func (t *Token) LockedBalanceOf(addr thor.Address) (*big.Int, error) {
	ledger, err := t.locks.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locks")
	}
	if ledger == nil {
		return new(big.Int), nil
	}
	return ledger.locked(t.clock.BlockTime()), nil
}

// Locks returns the lock entries of addr, including expired ones not yet released.
func (t *Token) Locks(addr thor.Address) ([]Lock, error) {
	ledger, err := t.locks.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locks")
	}
	if ledger == nil {
		return nil, nil
	}
	return ledger.Locks, nil
}

// AvailableBalanceOf returns the transferable balance.
func (t *Token) AvailableBalanceOf(addr thor.Address) (*big.Int, error) {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return nil, err
	}
	locked, err := t.LockedBalanceOf(addr)
	if err != nil {
		return nil, err
	}
	if bal.Cmp(locked) <= 0 {
		return new(big.Int), nil
	}
	return bal.Sub(bal, locked), nil
}

//
// Setters - state change
//

// Initialize sets the owner. It may be called once.
func (t *Token) Initialize(owner thor.Address) error {
	cur, err := t.owner.Get()
	if err != nil {
		return err
	}
	if !cur.IsZero() {
		return ErrAlreadyInitialized
	}
	t.owner.Set(&owner)
	return nil
}

func (t *Token) onlyOwner(caller thor.Address) error {
	owner, err := t.owner.Get()
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	return nil
}

// SetMinter registers or updates a minter. Minted counters are kept on update.
func (t *Token) SetMinter(caller, minter thor.Address, cap, dailyCap *big.Int) error {
	if err := t.onlyOwner(caller); err != nil {
		return err
	}
	if err := checkAmount(cap); err != nil {
		return err
	}
	if err := checkAmount(dailyCap); err != nil {
		return err
	}
	m, err := t.GetMinter(minter)
	if err != nil {
		return err
	}
	if m == nil {
		m = &Minter{Minted: new(big.Int), MintedToday: new(big.Int)}
	}
	m.Cap = new(big.Int).Set(cap)
	m.DailyCap = new(big.Int).Set(dailyCap)
	if err := t.minters.Upsert(minter, m); err != nil {
		return errors.Wrap(err, "failed to set minter")
	}
	logger.Debug("minter set", "minter", minter, "cap", cap, "dailyCap", dailyCap)
	return t.emit("MinterSet", minter, &minterEvent{minter, cap, dailyCap})
}

// RemoveMinter revokes minting rights.
func (t *Token) RemoveMinter(caller, minter thor.Address) error {
	if err := t.onlyOwner(caller); err != nil {
		return err
	}
	t.minters.Delete(minter)
	return t.emit("MinterRemoved", minter, &minterEvent{Minter: minter})
}

// Mint creates amount tokens for to, charged against the minter's caps.
func (t *Token) Mint(minter, to thor.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	m, err := t.GetMinter(minter)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrUnknownMinter
	}
	if amount.Cmp(m.remaining()) > 0 {
		return ErrMintCapExceeded
	}
	day := t.clock.BlockTime() / thor.SecondsPerDay
	if m.Day != day {
		m.Day = day
		m.MintedToday = new(big.Int)
	}
	mintedToday := new(big.Int).Add(m.MintedToday, amount)
	if m.DailyCap.Sign() > 0 && mintedToday.Cmp(m.DailyCap) > 0 {
		return ErrDailyCapExceeded
	}
	m.MintedToday = mintedToday
	m.Minted = new(big.Int).Add(m.Minted, amount)
	if err := t.minters.Update(minter, m); err != nil {
		return errors.Wrap(err, "failed to update minter")
	}

	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	return t.emit("Transfer", to, &transferEvent{thor.Address{}, to, amount})
}

// MintLocked mints amount for to and locks it until unlockAt.
func (t *Token) MintLocked(minter, to thor.Address, amount *big.Int, unlockAt uint64) error {
	if err := t.Mint(minter, to, amount); err != nil {
		return err
	}
	if unlockAt <= t.clock.BlockTime() || amount.Sign() == 0 {
		return nil
	}
	ledger, err := t.locks.Get(to)
	if err != nil {
		return errors.Wrap(err, "failed to get locks")
	}
	if ledger == nil {
		ledger = &lockLedger{}
	}
	ledger.Locks = append(ledger.Locks, Lock{Amount: new(big.Int).Set(amount), UnlockAt: unlockAt})
	if err := t.locks.Upsert(to, ledger); err != nil {
		return errors.Wrap(err, "failed to set locks")
	}
	return t.emit("Locked", to, &lockedEvent{to, amount, unlockAt})
}

// ReleaseExpired drops expired locks of addr and returns the amount released.
func (t *Token) ReleaseExpired(addr thor.Address) (*big.Int, error) {
	ledger, err := t.locks.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get locks")
	}
	if ledger == nil {
		return new(big.Int), nil
	}
	released := ledger.release(t.clock.BlockTime())
	if len(ledger.Locks) == 0 {
		t.locks.Delete(addr)
	} else if err := t.locks.Update(addr, ledger); err != nil {
		return nil, errors.Wrap(err, "failed to set locks")
	}
	return released, nil
}

// Transfer moves amount of the sender's unlocked balance to to.
func (t *Token) Transfer(from, to thor.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	available, err := t.AvailableBalanceOf(from)
	if err != nil {
		return err
	}
	if available.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := t.subBalance(from, amount); err != nil {
		return err
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	return t.emit("Transfer", from, &transferEvent{from, to, amount})
}

// Approve sets the amount spender may move on behalf of owner.
func (t *Token) Approve(owner, spender thor.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if err := t.allowances.Upsert(allowanceKey{owner, spender}, new(big.Int).Set(amount)); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return t.emit("Approval", owner, &approvalEvent{owner, spender, amount})
}

// TransferFrom moves amount from from to to using spender's allowance.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) < 0 {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	return t.allowances.Upsert(allowanceKey{from, spender}, allowance.Sub(allowance, amount))
}

func (t *Token) addBalance(addr thor.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	return t.balances.Upsert(addr, bal.Add(bal, amount))
}

func (t *Token) subBalance(addr thor.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	return t.balances.Upsert(addr, bal.Sub(bal, amount))
}

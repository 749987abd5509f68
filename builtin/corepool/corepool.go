// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package corepool implements the time-locked staking pool. Stakers lock the
// reward token for a chosen duration and earn a decaying per-block emission
// in proportion to their lock weighted stake.
//
// Every mutating call follows the same order: sync the accumulator, settle
// the caller's pending yield, mutate the deposit, recompute the caller's
// reward debt. A failing call leaves no trace in state.
package corepool

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/builtin/corepool/accumulator"
	"github.com/vechain/corepool/builtin/corepool/deposit"
	"github.com/vechain/corepool/builtin/corepool/emission"
	"github.com/vechain/corepool/builtin/corepool/weight"
	"github.com/vechain/corepool/builtin/fixedpoint"
	"github.com/vechain/corepool/builtin/reverts"
	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
	"github.com/vechain/corepool/xenv"
)

var (
	logger = log.WithContext("pkg", "corepool")

	slotConfig     = thor.NameToSlot("pool-config")
	slotMigratedTo = thor.NameToSlot("pool-migrated-to")
)

const rewardLockVariable = "pool-reward-lock"

func SetLogger(l log.Logger) {
	logger = l
}

// Token is the reward token. Stakes are pulled with TransferFrom, principal is
// returned with Transfer and yield is minted with the pool as minter.
type Token interface {
	Mint(minter, to thor.Address, amount *big.Int) error
	MintLocked(minter, to thor.Address, amount *big.Int, unlockAt uint64) error
	Transfer(from, to thor.Address, amount *big.Int) error
	TransferFrom(spender, from, to thor.Address, amount *big.Int) error
	BalanceOf(addr thor.Address) (*big.Int, error)
}

// Pool is one staking pool bound to a state and a clock.
type Pool struct {
	sctx  *solidity.Context
	clock xenv.Clock
	token Token

	config     *solidity.Raw[*Config]
	migratedTo *solidity.Address
	rewardLock *solidity.ConfigVariable
	deposits   *deposit.Service

	// loaded from config on first use
	cfg      *Config
	schedule *emission.Schedule
	acc      *accumulator.Service

	depositsDelta int64
}

// New create a new instance.
func New(addr thor.Address, state *state.State, clock xenv.Clock, token Token, meter *solidity.Meter) *Pool {
	sctx := solidity.NewContext(addr, state, meter)
	return &Pool{
		sctx:       sctx,
		clock:      clock,
		token:      token,
		config:     solidity.NewRaw[*Config](sctx, slotConfig),
		migratedTo: solidity.NewAddress(sctx, slotMigratedTo),
		rewardLock: solidity.NewConfigVariable(rewardLockVariable, 0),
		deposits:   deposit.New(sctx),
	}
}

// Address returns the pool contract address.
func (p *Pool) Address() thor.Address {
	return p.sctx.Address()
}

func (p *Pool) load() (*Config, error) {
	if p.cfg != nil {
		return p.cfg, nil
	}
	cfg, err := p.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	p.cfg = cfg
	p.schedule = cfg.Schedule()
	p.acc = accumulator.New(p.sctx, p.schedule)
	p.rewardLock.Override(p.sctx)
	return cfg, nil
}

// reset drops everything cached from storage, used after a revert.
func (p *Pool) reset() {
	p.cfg = nil
	p.schedule = nil
	p.acc = nil
	p.rewardLock = solidity.NewConfigVariable(rewardLockVariable, 0)
	p.depositsDelta = 0
}

// execute runs fn as one atomic call.
func (p *Pool) execute(op string, fn func() error) error {
	st := p.sctx.State()
	rev := st.NewCheckpoint()
	if err := fn(); err != nil {
		st.RevertTo(rev)
		p.reset()
		status := "error"
		if kind := reverts.KindOf(err); kind != 0 {
			status = kind.String()
		}
		metricTxCount().AddWithLabel(1, map[string]string{"op": op, "status": status})
		logger.Debug("call reverted", "op", op, "error", err)
		return err
	}
	metricTxCount().AddWithLabel(1, map[string]string{"op": op, "status": "ok"})
	if p.depositsDelta != 0 {
		metricDeposits().Add(p.depositsDelta)
		p.depositsDelta = 0
	}
	return nil
}

func (p *Pool) emit(name string, subject thor.Address, body any) error {
	ev, err := tx.NewEvent(p.Address(), name, subject, body)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	p.sctx.State().AddEvent(ev)
	return nil
}

// sync advances the accumulator to the current block and stores it.
func (p *Pool) sync() (*accumulator.Accumulator, error) {
	acc, res, err := p.acc.Sync(p.clock.BlockNumber())
	if err != nil {
		return nil, err
	}
	if res.Advanced() {
		metricSyncBlocks().Observe(int64(res.ToBlock - res.FromBlock))
		if err := p.emit(EventSynced, p.Address(), &SyncedEvent{
			Block:           res.ToBlock,
			Rewards:         res.Rewards,
			RewardPerWeight: acc.RewardPerWeight,
		}); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// settle pays the pending yield of u at the current accumulator. Mint
// failures of the token are returned unchanged.
func (p *Pool) settle(user thor.Address, u *deposit.User, acc *accumulator.Accumulator) (*big.Int, error) {
	accrued, err := fixedpoint.WeightToReward(u.TotalWeight, acc.RewardPerWeight)
	if err != nil {
		return nil, errors.Wrap(err, "accrued rewards")
	}
	pending := new(big.Int).Sub(accrued, u.RewardDebt)
	if pending.Sign() <= 0 {
		return new(big.Int), nil
	}

	now := p.clock.BlockTime()
	ev := &YieldClaimedEvent{User: user, Amount: pending, Timestamp: now}
	if period := p.rewardLock.Get(); period > 0 {
		ev.UnlockAt = now + uint64(period)
		err = p.token.MintLocked(p.Address(), user, pending, ev.UnlockAt)
	} else {
		err = p.token.Mint(p.Address(), user, pending)
	}
	if err != nil {
		return nil, err
	}

	acc.TotalYieldDistributed = new(big.Int).Add(acc.TotalYieldDistributed, pending)
	u.TotalClaimed = new(big.Int).Add(u.TotalClaimed, pending)
	u.RewardDebt = accrued
	if err := p.emit(EventYieldClaimed, user, ev); err != nil {
		return nil, err
	}
	logger.Debug("yield claimed", "user", user, "amount", pending)
	return pending, nil
}

// finish recomputes the reward debt of u and stores both records.
func (p *Pool) finish(user thor.Address, u *deposit.User, acc *accumulator.Accumulator) error {
	debt, err := fixedpoint.WeightToReward(u.TotalWeight, acc.RewardPerWeight)
	if err != nil {
		return errors.Wrap(err, "reward debt")
	}
	u.RewardDebt = debt
	if err := p.deposits.SetUser(user, u); err != nil {
		return err
	}
	return p.acc.Set(acc)
}

// prepare syncs and settles the caller, the common head of every mutator.
func (p *Pool) prepare(user thor.Address) (*deposit.User, *accumulator.Accumulator, error) {
	acc, err := p.sync()
	if err != nil {
		return nil, nil, err
	}
	u, err := p.deposits.GetUser(user)
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.settle(user, u, acc); err != nil {
		return nil, nil, err
	}
	return u, acc, nil
}

//
// Setters
//

// Initialize stores cfg and starts the accumulator at the current block.
// A zero owner makes the caller the owner.
func (p *Pool) Initialize(caller thor.Address, cfg Config) error {
	return p.execute("initialize", func() error {
		existing, err := p.config.Get()
		if err != nil {
			return errors.Wrap(err, "failed to get config")
		}
		if existing != nil {
			return ErrAlreadyInitialized
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Owner.IsZero() {
			cfg.Owner = caller
		}
		cfg.InitialRewardPerBlock = new(big.Int).Set(cfg.InitialRewardPerBlock)
		if err := p.config.Upsert(&cfg); err != nil {
			return errors.Wrap(err, "failed to set config")
		}
		if _, err := p.load(); err != nil {
			return err
		}
		acc, err := p.acc.Get()
		if err != nil {
			return err
		}
		acc.LastSyncedBlock = p.clock.BlockNumber()
		if err := p.acc.Set(acc); err != nil {
			return err
		}
		logger.Info("pool initialized",
			"address", p.Address(),
			"owner", cfg.Owner,
			"startBlock", cfg.StartBlock,
			"endBlock", cfg.EndBlock(),
		)
		return nil
	})
}

// Stake locks amount of the caller's tokens until lockedUntil and returns
// the index of the new deposit.
func (p *Pool) Stake(user thor.Address, amount *big.Int, lockedUntil uint64) (index uint64, err error) {
	err = p.execute("stake", func() error {
		cfg, err := p.load()
		if err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrZeroAmount
		}
		if err := p.checkNotMigrated(); err != nil {
			return err
		}
		now := p.clock.BlockTime()
		if lockedUntil < now {
			return ErrLockTooShort
		}
		duration := lockedUntil - now
		if duration > cfg.MaxLockTime {
			return ErrMaxLockExceeded
		}
		w, err := weight.Compute(amount, duration, cfg.MinLockTime, cfg.MaxLockTime)
		if err != nil {
			return err
		}

		u, acc, err := p.prepare(user)
		if err != nil {
			return err
		}
		if err := p.token.TransferFrom(p.Address(), user, p.Address(), amount); err != nil {
			return err
		}

		dep := &deposit.Deposit{
			Amount:      new(big.Int).Set(amount),
			Weight:      w,
			LockedFrom:  now,
			LockedUntil: lockedUntil,
		}
		if index, err = p.deposits.Add(user, u, dep); err != nil {
			return err
		}
		acc.TotalWeight = new(big.Int).Add(acc.TotalWeight, w)
		acc.TotalStaked = new(big.Int).Add(acc.TotalStaked, amount)
		if err := p.finish(user, u, acc); err != nil {
			return err
		}
		p.depositsDelta++

		return p.emit(EventStaked, user, &StakedEvent{
			User:         user,
			DepositIndex: index,
			Amount:       amount,
			Timestamp:    now,
			LockedUntil:  lockedUntil,
		})
	})
	if err != nil {
		return 0, err
	}
	return index, nil
}

// Unstake withdraws amount from an unlocked deposit of the caller.
func (p *Pool) Unstake(user thor.Address, index uint64, amount *big.Int) error {
	return p.execute("unstake", func() error {
		if _, err := p.load(); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrZeroAmount
		}
		dep, err := p.deposits.GetDeposit(user, index)
		if err != nil {
			return err
		}
		if dep == nil {
			return ErrUnknownDeposit
		}
		if amount.Cmp(dep.Amount) > 0 {
			return ErrAmountExceedsDeposit
		}
		now := p.clock.BlockTime()
		if !dep.Unlocked(now) {
			return ErrTooEarly
		}

		u, acc, err := p.prepare(user)
		if err != nil {
			return err
		}

		remaining := new(big.Int).Sub(dep.Amount, amount)
		newWeight, err := weight.Rescale(dep.Weight, dep.Amount, remaining)
		if err != nil {
			return err
		}
		delta := new(big.Int).Sub(dep.Weight, newWeight)
		u.TotalWeight = new(big.Int).Sub(u.TotalWeight, delta)
		u.TotalStaked = new(big.Int).Sub(u.TotalStaked, amount)
		acc.TotalWeight = new(big.Int).Sub(acc.TotalWeight, delta)
		acc.TotalStaked = new(big.Int).Sub(acc.TotalStaked, amount)

		dep.Amount = remaining
		dep.Weight = newWeight
		if err := p.deposits.Update(user, index, dep); err != nil {
			return err
		}
		if err := p.token.Transfer(p.Address(), user, amount); err != nil {
			return err
		}
		if err := p.finish(user, u, acc); err != nil {
			return err
		}
		if dep.IsEmpty() {
			p.depositsDelta--
		}

		return p.emit(EventUnstaked, user, &UnstakedEvent{
			User:         user,
			DepositIndex: index,
			Amount:       amount,
			Timestamp:    now,
		})
	})
}

// UpdateStakeLock extends the lock of a deposit. The new weight is computed
// from the remaining lock time, saturated at the maximum.
func (p *Pool) UpdateStakeLock(user thor.Address, index uint64, lockedUntil uint64) error {
	return p.execute("updateStakeLock", func() error {
		cfg, err := p.load()
		if err != nil {
			return err
		}
		dep, err := p.deposits.GetDeposit(user, index)
		if err != nil {
			return err
		}
		if dep == nil {
			return ErrUnknownDeposit
		}
		if dep.IsEmpty() {
			return ErrEmptyDeposit
		}
		if lockedUntil <= dep.LockedUntil {
			return ErrInvalidNewLock
		}
		if lockedUntil-dep.LockedFrom > cfg.MaxLockTime {
			return ErrMaxLockExceeded
		}

		u, acc, err := p.prepare(user)
		if err != nil {
			return err
		}

		var remaining uint64
		if now := p.clock.BlockTime(); lockedUntil > now {
			remaining = lockedUntil - now
		}
		newWeight := weight.Saturate(dep.Amount, remaining, cfg.MaxLockTime)
		delta := new(big.Int).Sub(newWeight, dep.Weight)
		u.TotalWeight = new(big.Int).Add(u.TotalWeight, delta)
		acc.TotalWeight = new(big.Int).Add(acc.TotalWeight, delta)

		dep.Weight = newWeight
		dep.LockedUntil = lockedUntil
		if err := p.deposits.Update(user, index, dep); err != nil {
			return err
		}
		if err := p.finish(user, u, acc); err != nil {
			return err
		}

		return p.emit(EventStakeLockUpdated, user, &StakeLockUpdatedEvent{
			User:         user,
			DepositIndex: index,
			LockedFrom:   dep.LockedFrom,
			LockedUntil:  lockedUntil,
		})
	})
}

// ProcessRewards claims the caller's pending yield and returns the amount.
func (p *Pool) ProcessRewards(user thor.Address) (claimed *big.Int, err error) {
	err = p.execute("processRewards", func() error {
		if _, err := p.load(); err != nil {
			return err
		}
		acc, err := p.sync()
		if err != nil {
			return err
		}
		u, err := p.deposits.GetUser(user)
		if err != nil {
			return err
		}
		if u.DepositCount == 0 {
			claimed = new(big.Int)
			return p.acc.Set(acc)
		}
		if claimed, err = p.settle(user, u, acc); err != nil {
			return err
		}
		return p.finish(user, u, acc)
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Sync advances the accumulator to the current block.
func (p *Pool) Sync() error {
	return p.execute("sync", func() error {
		if _, err := p.load(); err != nil {
			return err
		}
		_, err := p.sync()
		return err
	})
}

//
// Administration
//

func (p *Pool) onlyOwner(caller thor.Address) (*Config, error) {
	cfg, err := p.load()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Owner {
		return nil, ErrNotOwner
	}
	return cfg, nil
}

func (p *Pool) checkNotMigrated() error {
	to, err := p.migratedTo.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get successor")
	}
	if !to.IsZero() {
		return ErrPoolMigrated
	}
	return nil
}

func (p *Pool) storeConfig(cfg *Config) error {
	if err := p.config.Upsert(cfg); err != nil {
		return errors.Wrap(err, "failed to set config")
	}
	return nil
}

// SetFactory sets the second privileged caller.
func (p *Pool) SetFactory(caller, factory thor.Address) error {
	return p.execute("setFactory", func() error {
		cfg, err := p.onlyOwner(caller)
		if err != nil {
			return err
		}
		ev := &AddressUpdatedEvent{From: cfg.Factory, To: factory}
		cfg.Factory = factory
		if err := p.storeConfig(cfg); err != nil {
			return err
		}
		return p.emit(EventFactoryUpdated, factory, ev)
	})
}

func (p *Pool) TransferOwnership(caller, owner thor.Address) error {
	return p.execute("transferOwnership", func() error {
		cfg, err := p.onlyOwner(caller)
		if err != nil {
			return err
		}
		if owner.IsZero() {
			return invalidConfig("owner must not be zero")
		}
		ev := &AddressUpdatedEvent{From: cfg.Owner, To: owner}
		cfg.Owner = owner
		if err := p.storeConfig(cfg); err != nil {
			return err
		}
		return p.emit(EventOwnershipTransferred, owner, ev)
	})
}

// SetRewardLockPeriod makes later claims mint locked balance that unlocks
// period seconds after the claim. Zero mints liquid tokens.
func (p *Pool) SetRewardLockPeriod(caller thor.Address, period uint32) error {
	return p.execute("setRewardLockPeriod", func() error {
		if _, err := p.onlyOwner(caller); err != nil {
			return err
		}
		p.rewardLock.Store(p.sctx, period)
		return p.emit(EventRewardLockUpdated, caller, &RewardLockUpdatedEvent{Period: period})
	})
}

// Migrate records the successor pool. New stakes are refused afterwards;
// existing stakers can still unstake and claim.
func (p *Pool) Migrate(caller, to thor.Address) error {
	return p.execute("migrate", func() error {
		cfg, err := p.load()
		if err != nil {
			return err
		}
		if caller != cfg.Owner && (cfg.Factory.IsZero() || caller != cfg.Factory) {
			return ErrNotOwnerOrFactory
		}
		if to.IsZero() {
			return invalidConfig("successor must not be zero")
		}
		if err := p.checkNotMigrated(); err != nil {
			return err
		}
		p.migratedTo.Set(&to)
		logger.Info("pool migrated", "address", p.Address(), "to", to)
		return p.emit(EventMigrated, to, &AddressUpdatedEvent{From: p.Address(), To: to})
	})
}

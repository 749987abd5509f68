// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package shares implements bonding-curve share markets paid in the reward
// token. Every subject address has its own market; wish passes open a market
// for a subject before it joins.
package shares

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/corepool/builtin/reverts"
	"github.com/vechain/corepool/builtin/solidity"
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/metrics"
	"github.com/vechain/corepool/state"
	"github.com/vechain/corepool/thor"
	"github.com/vechain/corepool/tx"
)

var (
	logger = log.WithContext("pkg", "shares")

	slotConfig   = thor.NameToSlot("shares-config")
	slotSupply   = thor.NameToSlot("shares-supply")
	slotBalances = thor.NameToSlot("shares-balances")
	slotWishes   = thor.NameToSlot("shares-wishes")
	slotBindings = thor.NameToSlot("shares-wish-bindings")

	metricTrades = metrics.LazyLoadCounterVec("share_trades", []string{"side", "status"})
)

func SetLogger(l log.Logger) {
	logger = l
}

// PaymentToken moves the reward token in and out of the market.
type PaymentToken interface {
	Transfer(from, to thor.Address, amount *big.Int) error
	TransferFrom(spender, from, to thor.Address, amount *big.Int) error
}

// Market holds the share supplies and balances of all subjects.
type Market struct {
	sctx  *solidity.Context
	token PaymentToken

	config   *solidity.Raw[*Config]
	supply   *solidity.Mapping[thor.Address, uint64]
	balances *solidity.Mapping[holdingKey, uint64]
	wishes   *solidity.Mapping[thor.Address, *Wish]
	bindings *solidity.Mapping[thor.Address, thor.Address] // subject => wisher
}

// New create a new instance.
func New(addr thor.Address, state *state.State, token PaymentToken, meter *solidity.Meter) *Market {
	sctx := solidity.NewContext(addr, state, meter)
	return &Market{
		sctx:     sctx,
		token:    token,
		config:   solidity.NewRaw[*Config](sctx, slotConfig),
		supply:   solidity.NewMapping[thor.Address, uint64](sctx, slotSupply),
		balances: solidity.NewMapping[holdingKey, uint64](sctx, slotBalances),
		wishes:   solidity.NewMapping[thor.Address, *Wish](sctx, slotWishes),
		bindings: solidity.NewMapping[thor.Address, thor.Address](sctx, slotBindings),
	}
}

func (m *Market) Address() thor.Address {
	return m.sctx.Address()
}

func (m *Market) execute(fn func() error) error {
	st := m.sctx.State()
	rev := st.NewCheckpoint()
	if err := fn(); err != nil {
		st.RevertTo(rev)
		return err
	}
	return nil
}

func (m *Market) emit(name string, subject thor.Address, body any) error {
	ev, err := tx.NewEvent(m.Address(), name, subject, body)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	m.sctx.State().AddEvent(ev)
	return nil
}

// pay sends a non-zero amount held by the market.
func (m *Market) pay(to thor.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return m.token.Transfer(m.Address(), to, amount)
}

//
// Getters - no state change
//

func (m *Market) Config() (*Config, error) {
	cfg, err := m.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	if cfg == nil {
		return nil, ErrNotInitialized
	}
	return cfg, nil
}

func (m *Market) SharesSupply(subject thor.Address) (uint64, error) {
	supply, err := m.supply.Get(subject)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get supply")
	}
	return supply, nil
}

func (m *Market) SharesBalance(subject, holder thor.Address) (uint64, error) {
	bal, err := m.balances.Get(holdingKey{subject, holder})
	if err != nil {
		return 0, errors.Wrap(err, "failed to get share balance")
	}
	return bal, nil
}

// WishOf returns the wisher bound to subject, zero if none.
func (m *Market) WishOf(subject thor.Address) (thor.Address, error) {
	wisher, err := m.bindings.Get(subject)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get wish binding")
	}
	return wisher, nil
}

// GetWish returns the wish opened for wisher, nil if none.
func (m *Market) GetWish(wisher thor.Address) (*Wish, error) {
	w, err := m.wishes.Get(wisher)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wish")
	}
	return w, nil
}

// BuyQuote prices buying amount shares of subject at the current supply.
func (m *Market) BuyQuote(subject thor.Address, amount uint64) (*Quote, error) {
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	supply, err := m.SharesSupply(subject)
	if err != nil {
		return nil, err
	}
	return cfg.quote(supply, amount), nil
}

// SellQuote prices selling amount shares of subject at the current supply.
func (m *Market) SellQuote(subject thor.Address, amount uint64) (*Quote, error) {
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	supply, err := m.SharesSupply(subject)
	if err != nil {
		return nil, err
	}
	if amount > supply {
		return nil, ErrInsufficientShares
	}
	return cfg.quote(supply-amount, amount), nil
}

//
// Setters - state change
//

// Initialize stores cfg. A zero owner makes the caller the owner.
func (m *Market) Initialize(caller thor.Address, cfg Config) error {
	return m.execute(func() error {
		existing, err := m.config.Get()
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
		if err := m.config.Upsert(&cfg); err != nil {
			return errors.Wrap(err, "failed to set config")
		}
		logger.Info("share market initialized", "address", m.Address(), "owner", cfg.Owner)
		return nil
	})
}

func (m *Market) onlyOwner(caller thor.Address) (*Config, error) {
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Owner {
		return nil, ErrNotOwner
	}
	return cfg, nil
}

func (m *Market) onlyOwnerOrFactory(caller thor.Address) (*Config, error) {
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	if caller != cfg.Owner && (cfg.Factory.IsZero() || caller != cfg.Factory) {
		return nil, ErrNotOwnerOrFactory
	}
	return cfg, nil
}

func (m *Market) SetFeeDestination(caller, dest thor.Address) error {
	return m.execute(func() error {
		cfg, err := m.onlyOwner(caller)
		if err != nil {
			return err
		}
		ev := &AddressEvent{From: cfg.FeeDestination, To: dest}
		cfg.FeeDestination = dest
		if err := m.config.Upsert(cfg); err != nil {
			return errors.Wrap(err, "failed to set config")
		}
		return m.emit(EventFeeDestinationUpdated, dest, ev)
	})
}

func (m *Market) SetProtocolFeePercent(caller thor.Address, percent *big.Int) error {
	return m.setFees(caller, func(cfg *Config) { cfg.ProtocolFeePercent = percent })
}

func (m *Market) SetSubjectFeePercent(caller thor.Address, percent *big.Int) error {
	return m.setFees(caller, func(cfg *Config) { cfg.SubjectFeePercent = percent })
}

func (m *Market) setFees(caller thor.Address, set func(*Config)) error {
	return m.execute(func() error {
		cfg, err := m.onlyOwner(caller)
		if err != nil {
			return err
		}
		set(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := m.config.Upsert(cfg); err != nil {
			return errors.Wrap(err, "failed to set config")
		}
		return m.emit(EventFeePercentUpdated, caller, &FeePercentEvent{
			Protocol: cfg.ProtocolFeePercent,
			Subject:  cfg.SubjectFeePercent,
		})
	})
}

// BuyShares buys amount shares of subject for buyer. The payment is pulled
// from the buyer with TransferFrom; the market itself is the spender.
func (m *Market) BuyShares(buyer, subject thor.Address, amount uint64) (*Quote, error) {
	var quote *Quote
	err := m.execute(func() error {
		if amount == 0 {
			return ErrZeroAmount
		}
		cfg, err := m.Config()
		if err != nil {
			return err
		}
		supply, err := m.SharesSupply(subject)
		if err != nil {
			return err
		}
		if supply == 0 && buyer != subject {
			return ErrFirstShareBySubject
		}
		quote = cfg.quote(supply, amount)

		if total := quote.BuyTotal(); total.Sign() > 0 {
			if err := m.token.TransferFrom(m.Address(), buyer, m.Address(), total); err != nil {
				return err
			}
		}
		if err := m.pay(cfg.FeeDestination, quote.ProtocolFee); err != nil {
			return err
		}
		if err := m.paySubjectFee(subject, quote.SubjectFee); err != nil {
			return err
		}
		if err := m.adjust(subject, buyer, supply, int64(amount)); err != nil {
			return err
		}
		return m.emitTrade(buyer, subject, true, amount, quote, supply+amount)
	})
	metricTrades().AddWithLabel(1, map[string]string{"side": "buy", "status": status(err)})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// SellShares sells amount shares of subject held by seller.
func (m *Market) SellShares(seller, subject thor.Address, amount uint64) (*Quote, error) {
	var quote *Quote
	err := m.execute(func() error {
		if amount == 0 {
			return ErrZeroAmount
		}
		cfg, err := m.Config()
		if err != nil {
			return err
		}
		supply, err := m.SharesSupply(subject)
		if err != nil {
			return err
		}
		if supply <= amount {
			return ErrLastShare
		}
		bal, err := m.SharesBalance(subject, seller)
		if err != nil {
			return err
		}
		if bal < amount {
			return ErrInsufficientShares
		}
		quote = cfg.quote(supply-amount, amount)

		if err := m.adjust(subject, seller, supply, -int64(amount)); err != nil {
			return err
		}
		if err := m.pay(seller, quote.SellProceeds()); err != nil {
			return err
		}
		if err := m.pay(cfg.FeeDestination, quote.ProtocolFee); err != nil {
			return err
		}
		if err := m.paySubjectFee(subject, quote.SubjectFee); err != nil {
			return err
		}
		return m.emitTrade(seller, subject, false, amount, quote, supply-amount)
	})
	metricTrades().AddWithLabel(1, map[string]string{"side": "sell", "status": status(err)})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

func status(err error) string {
	if err == nil {
		return "ok"
	}
	if kind := reverts.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}

// adjust moves the supply and the holder's balance by delta shares.
func (m *Market) adjust(subject, holder thor.Address, supply uint64, delta int64) error {
	bal, err := m.SharesBalance(subject, holder)
	if err != nil {
		return err
	}
	bal = uint64(int64(bal) + delta)
	supply = uint64(int64(supply) + delta)
	if err := m.balances.Upsert(holdingKey{subject, holder}, bal); err != nil {
		return errors.Wrap(err, "failed to set share balance")
	}
	if err := m.supply.Upsert(subject, supply); err != nil {
		return errors.Wrap(err, "failed to set supply")
	}
	return nil
}

// paySubjectFee pays the subject, or reserves the fee when subject is an
// unbound wish. Fees of a bound wish go to the bound subject.
func (m *Market) paySubjectFee(subject thor.Address, fee *big.Int) error {
	wish, err := m.GetWish(subject)
	if err != nil {
		return err
	}
	if wish == nil {
		return m.pay(subject, fee)
	}
	if wish.bound() {
		return m.pay(wish.Subject, fee)
	}
	wish.Reserved = new(big.Int).Add(wish.Reserved, fee)
	if err := m.wishes.Update(subject, wish); err != nil {
		return errors.Wrap(err, "failed to update wish")
	}
	return nil
}

func (m *Market) emitTrade(trader, subject thor.Address, isBuy bool, amount uint64, q *Quote, supply uint64) error {
	logger.Debug("shares traded", "trader", trader, "subject", subject, "buy", isBuy, "amount", amount, "price", q.Price)
	return m.emit(EventTrade, subject, &TradeEvent{
		Trader:      trader,
		Subject:     subject,
		IsBuy:       isBuy,
		ShareAmount: amount,
		Price:       q.Price,
		ProtocolFee: q.ProtocolFee,
		SubjectFee:  q.SubjectFee,
		Supply:      supply,
	})
}

// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/corepool/log"
	"github.com/vechain/corepool/thor"
)

var logger = log.WithContext("pkg", "solidity")

// ConfigVariable is a uint32 tunable with a default, overridable by a non-zero storage slot.
type ConfigVariable struct {
	slot        thor.Bytes32
	name        string
	value       uint32
	initialised bool
}

func NewConfigVariable(name string, defaultValue uint32) *ConfigVariable {
	return &ConfigVariable{
		slot:  thor.BytesToBytes32([]byte(name)),
		name:  name,
		value: defaultValue,
	}
}

func (c *ConfigVariable) Get() uint32 {
	return c.value
}

func (c *ConfigVariable) Name() string {
	return c.name
}

func (c *ConfigVariable) Slot() thor.Bytes32 {
	return c.slot
}

// Override loads the stored value once. Reads are not metered.
func (c *ConfigVariable) Override(ctx *Context) {
	if c.initialised {
		return
	}
	storage, err := ctx.state.GetStorage(ctx.address, c.slot)
	if err != nil {
		logger.Warn("failed to read config value", "slot", c.Name(), "error", err)
		return
	}
	num := storage.Big()

	c.initialised = true

	if num.Sign() != 0 && num.IsUint64() && num.Uint64() <= uint64(^uint32(0)) {
		c.value = uint32(num.Uint64())
		logger.Debug("override found new config value", "slot", c.Name(), "value", c.Get())
	} else {
		logger.Debug("using default config value", "slot", c.Name(), "value", c.Get())
	}
}

// Store writes value to the slot and takes effect immediately.
func (c *ConfigVariable) Store(ctx *Context, value uint32) {
	ctx.meter.write(32)
	ctx.state.SetStorage(ctx.address, c.slot, thor.Uint64ToBytes32(uint64(value)))
	c.value = value
	c.initialised = true
}

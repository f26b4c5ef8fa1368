package params

import (
	"errors"

	"github.com/polkabridge/substrate-client/common/hexutil"
)

// CheckConfig check config
func (config *ClientConfig) CheckConfig() (err error) {
	if config.Gateway == nil {
		return errors.New("client must config 'Gateway'")
	}
	err = config.Gateway.CheckConfig()
	if err != nil {
		return err
	}
	if config.Chain == nil {
		return errors.New("client must config 'Chain'")
	}
	err = config.Chain.CheckConfig()
	if err != nil {
		return err
	}
	if config.Extrinsic != nil {
		err = config.Extrinsic.CheckConfig()
		if err != nil {
			return err
		}
	}
	return nil
}

// CheckConfig check gateway config
func (c *GatewayConfig) CheckConfig() error {
	if c.WSEndpoint == "" {
		return errors.New("gateway must config 'WSEndpoint'")
	}
	if c.RPCTimeout < 0 {
		return errors.New("gateway with negative 'RPCTimeout'")
	}
	return nil
}

// CheckConfig check chain config
func (c *ChainConfig) CheckConfig() error {
	if c.GenesisHash == "" {
		return errors.New("chain must config 'GenesisHash'")
	}
	b, err := hexutil.Decode(c.GenesisHash)
	if err != nil || len(b) != 32 {
		return errors.New("chain with wrong 'GenesisHash' (32 bytes hex with 0x prefix)")
	}
	if c.SpecVersion == 0 {
		return errors.New("chain must config 'SpecVersion'")
	}
	return nil
}

// CheckConfig check extrinsic config
func (c *ExtrinsicConfig) CheckConfig() error {
	switch c.Confirmation {
	case "", ConfirmInBlock, ConfirmFinalized:
	default:
		return errors.New("extrinsic with wrong 'Confirmation' (inblock or finalized)")
	}
	if c.WatchTimeout < 0 {
		return errors.New("extrinsic with negative 'WatchTimeout'")
	}
	if c.MaxSizeBytes < 0 {
		return errors.New("extrinsic with negative 'MaxSizeBytes'")
	}
	return nil
}

// Package params loads and validates the client configuration.
package params

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/polkabridge/substrate-client/log"
)

// confirmation policy names (see ConfirmationPolicy)
const (
	ConfirmInBlock   = "inblock"
	ConfirmFinalized = "finalized"
)

const (
	defaultRPCTimeout       = 60  // seconds
	defaultWatchTimeout     = 120 // seconds
	defaultMaxExtrinsicSize = 4 * 1024 * 1024
	defaultSS58Prefix       = 42
)

var (
	clientConfig      *ClientConfig
	loadConfigStarter sync.Once
)

// ClientConfig config items (decode from toml file)
type ClientConfig struct {
	Gateway   *GatewayConfig
	Chain     *ChainConfig
	Extrinsic *ExtrinsicConfig `toml:",omitempty" json:",omitempty"`
}

// GatewayConfig node rpc endpoints config
type GatewayConfig struct {
	WSEndpoint    string
	HTTPEndpoints []string `toml:",omitempty" json:",omitempty"`
	RPCTimeout    int      `toml:",omitempty" json:",omitempty"` // seconds
}

// ChainConfig chain identity config used in signature payloads
type ChainConfig struct {
	GenesisHash        string
	SpecVersion        uint32
	TransactionVersion uint32
	SS58Prefix         *uint8 `toml:",omitempty" json:",omitempty"`
}

// ExtrinsicConfig submission tunables
type ExtrinsicConfig struct {
	// Confirmation is the watch guarantee level, "inblock" or "finalized"
	Confirmation string `toml:",omitempty" json:",omitempty"`
	// WatchTimeout bounds waiting for the confirmation, in seconds
	WatchTimeout int `toml:",omitempty" json:",omitempty"`
	// MaxSizeBytes is the node enforced size limit of an encoded extrinsic
	MaxSizeBytes int `toml:",omitempty" json:",omitempty"`
}

// GetConfig get client config
func GetConfig() *ClientConfig {
	return clientConfig
}

// SetConfig set client config
func SetConfig(config *ClientConfig) {
	clientConfig = config
}

// GetGatewayConfig get gateway config
func GetGatewayConfig() *GatewayConfig {
	if config := GetConfig(); config != nil {
		return config.Gateway
	}
	return nil
}

// GetChainConfig get chain config
func GetChainConfig() *ChainConfig {
	if config := GetConfig(); config != nil {
		return config.Chain
	}
	return nil
}

// GetRPCTimeout rpc timeout in seconds
func GetRPCTimeout() int {
	gateway := GetGatewayConfig()
	if gateway == nil || gateway.RPCTimeout == 0 {
		return defaultRPCTimeout
	}
	return gateway.RPCTimeout
}

// GetSS58Prefix configured address network prefix
func GetSS58Prefix() uint8 {
	chain := GetChainConfig()
	if chain == nil || chain.SS58Prefix == nil {
		return defaultSS58Prefix
	}
	return *chain.SS58Prefix
}

// GetConfirmationPolicy configured watch guarantee level
func GetConfirmationPolicy() string {
	config := GetConfig()
	if config == nil || config.Extrinsic == nil || config.Extrinsic.Confirmation == "" {
		return ConfirmInBlock
	}
	return config.Extrinsic.Confirmation
}

// GetWatchTimeout bound of waiting for confirmation
func GetWatchTimeout() time.Duration {
	config := GetConfig()
	if config == nil || config.Extrinsic == nil || config.Extrinsic.WatchTimeout == 0 {
		return defaultWatchTimeout * time.Second
	}
	return time.Duration(config.Extrinsic.WatchTimeout) * time.Second
}

// GetMaxExtrinsicSize node enforced encoded extrinsic size limit
func GetMaxExtrinsicSize() int {
	config := GetConfig()
	if config == nil || config.Extrinsic == nil || config.Extrinsic.MaxSizeBytes == 0 {
		return defaultMaxExtrinsicSize
	}
	return config.Extrinsic.MaxSizeBytes
}

// LoadConfig load config from toml file, only once
func LoadConfig(configFile string) *ClientConfig {
	loadConfigStarter.Do(func() {
		loadConfigFile(configFile, true)
	})
	return clientConfig
}

func loadConfigFile(configFile string, fatalOnError bool) {
	if configFile == "" {
		if !fatalOnError {
			log.Error("reload config failed: no config file specified")
			return
		}
		log.Fatalf("LoadConfig error: no config file specified")
	}
	if _, err := os.Stat(configFile); err != nil {
		if !fatalOnError {
			log.Error("reload config failed: config file not exist", "configFile", configFile)
			return
		}
		log.Fatalf("LoadConfig error: config file %v not exist", configFile)
	}
	config := &ClientConfig{}
	if _, err := toml.DecodeFile(configFile, &config); err != nil {
		if !fatalOnError {
			log.Error("reload config failed (toml DecodeFile)", "configFile", configFile, "err", err)
			return
		}
		log.Fatalf("LoadConfig error (toml DecodeFile): %v", err)
	}
	if err := config.CheckConfig(); err != nil {
		if !fatalOnError {
			log.Error("reload config check failed", "configFile", configFile, "err", err)
			return
		}
		log.Fatalf("Check config failed. %v", err)
	}
	SetConfig(config)
	bs, _ := json.MarshalIndent(config, "", "  ")
	log.Println("LoadConfig finished.", string(bs))
}

package params

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigToml = `
[Gateway]
WSEndpoint = "ws://127.0.0.1:9944"
HTTPEndpoints = ["http://127.0.0.1:9933"]
RPCTimeout = 30

[Chain]
GenesisHash = "0x91b171bb158e2d3848fa23a9f1c25182fb8e20313b2c1eb49219da7a70ce90c3"
SpecVersion = 264
TransactionVersion = 2

[Extrinsic]
Confirmation = "finalized"
WatchTimeout = 60
MaxSizeBytes = 1048576
`

func decodeTestConfig(t *testing.T) *ClientConfig {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(testConfigToml), 0o600))
	config := &ClientConfig{}
	_, err := toml.DecodeFile(file, config)
	require.NoError(t, err)
	return config
}

func TestDecodeAndCheckConfig(t *testing.T) {
	config := decodeTestConfig(t)
	require.NoError(t, config.CheckConfig())

	assert.Equal(t, "ws://127.0.0.1:9944", config.Gateway.WSEndpoint)
	assert.Equal(t, uint32(264), config.Chain.SpecVersion)
	assert.Equal(t, ConfirmFinalized, config.Extrinsic.Confirmation)

	old := GetConfig()
	defer SetConfig(old)
	SetConfig(config)

	assert.Equal(t, 30, GetRPCTimeout())
	assert.Equal(t, uint8(42), GetSS58Prefix())
	assert.Equal(t, ConfirmFinalized, GetConfirmationPolicy())
	assert.Equal(t, 60*time.Second, GetWatchTimeout())
	assert.Equal(t, 1048576, GetMaxExtrinsicSize())
}

func TestCheckConfigErrors(t *testing.T) {
	config := decodeTestConfig(t)

	config.Gateway.WSEndpoint = ""
	assert.Error(t, config.CheckConfig())

	config = decodeTestConfig(t)
	config.Chain.GenesisHash = "0x1234"
	assert.Error(t, config.CheckConfig())

	config = decodeTestConfig(t)
	config.Extrinsic.Confirmation = "sometimes"
	assert.Error(t, config.CheckConfig())

	config = decodeTestConfig(t)
	config.Chain = nil
	assert.Error(t, config.CheckConfig())
}

func TestConfigDefaults(t *testing.T) {
	old := GetConfig()
	defer SetConfig(old)
	SetConfig(&ClientConfig{Gateway: &GatewayConfig{WSEndpoint: "ws://x"}, Chain: &ChainConfig{}})

	assert.Equal(t, defaultRPCTimeout, GetRPCTimeout())
	assert.Equal(t, uint8(defaultSS58Prefix), GetSS58Prefix())
	assert.Equal(t, ConfirmInBlock, GetConfirmationPolicy())
	assert.Equal(t, defaultWatchTimeout*time.Second, GetWatchTimeout())
	assert.Equal(t, defaultMaxExtrinsicSize, GetMaxExtrinsicSize())
}

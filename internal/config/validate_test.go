package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to build a device quickly
func device(name, port string, node uint8) DeviceConfig {
	return DeviceConfig{
		Name:     name,
		Port:     port,
		BaudRate: 19200,
		NodeID:   node,
	}
}

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	cfg := &Config{Devices: []DeviceConfig{device("d1", "/dev/ttyUSB0", 11)}}
	require.NoError(t, Validate(cfg))
}

func TestValidate_NoDevices(t *testing.T) {
	assert.Error(t, Validate(&Config{}))
}

func TestValidate_SamePortDifferentNodes(t *testing.T) {
	cfg := &Config{Devices: []DeviceConfig{
		device("d1", "/dev/ttyUSB0", 11),
		device("d2", "/dev/ttyUSB0", 12),
	}}
	require.NoError(t, Validate(cfg))
}

func TestValidate_NodeCollision(t *testing.T) {
	cfg := &Config{Devices: []DeviceConfig{
		device("d1", "/dev/ttyUSB0", 11),
		device("d2", "/dev/ttyUSB0", 11),
	}}
	assert.Error(t, Validate(cfg))
}

func TestValidate_SameNodeDifferentPorts(t *testing.T) {
	cfg := &Config{Devices: []DeviceConfig{
		device("d1", "/dev/ttyUSB0", 11),
		device("d2", "/dev/ttyUSB1", 11),
	}}
	require.NoError(t, Validate(cfg))
}

func TestValidate_ConflictingBaudOnSharedPort(t *testing.T) {
	d2 := device("d2", "/dev/ttyUSB0", 12)
	d2.BaudRate = 9600
	cfg := &Config{Devices: []DeviceConfig{device("d1", "/dev/ttyUSB0", 11), d2}}
	assert.Error(t, Validate(cfg))
}

func TestValidate_DuplicateName(t *testing.T) {
	cfg := &Config{Devices: []DeviceConfig{
		device("d1", "/dev/ttyUSB0", 11),
		device("d1", "/dev/ttyUSB1", 12),
	}}
	assert.Error(t, Validate(cfg))
}

func TestValidate_NodeRange(t *testing.T) {
	for _, node := range []uint8{0, 248, 255} {
		cfg := &Config{Devices: []DeviceConfig{device("d1", "/dev/ttyUSB0", node)}}
		assert.Error(t, Validate(cfg), "node=%d", node)
	}
}

func TestValidate_HalfDivider(t *testing.T) {
	d := device("d1", "/dev/ttyUSB0", 11)
	d.Divider.RVcc = 100000
	cfg := &Config{Devices: []DeviceConfig{d}}
	assert.Error(t, Validate(cfg))
}

func TestValidate_PollReads(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{device("d1", "/dev/ttyUSB0", 11)},
		Poll: PollConfig{Reads: []ReadConfig{
			{Ref: "vin", Convert: "voltage"},
			{Ref: "1102"},
		}},
	}
	require.NoError(t, Validate(cfg))

	cfg.Poll.Reads = append(cfg.Poll.Reads, ReadConfig{Ref: "out9"})
	assert.Error(t, Validate(cfg))

	cfg.Poll.Reads = []ReadConfig{{Ref: "vin", Convert: "kelvin"}}
	assert.Error(t, Validate(cfg))
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := &Config{
		Devices: []DeviceConfig{{Port: "/dev/ttyUSB0", NodeID: 11}},
		Poll:    PollConfig{Reads: []ReadConfig{{Ref: " VIN "}}},
	}
	require.NoError(t, Validate(cfg))
	Normalize(cfg)

	d := cfg.Devices[0]
	assert.Equal(t, DefaultBaudRate, d.BaudRate)
	assert.Equal(t, DefaultTimeoutMs, d.TimeoutMs)
	assert.Equal(t, DefaultDelayMs, d.DelayMs)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, DefaultPollIntervalMs, cfg.Poll.IntervalMs)
	assert.Equal(t, ReadConfig{Ref: "vin", Convert: "raw"}, cfg.Poll.Reads[0])
}

func TestLoad_File(t *testing.T) {
	const doc = `
devices:
  - name: kitchen
    port: /dev/ttyUSB0
    baud_rate: 19200
    node_id: 11
    delay_ms: 100
log:
  level: debug
poll:
  interval_ms: 500
  reads:
    - ref: vin
      convert: voltage
`
	path := filepath.Join(t.TempDir(), "dl485.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	d, err := cfg.Device("kitchen")
	require.NoError(t, err)
	assert.Equal(t, uint8(11), d.NodeID)
	assert.Equal(t, 100, d.DelayMs)

	_, err = cfg.Device("garage")
	assert.Error(t, err)

	first, err := cfg.Device("")
	require.NoError(t, err)
	assert.Equal(t, "kitchen", first.Name)
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte("devices: []\nbogus: 1\n"))
	assert.Error(t, err)
}

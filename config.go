package sx126x

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the board-level configuration a caller loads once at startup
// and uses to build the Pins, RxConfig and TxConfig values New/SetRxConfig/
// SetTxConfig expect. It carries no chip-runtime state - that lives on
// Radio - only the values that come from outside the process.
type Config struct {
	SPIPort         string `yaml:"spi_port" env:"SX126X_SPI_PORT" env-default:"/dev/spidev0.0"`
	SPISpeedHz      uint64 `yaml:"spi_speed_hz" env:"SX126X_SPI_SPEED_HZ" env-default:"10000000"`
	UseDCDC         bool   `yaml:"use_dc_dc" env:"SX126X_USE_DC_DC" env-default:"false"`
	PublicNetwork   bool   `yaml:"public_network" env:"SX126X_PUBLIC_NETWORK" env-default:"false"`
	Frequency       uint32 `yaml:"frequency_hz" env:"SX126X_FREQUENCY_HZ" env-default:"433000000"`
	SpreadingFactor uint8  `yaml:"spreading_factor" env:"SX126X_SF" env-default:"7"`
	Bandwidth       uint32 `yaml:"bandwidth_hz" env:"SX126X_BANDWIDTH_HZ" env-default:"125000"`
	CodingRate      uint8  `yaml:"coding_rate" env:"SX126X_CR" env-default:"1"`
	LowDataRateOpt  bool   `yaml:"low_data_rate_optimize" env:"SX126X_LDRO" env-default:"false"`
	PreambleLength  uint16 `yaml:"preamble_length" env:"SX126X_PREAMBLE_LEN" env-default:"8"`
	PayloadLength   uint8  `yaml:"payload_length" env:"SX126X_PAYLOAD_LEN" env-default:"32"`
	CRCOn           bool   `yaml:"crc" env:"SX126X_CRC" env-default:"true"`
	TxPower         int8   `yaml:"tx_power" env:"SX126X_TX_POWER" env-default:"14"`
	Pins            Pins   `yaml:"pins"`
}

// Pins names the GPIO lines an InterfaceVariant implementation wires to the
// chip's NSS, RESET, BUSY and DIO1 pins.
type Pins struct {
	NSS   string `yaml:"nss" env:"SX126X_GPIO_NSS" env-default:"GPIO8"`
	Reset string `yaml:"reset" env:"SX126X_GPIO_RESET" env-default:"GPIO22"`
	Busy  string `yaml:"busy" env:"SX126X_GPIO_BUSY" env-default:"GPIO23"`
	DIO1  string `yaml:"dio1" env:"SX126X_GPIO_DIO1" env-default:"GPIO24"`
}

// LoadConfig reads path if it exists, falling back to environment variables
// (with the defaults above) when it does not - the same two-path loading
// rule this module's ambient config tooling uses everywhere.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config file not found and failed to read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return cfg, nil
}

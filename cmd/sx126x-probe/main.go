// Command sx126x-probe brings up one SX126x chip over SPI, sends a single
// test payload and waits for a received reply, printing whatever the driver
// reports along the way. It's the bring-up tool you point at a new board
// before writing the application that actually uses the radio.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sx126x"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

func main() {
	if _, err := host.Init(); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigChan; cancel() }()

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	sendOnly := flag.Bool("send", false, "send one payload and exit instead of listening")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg, err := sx126x.LoadConfig(*configPath)
	if err != nil {
		logger.Error("critical error loading configuration", "error", err)
		os.Exit(1)
	}
	cfgJSON, _ := json.MarshalIndent(cfg, "", "  ")
	fmt.Printf("loaded config:\n%s\n", string(cfgJSON))

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		logger.Error("critical spi init failure", "error", err)
		os.Exit(1)
	}
	defer port.Close()

	bus, err := port.Connect(physic.Frequency(cfg.SPISpeedHz)*physic.Hertz, 0, 8)
	if err != nil {
		logger.Error("critical spi connect failure", "error", err)
		os.Exit(1)
	}

	iface := &sx126x.GPIOVariant{
		NSS:   gpioreg.ByName(cfg.Pins.NSS),
		Reset: gpioreg.ByName(cfg.Pins.Reset),
		Busy:  gpioreg.ByName(cfg.Pins.Busy),
		DIO1:  gpioreg.ByName(cfg.Pins.DIO1),
	}
	if iface.NSS == nil || iface.Reset == nil || iface.Busy == nil || iface.DIO1 == nil {
		logger.Error("missing gpio pin", "nss", cfg.Pins.NSS, "reset", cfg.Pins.Reset, "busy", cfg.Pins.Busy, "dio1", cfg.Pins.DIO1)
		os.Exit(1)
	}

	radio, err := sx126x.New(ctx, bus, iface, sx126x.RealDelay, cfg.UseDCDC, cfg.PublicNetwork)
	if err != nil {
		logger.Error("critical sx126x bring-up failure", "error", err)
		os.Exit(1)
	}

	if err := radio.SetChannel(ctx, cfg.Frequency); err != nil {
		logger.Error("set channel failed", "error", err)
		os.Exit(1)
	}

	txCfg := sx126x.TxConfig{
		SpreadingFactor:    cfg.SpreadingFactor,
		Bandwidth:          bandwidthFor(cfg.Bandwidth),
		CodingRate:         sx126x.LoRaCodingRate(cfg.CodingRate),
		LowDataRateOptimize: cfg.LowDataRateOpt,
		PreambleLength:     cfg.PreambleLength,
		CRCOn:              cfg.CRCOn,
		Power:              cfg.TxPower,
		RampTime:           sx126x.PaRamp200u,
	}

	payload := []byte("sx126x-probe")
	if err := radio.SetTxConfig(ctx, txCfg, uint8(len(payload))); err != nil {
		logger.Error("set tx config failed", "error", err)
		os.Exit(1)
	}
	if err := radio.Send(ctx, payload, 5*time.Second); err != nil {
		logger.Error("send failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sent probe payload", "bytes", len(payload))

	if *sendOnly {
		return
	}

	rxCfg := sx126x.RxConfig{
		SpreadingFactor:    cfg.SpreadingFactor,
		Bandwidth:          bandwidthFor(cfg.Bandwidth),
		CodingRate:         sx126x.LoRaCodingRate(cfg.CodingRate),
		LowDataRateOptimize: cfg.LowDataRateOpt,
		PreambleLength:     cfg.PreambleLength,
		PayloadLength:      cfg.PayloadLength,
		CRCOn:              cfg.CRCOn,
	}
	if err := radio.SetRxConfig(ctx, rxCfg); err != nil {
		logger.Error("set rx config failed", "error", err)
		os.Exit(1)
	}

	data, status, err := radio.Rx(ctx, -1)
	if err != nil {
		logger.Error("receive failed", "error", err)
		os.Exit(1)
	}
	logger.Info("received packet", "bytes", len(data), "rssi", status.RSSIPkt, "snr", status.SNR)
}

func bandwidthFor(hz uint32) sx126x.LoRaBandwidth {
	switch hz {
	case 250000:
		return sx126x.LoRaBW_250
	case 500000:
		return sx126x.LoRaBW_500
	default:
		return sx126x.LoRaBW_125
	}
}

// Package sx126x drives a Semtech SX126x-family LoRa radio transceiver over
// SPI. It covers the operating-mode state machine, the opcode/register
// protocol, modulation/packet parameter derivation and the IRQ-completion
// loop that resolves a transmit, receive or channel-activity-detection
// operation into success or a typed failure.
//
// FSK modulation, frequency hopping, listen-before-talk and LoRaWAN MAC
// encoding are out of scope; this package only drives the LoRa physical
// layer. The SPI bus, GPIO/IRQ lines and board-specific RF-switch/TCXO
// tables are supplied by the caller through the InterfaceVariant and
// periph.io/x/conn/v3/spi.Conn contracts.
package sx126x

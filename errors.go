package sx126x

import "errors"

//go:generate stringer -type=RadioError
type RadioError uint8

const (
	ErrSPI RadioError = iota
	ErrBusy
	ErrDelay
	ErrIRQ
	ErrInvalidBandwidth
	ErrPacketParamsMissing
	ErrRetentionListExceeded
	ErrInvalidFrequency
	ErrHeaderError
	ErrCRCErrorOnReceive
	ErrTransmitTimeout
	ErrReceiveTimeout
	ErrCRCErrorUnexpected
	ErrTimeoutUnexpected
	ErrTransmitDoneUnexpected
	ErrReceiveDoneUnexpected
	ErrCADUnexpected
)

var errMessages = map[RadioError]string{
	ErrSPI:                    "spi transaction failed",
	ErrBusy:                   "busy line did not clear in time",
	ErrDelay:                  "delay provider failed",
	ErrIRQ:                    "irq await failed",
	ErrInvalidBandwidth:       "bandwidth value has no Hz mapping",
	ErrPacketParamsMissing:    "packet params must be set before this operation",
	ErrRetentionListExceeded:  "retention list is full",
	ErrInvalidFrequency:       "requested RF frequency is out of range",
	ErrHeaderError:            "lora header crc error",
	ErrCRCErrorOnReceive:      "crc error while receiving",
	ErrTransmitTimeout:        "transmit timed out",
	ErrReceiveTimeout:         "receive timed out",
	ErrCRCErrorUnexpected:     "crc error irq raised outside of receive",
	ErrTimeoutUnexpected:      "timeout irq raised outside of transmit or receive",
	ErrTransmitDoneUnexpected: "tx done irq raised outside of a transmit operation",
	ErrReceiveDoneUnexpected:  "rx done irq raised outside of a receive operation",
	ErrCADUnexpected:          "cad done irq raised outside of a cad operation",
}

func (e RadioError) Error() string {
	if msg, ok := errMessages[e]; ok {
		return msg
	}
	return "unknown radio error"
}

// Is lets callers compare against the sentinel RadioError values with
// errors.Is even after they have been wrapped with fmt.Errorf("...: %w", err).
func (e RadioError) Is(target error) bool {
	var other RadioError
	if errors.As(target, &other) {
		return e == other
	}
	return false
}

// Package pix builds merchant-presented PIX payment codes (BR Code), the
// payload behind the QR code and the "copia e cola" text.
package pix

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	gui           = "br.gov.bcb.pix"
	formatVersion = "01"
	categoryCode  = "0000"
	currencyBRL   = "986"
	countryCode   = "BR"
	referenceNone = "***"
	crcHeader     = "6304"

	maxFieldLength = 99
	maxNameLength  = 25
	maxCityLength  = 15
)

var (
	// ErrInvalidFieldLength is returned when a field value does not fit the two-digit length prefix.
	ErrInvalidFieldLength = errors.New("pix: field value longer than 99 characters")
	// ErrMissingKey is returned when the payment key is empty.
	ErrMissingKey = errors.New("pix: payment key is required")
	// ErrInvalidKey is returned when the payment key has non-ASCII characters.
	ErrInvalidKey = errors.New("pix: payment key must be ASCII")
)

// Encode returns the full payload for the given receiver, terminated by its
// CRC field. A zero or negative amount leaves the amount open for the payer.
func Encode(key, merchantName, merchantCity string, amount decimal.Decimal) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrMissingKey
	}
	for _, r := range key {
		if r > unicode.MaxASCII {
			return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}

	account, err := joinFields(
		field{"00", gui},
		field{"01", key},
	)
	if err != nil {
		return "", err
	}
	additional, err := formatField("05", referenceNone)
	if err != nil {
		return "", err
	}

	fields := []field{
		{"00", formatVersion},
		{"26", account},
		{"52", categoryCode},
		{"53", currencyBRL},
	}
	if amount.IsPositive() {
		fields = append(fields, field{"54", amount.StringFixed(2)})
	}
	fields = append(fields,
		field{"58", countryCode},
		field{"59", truncate(ascii(merchantName), maxNameLength)},
		field{"60", truncate(ascii(merchantCity), maxCityLength)},
		field{"62", additional},
	)

	payload, err := joinFields(fields...)
	if err != nil {
		return "", err
	}
	payload += crcHeader
	return payload + Checksum(payload), nil
}

// Checksum computes CRC-16/CCITT-FALSE over data and renders it as four
// uppercase hex digits.
func Checksum(data string) string {
	crc := uint16(0xFFFF)
	for i := 0; i < len(data); i++ {
		crc ^= uint16(data[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}

type field struct {
	tag   string
	value string
}

func formatField(tag, value string) (string, error) {
	if len(value) > maxFieldLength {
		return "", fmt.Errorf("%w: tag %s has %d", ErrInvalidFieldLength, tag, len(value))
	}
	return fmt.Sprintf("%s%02d%s", tag, len(value), value), nil
}

func joinFields(fields ...field) (string, error) {
	var b strings.Builder
	for _, f := range fields {
		encoded, err := formatField(f.tag, f.value)
		if err != nil {
			return "", err
		}
		b.WriteString(encoded)
	}
	return b.String(), nil
}

// ascii strips diacritics ("Girão" -> "Girao") and drops anything still
// outside the ASCII range, so every character is one byte for the CRC.
func ascii(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, stripped)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

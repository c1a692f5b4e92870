package pix

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ericlevine/pixqr"
)

// Verify checks that s ends with a field 63 holding the CRC of everything
// before it.
func Verify(s string) error {
	if len(s) < len(crcPrefix)+4 {
		return fmt.Errorf("%w: payload too short", pixqr.ErrFormat)
	}
	body, got := s[:len(s)-4], s[len(s)-4:]
	if !strings.HasSuffix(body, crcPrefix) {
		return fmt.Errorf("%w: payload does not end with a CRC field", pixqr.ErrFormat)
	}
	if want := Checksum(body); !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: CRC is %s, computed %s", pixqr.ErrChecksum, got, want)
	}
	return nil
}

// Parse verifies s and reads it back into a Payload. The key type is
// inferred from the key.
func Parse(s string) (*Payload, error) {
	s = strings.TrimSpace(s)
	if err := Verify(s); err != nil {
		return nil, err
	}
	top, err := ParseTLV(s)
	if err != nil {
		return nil, err
	}
	if top[0].ID != idPayloadFormat || top[0].Value != payloadFormat {
		return nil, fmt.Errorf("%w: payload does not start with format indicator 01", pixqr.ErrFormat)
	}

	p := &Payload{}
	for _, f := range top {
		switch f.ID {
		case idMerchantAccount:
			account, err := ParseTLV(f.Value)
			if err != nil {
				return nil, err
			}
			if gui, _ := lookup(account, idGUI); !strings.EqualFold(gui, pixGUI) {
				return nil, fmt.Errorf("%w: merchant account is not a PIX account: %q", pixqr.ErrFormat, gui)
			}
			p.Key, _ = lookup(account, idKey)
			p.Description, _ = lookup(account, idDescription)
		case idCurrency:
			if f.Value != currencyBRL {
				return nil, fmt.Errorf("%w: currency %s is not BRL", pixqr.ErrFormat, f.Value)
			}
		case idAmount:
			v, err := strconv.ParseFloat(f.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: amount %q", pixqr.ErrInvalidAmount, f.Value)
			}
			p.Amount = &v
		case idMerchantName:
			p.Name = f.Value
		case idMerchantCity:
			p.City = f.Value
		case idAdditionalData:
			data, err := ParseTLV(f.Value)
			if err != nil {
				return nil, err
			}
			p.TransactionID, _ = lookup(data, idTransactionID)
		case idExpiration:
			secs, err := strconv.ParseInt(f.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: expiration %q", pixqr.ErrFormat, f.Value)
			}
			p.Expiration = expirationEpoch.Add(time.Duration(secs) * time.Second)
		}
	}
	if p.Key == "" {
		return nil, pixqr.ErrMissingKey
	}
	p.KeyType = InferKeyType(p.Key)
	return p, nil
}

// Package pix builds, parses and verifies PIX "BR Code" payloads, the EMV
// merchant presented QR Code format used by Brazil's instant payment
// system.
package pix

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ericlevine/pixqr"
)

// Field IDs, in emission order.
const (
	idPayloadFormat   = "00"
	idMerchantAccount = "26"
	idCategoryCode    = "52"
	idCurrency        = "53"
	idAmount          = "54"
	idCountryCode     = "58"
	idMerchantName    = "59"
	idMerchantCity    = "60"
	idAdditionalData  = "62"
	idExpiration      = "80"
	idCRC             = "63"

	// Inside 26.
	idGUI         = "00"
	idKey         = "01"
	idDescription = "02"

	// Inside 62.
	idTransactionID = "05"
)

const (
	payloadFormat = "01"
	pixGUI        = "BR.GOV.BCB.PIX"
	categoryCode  = "0000"
	currencyBRL   = "986"
	countryCode   = "BR"
	crcPrefix     = idCRC + "04"

	maxAmount = 9999999999.99

	// maxKeyLength leaves room for the GUI inside field 26.
	maxKeyLength = maxFieldLength - (4 + len(pixGUI)) - 4
)

// expirationEpoch is the origin of field 80.
var expirationEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Payload is the input of a BR Code.
type Payload struct {
	Key string
	// KeyType is inferred from Key when KeyAuto.
	KeyType KeyType

	Name string
	City string

	// Amount is omitted from the code when nil, leaving it to the payer.
	Amount *float64

	TransactionID string
	Description   string

	// Expiration is only written by BuildManual.
	Expiration time.Time
}

// Amount returns a pointer to v, for Payload.Amount.
func Amount(v float64) *float64 { return &v }

// fields holds the values of a payload ready to be written.
type fields struct {
	key, description string
	amount           string
	name, city       string
	transactionID    string
	expiration       string
}

// Build returns the BR Code for p. Missing key, name or city, a key that
// does not match its type, an amount out of range and any field longer
// than 99 characters are errors.
func Build(p Payload) (string, error) {
	f, err := prepare(p)
	if err != nil {
		return "", err
	}
	kt := p.KeyType
	if kt == KeyAuto {
		kt = InferKeyType(p.Key)
	}
	if err := validateKey(f.key, kt, p.KeyType != KeyAuto); err != nil {
		return "", err
	}
	return write(f, false)
}

// BuildManual is the lenient counterpart of Build, for keys and fields that
// Build rejects. It does not check the key shape, cuts long fields to 99
// characters and writes the expiration to field 80 as seconds since
// 2000-01-01 UTC.
func BuildManual(p Payload) (string, error) {
	f, err := prepare(p)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(f.key) > maxKeyLength {
		f.key = truncate(f.key, maxKeyLength)
		f.description = ""
	}
	if !p.Expiration.IsZero() {
		f.expiration = strconv.FormatInt(int64(p.Expiration.Sub(expirationEpoch)/time.Second), 10)
	}
	return write(f, true)
}

func prepare(p Payload) (*fields, error) {
	if strings.TrimSpace(p.Key) == "" {
		return nil, pixqr.ErrMissingKey
	}
	f := &fields{
		key:           FormatKey(p.Key, p.KeyType),
		name:          Normalize(p.Name, maxNameLength),
		city:          Normalize(p.City, maxCityLength),
		transactionID: keepAlphanumeric(p.TransactionID, maxTransactionIDLength),
	}
	if f.name == "" {
		return nil, pixqr.ErrMissingName
	}
	if f.city == "" {
		return nil, pixqr.ErrMissingCity
	}
	if p.Amount != nil {
		v := *p.Amount
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxAmount {
			return nil, fmt.Errorf("%w: %v", pixqr.ErrInvalidAmount, v)
		}
		f.amount = strconv.FormatFloat(v, 'f', 2, 64)
	}
	// 26 holds the GUI, the key and the description, each with a 4
	// character header.
	if room := maxFieldLength - (4 + len(pixGUI)) - (4 + utf8.RuneCountInString(f.key)) - 4; room > 0 {
		f.description = Normalize(p.Description, room)
	}
	return f, nil
}

func write(f *fields, lenient bool) (string, error) {
	w := &tlvWriter{lenient: lenient}
	w.field(idPayloadFormat, payloadFormat)
	w.template(idMerchantAccount, func(w *tlvWriter) {
		w.field(idGUI, pixGUI)
		w.field(idKey, f.key)
		w.optional(idDescription, f.description)
	})
	w.field(idCategoryCode, categoryCode)
	w.field(idCurrency, currencyBRL)
	w.optional(idAmount, f.amount)
	w.field(idCountryCode, countryCode)
	w.field(idMerchantName, f.name)
	w.field(idMerchantCity, f.city)
	w.template(idAdditionalData, func(w *tlvWriter) {
		w.optional(idTransactionID, f.transactionID)
	})
	w.optional(idExpiration, f.expiration)
	if w.err != nil {
		return "", w.err
	}
	payload := w.String() + crcPrefix
	return payload + Checksum(payload), nil
}

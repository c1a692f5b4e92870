// Package invoice turns billing invoices into PIX QR Codes: it builds the
// BR Code for an invoice and renders it as an image data URL, singly,
// asynchronously or in batches.
package invoice

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericlevine/pixqr/pix"
	"github.com/ericlevine/pixqr/qrcode"
	"github.com/ericlevine/pixqr/qrcode/encoder"
)

// DefaultCity is used when an invoice has no city.
const DefaultCity = "SAO PAULO"

// Logf is a printf-like logging function. It must be safe for concurrent
// use.
type Logf func(format string, args ...any)

// Discard is a Logf that throws away the logs given to it.
func Discard(string, ...any) {}

// Invoice is the payment side of a billing invoice.
type Invoice struct {
	PixKey string
	// PixKeyType is inferred from PixKey when pix.KeyAuto.
	PixKeyType pix.KeyType
	// Amount in BRL. Zero leaves the amount to the payer.
	Amount          float64
	TransactionID   string
	BeneficiaryName string
	City            string
	Description     string
	ExpirationDate  time.Time
}

func (inv Invoice) payload() pix.Payload {
	p := pix.Payload{
		Key:           inv.PixKey,
		KeyType:       inv.PixKeyType,
		Name:          inv.BeneficiaryName,
		City:          inv.City,
		TransactionID: inv.TransactionID,
		Description:   inv.Description,
		Expiration:    inv.ExpirationDate,
	}
	if p.City == "" {
		p.City = DefaultCity
	}
	if inv.Amount != 0 {
		p.Amount = pix.Amount(inv.Amount)
	}
	return p
}

// Result is a generated code.
type Result struct {
	// Payload is the BR Code text.
	Payload string
	// DataURL is the rendered QR Code image.
	DataURL string
}

// Generator builds and renders invoice codes. The zero value uses the
// default encoder and render options and does not log.
type Generator struct {
	Logf   Logf
	QR     *encoder.Options
	Render *qrcode.RenderOptions
}

func (g *Generator) logf(format string, args ...any) {
	if g.Logf != nil {
		g.Logf(format, args...)
	}
}

// Payload returns the BR Code for inv. The strict builder is tried first;
// if it fails the lenient builder is tried, and if that fails too the
// strict builder's error is returned.
func (g *Generator) Payload(inv Invoice) (string, error) {
	p := inv.payload()
	code, err := pix.Build(p)
	if err == nil {
		return code, nil
	}
	g.logf("invoice %q: building BR Code: %v; retrying with the manual builder", inv.TransactionID, err)
	code, manualErr := pix.BuildManual(p)
	if manualErr != nil {
		g.logf("invoice %q: manual BR Code builder: %v", inv.TransactionID, manualErr)
		return "", err
	}
	return code, nil
}

// Generate builds the BR Code for inv and renders it as a data URL.
func (g *Generator) Generate(inv Invoice) (*Result, error) {
	code, err := g.Payload(inv)
	if err != nil {
		return nil, err
	}
	url, err := qrcode.ToDataURL(code, g.QR, g.Render)
	if err != nil {
		g.logf("invoice %q: rendering QR code: %v", inv.TransactionID, err)
		return nil, err
	}
	return &Result{Payload: code, DataURL: url}, nil
}

// Outcome is the result of an asynchronous generation.
type Outcome struct {
	Result *Result
	Err    error
}

// GenerateAsync runs Generate on its own goroutine. The returned channel
// receives exactly one Outcome and is then closed. If ctx is done before
// the code is ready, the Outcome carries ctx's error instead.
func (g *Generator) GenerateAsync(ctx context.Context, inv Invoice) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		if err := ctx.Err(); err != nil {
			ch <- Outcome{Err: err}
			return
		}
		res, err := g.Generate(inv)
		if ctxErr := ctx.Err(); ctxErr != nil {
			ch <- Outcome{Err: ctxErr}
			return
		}
		ch <- Outcome{Result: res, Err: err}
	}()
	return ch
}

// GenerateBatch generates codes for invs with at most limit running at
// once; limit < 1 means no limit. Results are in input order. The first
// error cancels the invoices not yet started and is returned.
func (g *Generator) GenerateBatch(ctx context.Context, invs []Invoice, limit int) ([]*Result, error) {
	results := make([]*Result, len(invs))
	eg, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, inv := range invs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := g.Generate(inv)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var defaultGenerator = &Generator{}

// GeneratePixQRCode returns the QR Code data URL for inv using default
// options.
func GeneratePixQRCode(inv Invoice) (string, error) {
	res, err := defaultGenerator.Generate(inv)
	if err != nil {
		return "", err
	}
	return res.DataURL, nil
}

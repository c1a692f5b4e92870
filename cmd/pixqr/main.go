// Command pixqr builds, renders, parses and scans PIX BR Codes.
//
//	pixqr encode [options] [text ...]
//	pixqr payload -k key -n name [-c city] [-a amount] [options]
//	pixqr parse brcode
//	pixqr scan image ...
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ericlevine/pixqr"
	"github.com/ericlevine/pixqr/invoice"
	"github.com/ericlevine/pixqr/pix"
	"github.com/ericlevine/pixqr/qrcode"
	"github.com/ericlevine/pixqr/qrcode/decoder"
	"github.com/ericlevine/pixqr/qrcode/encoder"
)

type command struct {
	name  string
	usage string
	run   func(args []string) error
}

var commands = []command{
	{"encode", "render text as a QR Code", runEncode},
	{"payload", "build a PIX BR Code", runPayload},
	{"parse", "check and print the fields of a BR Code", runParse},
	{"scan", "read QR Codes from image files", runScan},
}

var (
	stdout io.Writer = os.Stdout
	logger *zap.SugaredLogger
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pixqr command [options] [arguments]\n\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
	fmt.Fprintln(w, "\nRun 'pixqr command -h' for the options of a command.")
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	name := os.Args[1]
	if name == "-h" || name == "--help" || name == "help" {
		usage(os.Stdout)
		return
	}
	for _, c := range commands {
		if c.name != name {
			continue
		}
		err := c.run(os.Args[1:])
		if logger != nil {
			_ = logger.Sync()
		}
		switch {
		case err == nil:
		case errors.Is(err, errUsage):
			os.Exit(2)
		default:
			fmt.Fprintln(os.Stderr, "pixqr:", err)
			os.Exit(1)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "pixqr: unknown command %q\n", name)
	usage(os.Stderr)
	os.Exit(2)
}

var errUsage = errors.New("usage")

// newLogger returns a development logger on stderr, at warn level unless
// verbose.
func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// flagSet wraps a getopt set with the options every command shares.
type flagSet struct {
	*getopt.Set
	help    bool
	verbose bool
}

func newFlagSet(name, params string) *flagSet {
	fs := &flagSet{Set: getopt.New()}
	fs.SetProgram("pixqr " + name)
	fs.SetParameters(params)
	fs.FlagLong(&fs.help, "help", 'h', "show this help")
	fs.FlagLong(&fs.verbose, "verbose", 'V', "log debugging output")
	return fs
}

// parse parses args and sets up the logger. It returns errUsage after
// printing the usage when asked for help or given bad options.
func (fs *flagSet) parse(args []string) error {
	if err := fs.Getopt(args, nil); err != nil {
		fmt.Fprintln(os.Stderr, "pixqr:", err)
		fs.PrintUsage(os.Stderr)
		return errUsage
	}
	if fs.help {
		fs.PrintUsage(os.Stdout)
		return errUsage
	}
	l, err := newLogger(fs.verbose)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// renderFlags are the output options of encode and payload.
type renderFlags struct {
	ecLevel string
	version int
	mask    int
	kanji   bool
	scale   string
	width   int
	margin  int
	dark    string
	light   string
	output  string
	format  string
}

func (rf *renderFlags) register(fs *flagSet) {
	rf.ecLevel = "M"
	rf.mask = -1
	rf.margin = -1
	fs.FlagLong(&rf.ecLevel, "level", 'e', "error correction level: L, M, Q or H", "level")
	fs.FlagLong(&rf.version, "symbol-version", 'v', "symbol version 1-40 (default: smallest that fits)", "n")
	fs.FlagLong(&rf.mask, "mask", 'm', "data mask 0-7 (default: lowest penalty)", "n")
	fs.FlagLong(&rf.kanji, "kanji", 'K', "use Kanji mode for Shift JIS text")
	fs.FlagLong(&rf.scale, "scale", 's', "pixels per module", "scale")
	fs.FlagLong(&rf.width, "width", 'w', "image width in pixels, overrides -s", "px")
	fs.FlagLong(&rf.margin, "margin", 'M', "quiet zone in modules (default: 4)", "n")
	fs.FlagLong(&rf.dark, "dark", 'd', "dark module colour, #rrggbb[aa]", "colour")
	fs.FlagLong(&rf.light, "light", 'l', "light module colour, #rrggbb[aa]", "colour")
	fs.FlagLong(&rf.output, "output", 'o', "output file; the type follows the extension", "file")
	fs.FlagLong(&rf.format, "type", 't', "stdout format: utf8, svg, png or jpeg", "type")
}

func (rf *renderFlags) options() (*encoder.Options, *qrcode.RenderOptions, error) {
	ecl, err := decoder.ParseECLevel(rf.ecLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %q", pixqr.ErrInvalidECLevel, rf.ecLevel)
	}
	qrOpts := &encoder.Options{ECLevel: ecl, Version: rf.version, MaskPattern: rf.mask}
	if rf.kanji {
		qrOpts.Kanji = encoder.ShiftJIS
	}
	renderOpts := &qrcode.RenderOptions{Width: rf.width, Dark: rf.dark, Light: rf.light}
	if rf.scale != "" {
		scale, err := strconv.ParseFloat(rf.scale, 64)
		if err != nil || scale <= 0 {
			return nil, nil, fmt.Errorf("invalid scale %q", rf.scale)
		}
		renderOpts.Scale = scale
	}
	if rf.margin >= 0 {
		renderOpts.Margin = qrcode.Margin(rf.margin)
	}
	return qrOpts, renderOpts, nil
}

// write renders code to the output file, or to stdout as text on a
// terminal and as a PNG image otherwise.
func (rf *renderFlags) write(code *encoder.QRCode, opts *qrcode.RenderOptions) error {
	if rf.output != "" && rf.output != "-" {
		logger.Debugw("writing file", "path", rf.output, "version", code.Version.Number, "mask", code.MaskPattern)
		return qrcode.ToFile(rf.output, code, opts)
	}
	format := rf.format
	if format == "" {
		format = "png"
		if f, ok := stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "utf8"
		}
	}
	w := bufio.NewWriter(stdout)
	var err error
	switch strings.ToLower(format) {
	case "utf8", "txt", "terminal":
		err = qrcode.ToTerminal(w, code, opts)
	case "svg":
		err = qrcode.ToSVG(w, code, opts)
	case "png":
		err = qrcode.ToPNG(w, code, opts)
	case "jpeg", "jpg":
		err = qrcode.ToJPEG(w, code, opts)
	default:
		return fmt.Errorf("%w: output type %q", pixqr.ErrFormat, format)
	}
	if err != nil {
		return err
	}
	return w.Flush()
}

func runEncode(args []string) error {
	fs := newFlagSet("encode", "[text ...]")
	var rf renderFlags
	rf.register(fs)
	if err := fs.parse(args); err != nil {
		return err
	}
	qrOpts, renderOpts, err := rf.options()
	if err != nil {
		return err
	}

	var text string
	if rest := fs.Args(); len(rest) > 0 {
		text = strings.Join(rest, " ")
	} else {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
		text = strings.TrimSuffix(string(b), "\n")
	}

	code, err := qrcode.Create(text, qrOpts)
	if err != nil {
		return err
	}
	logger.Debugw("encoded", "version", code.Version.Number, "level", code.ECLevel, "recovery", code.ECLevel.Recovery(), "mask", code.MaskPattern, "segments", len(code.Segments))
	return rf.write(code, renderOpts)
}

func runPayload(args []string) error {
	fs := newFlagSet("payload", "")
	var (
		inv     invoice.Invoice
		amount  string
		expiry  string
		showQR  bool
		rf      renderFlags
		keyType string
	)
	fs.FlagLong(&inv.PixKey, "key", 'k', "PIX key", "key")
	fs.FlagLong(&keyType, "key-type", 'T', "key type: email, phone, cpf, cnpj, random or uuid (default: inferred)", "type")
	fs.FlagLong(&inv.BeneficiaryName, "name", 'n', "merchant name", "name")
	fs.FlagLong(&inv.City, "city", 'c', "merchant city (default: "+invoice.DefaultCity+")", "city")
	fs.FlagLong(&amount, "amount", 'a', "amount in BRL", "amount")
	fs.FlagLong(&inv.TransactionID, "txid", 'i', "transaction id", "txid")
	fs.FlagLong(&inv.Description, "description", 'D', "description shown to the payer", "text")
	fs.FlagLong(&expiry, "expires", 'x', "expiration, RFC 3339 or YYYY-MM-DD", "time")
	fs.FlagLong(&showQR, "qr", 'q', "render the code as a QR Code after the text")
	rf.register(fs)
	if err := fs.parse(args); err != nil {
		return err
	}

	if amount != "" {
		v, err := strconv.ParseFloat(strings.Replace(amount, ",", ".", 1), 64)
		if err != nil {
			return fmt.Errorf("%w: %q", pixqr.ErrInvalidAmount, amount)
		}
		inv.Amount = v
	}
	if expiry != "" {
		t, err := parseTime(expiry)
		if err != nil {
			return err
		}
		inv.ExpirationDate = t
	}

	if keyType != "" {
		kt, err := pix.ParseKeyType(keyType)
		if err != nil {
			return err
		}
		inv.PixKeyType = kt
	}

	gen := &invoice.Generator{Logf: logger.Warnf}
	code, err := gen.Payload(inv)
	if err != nil {
		return err
	}
	if !inv.ExpirationDate.IsZero() {
		if p, err := pix.Parse(code); err == nil && p.Expiration.IsZero() {
			logger.Warnw("expiration is only written by the manual builder; ignored", "expires", inv.ExpirationDate)
		}
	}
	fmt.Fprintln(stdout, code)

	if !showQR {
		return nil
	}
	qrOpts, renderOpts, err := rf.options()
	if err != nil {
		return err
	}
	qr, err := qrcode.Create(code, qrOpts)
	if err != nil {
		return err
	}
	return rf.write(qr, renderOpts)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func runParse(args []string) error {
	fs := newFlagSet("parse", "brcode")
	if err := fs.parse(args); err != nil {
		return err
	}
	if len(fs.Args()) != 1 {
		fs.PrintUsage(os.Stderr)
		return errUsage
	}
	p, err := pix.Parse(strings.TrimSpace(fs.Args()[0]))
	if err != nil {
		return err
	}
	printPayload(stdout, p)
	return nil
}

func runScan(args []string) error {
	fs := newFlagSet("scan", "image ...")
	var raw bool
	fs.FlagLong(&raw, "raw", 'r', "print the decoded text without parsing it as a BR Code")
	if err := fs.parse(args); err != nil {
		return err
	}
	if len(fs.Args()) == 0 {
		fs.PrintUsage(os.Stderr)
		return errUsage
	}

	var failed error
	for _, path := range fs.Args() {
		text, err := qrcode.ScanFile(path)
		if err != nil {
			logger.Errorw("scan failed", "path", path, "error", err)
			failed = err
			continue
		}
		logger.Debugw("scanned", "path", path, "length", len(text))
		if raw {
			fmt.Fprintln(stdout, text)
			continue
		}
		p, err := pix.Parse(text)
		if err != nil {
			logger.Warnw("not a BR Code", "path", path, "error", err)
			fmt.Fprintln(stdout, text)
			continue
		}
		if len(fs.Args()) > 1 {
			fmt.Fprintf(stdout, "%s:\n", path)
		}
		printPayload(stdout, p)
	}
	return failed
}

func printPayload(w io.Writer, p *pix.Payload) {
	fmt.Fprintf(w, "key:\t%s (%s)\n", pix.DisplayKey(p.Key, p.KeyType), p.KeyType)
	fmt.Fprintf(w, "name:\t%s\n", p.Name)
	fmt.Fprintf(w, "city:\t%s\n", p.City)
	if p.Amount != nil {
		fmt.Fprintf(w, "amount:\t%.2f\n", *p.Amount)
	}
	if p.TransactionID != "" {
		fmt.Fprintf(w, "txid:\t%s\n", p.TransactionID)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "info:\t%s\n", p.Description)
	}
	if !p.Expiration.IsZero() {
		fmt.Fprintf(w, "expires:\t%s\n", p.Expiration.Format(time.RFC3339))
	}
}

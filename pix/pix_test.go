package pix

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/ericlevine/pixqr"
)

const (
	fieldOrderCode = "00020126330014BR.GOV.BCB.PIX0111119999999995204000053039865405" +
		"10.505802BR5910JOAO SILVA6009SAO PAULO6304CE3F"
	emailCode = "00020126570014BR.GOV.BCB.PIX0118fulano@example.com0213ALUGUEL MARCO" +
		"5204000053039865802BR5919CONDOMINIO SAO JOSE6009SAO PAULO62200516FAT2024031500001" +
		"6304D2F8"
	manualCode = "00020126360014BR.GOV.BCB.PIX0114+55119876543215204000053039865406" +
		"150.005802BR5905MARIA6008CURITIBA8009789004799630417D8"
)

func TestCRC16(t *testing.T) {
	tests := []struct {
		in   string
		want uint16
	}{
		{"123456789", 0x29B1},
		{"", 0xFFFF},
		{"A", 0xB915},
	}
	for _, test := range tests {
		if got := CRC16([]byte(test.in)); got != test.want {
			t.Errorf("CRC16(%q) = %04X, want %04X", test.in, got, test.want)
		}
	}
	if got := Checksum("123456789"); got != "29B1" {
		t.Errorf("Checksum = %q, want 29B1", got)
	}
}

func TestBuildFieldOrder(t *testing.T) {
	code, err := Build(Payload{
		Key:    "11999999999",
		Name:   "JOAO SILVA",
		City:   "SAO PAULO",
		Amount: Amount(10.5),
	})
	if err != nil {
		t.Fatal(err)
	}
	if code != fieldOrderCode {
		t.Errorf("Build =\n%s\nwant\n%s", code, fieldOrderCode)
	}

	fields, err := ParseTLV(code)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, f := range fields {
		ids = append(ids, f.ID)
	}
	if diff := cmp.Diff([]string{"00", "26", "52", "53", "54", "58", "59", "60", "63"}, ids); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}
	if v, _ := lookup(fields, "54"); v != "10.50" {
		t.Errorf("field 54 = %q, want 10.50", v)
	}
	crc, _ := lookup(fields, "63")
	if want := Checksum(code[:len(code)-4]); crc != want {
		t.Errorf("field 63 = %q, recomputed %q", crc, want)
	}
}

func TestBuildNormalisesFields(t *testing.T) {
	code, err := Build(Payload{
		Key:           "Fulano@Example.com",
		Name:          "Condomínio São José",
		City:          "São Paulo",
		TransactionID: "FAT-2024-0315-00001",
		Description:   "Aluguel março",
	})
	if err != nil {
		t.Fatal(err)
	}
	if code != emailCode {
		t.Errorf("Build =\n%s\nwant\n%s", code, emailCode)
	}
}

func TestBuildManual(t *testing.T) {
	p := Payload{
		Key:        "+55 11 98765-4321",
		Name:       "Maria",
		City:       "Curitiba",
		Amount:     Amount(150),
		Expiration: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	code, err := BuildManual(p)
	if err != nil {
		t.Fatal(err)
	}
	if code != manualCode {
		t.Errorf("BuildManual =\n%s\nwant\n%s", code, manualCode)
	}

	// Both builders share one writer: without field 80 they agree.
	p.Expiration = time.Time{}
	strict, err := Build(p)
	if err != nil {
		t.Fatal(err)
	}
	lenient, err := BuildManual(p)
	if err != nil {
		t.Fatal(err)
	}
	if strict != lenient {
		t.Errorf("Build and BuildManual differ:\n%s\n%s", strict, lenient)
	}
}

func TestBuildManualClampsLongKey(t *testing.T) {
	p := Payload{Key: strings.Repeat("k", 90), Name: "Maria", City: "Curitiba"}
	if _, err := Build(p); !errors.Is(err, pixqr.ErrFieldTooLong) {
		t.Fatalf("Build err = %v, want ErrFieldTooLong", err)
	}
	code, err := BuildManual(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := Verify(code); err != nil {
		t.Fatal(err)
	}
	parsed, err := Parse(code)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(parsed.Key); got != maxKeyLength {
		t.Errorf("key length = %d, want %d", got, maxKeyLength)
	}
}

func TestBuildErrors(t *testing.T) {
	valid := Payload{Key: "fulano@example.com", Name: "Maria", City: "Curitiba"}
	tests := []struct {
		name   string
		modify func(p *Payload)
		want   error
	}{
		{"missing key", func(p *Payload) { p.Key = "  " }, pixqr.ErrMissingKey},
		{"missing name", func(p *Payload) { p.Name = "" }, pixqr.ErrMissingName},
		{"name without word characters", func(p *Payload) { p.Name = "!!!" }, pixqr.ErrMissingName},
		{"missing city", func(p *Payload) { p.City = "" }, pixqr.ErrMissingCity},
		{"negative amount", func(p *Payload) { p.Amount = Amount(-1) }, pixqr.ErrInvalidAmount},
		{"NaN amount", func(p *Payload) { p.Amount = Amount(math.NaN()) }, pixqr.ErrInvalidAmount},
		{"infinite amount", func(p *Payload) { p.Amount = Amount(math.Inf(1)) }, pixqr.ErrInvalidAmount},
		{"huge amount", func(p *Payload) { p.Amount = Amount(1e11) }, pixqr.ErrInvalidAmount},
		{"bad email", func(p *Payload) { p.Key = "fulano@example" }, pixqr.ErrInvalidKey},
		{"random not a uuid", func(p *Payload) { p.Key, p.KeyType = "abc", KeyRandom }, pixqr.ErrInvalidKey},
		{"short cpf", func(p *Payload) { p.Key, p.KeyType = "123", KeyCPF }, pixqr.ErrInvalidKey},
		{"short phone", func(p *Payload) { p.Key, p.KeyType = "123", KeyPhone }, pixqr.ErrInvalidKey},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := valid
			test.modify(&p)
			if _, err := Build(p); !errors.Is(err, test.want) {
				t.Errorf("Build err = %v, want %v", err, test.want)
			}
		})
	}

	// Lenient building still needs the mandatory fields.
	p := valid
	p.Key = ""
	if _, err := BuildManual(p); !errors.Is(err, pixqr.ErrMissingKey) {
		t.Errorf("BuildManual err = %v, want ErrMissingKey", err)
	}
	p = valid
	p.Key, p.KeyType = "abc", KeyRandom
	if _, err := BuildManual(p); err != nil {
		t.Errorf("BuildManual with a non-uuid random key: %v", err)
	}
}

func TestBuildRandomKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		kt   KeyType
		want string
	}{
		{
			"inferred", "123e4567-e89b-12d3-a456-426614174000", KeyAuto,
			"00020126540014BR.GOV.BCB.PIX0132123e4567e89b12d3a456426614174000" +
				"5204000053039865802BR5904JOSE6003RIO6304F8A6",
		},
		{
			"hyphenated uuid", "123E4567-E89B-12D3-A456-426614174000", KeyRandomUUID,
			"00020126580014BR.GOV.BCB.PIX0136123e4567-e89b-12d3-a456-426614174000" +
				"5204000053039865802BR5904JOSE6003RIO63042B82",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			code, err := Build(Payload{Key: test.key, KeyType: test.kt, Name: "Jose", City: "Rio"})
			if err != nil {
				t.Fatal(err)
			}
			if code != test.want {
				t.Errorf("Build =\n%s\nwant\n%s", code, test.want)
			}
		})
	}

	// Case is kept when stripping.
	code, err := Build(Payload{
		Key:     "7D9F0335-8DCC-4054-9BF9-0DBD61D36906",
		KeyType: KeyRandom,
		Name:    "Maria",
		City:    "Curitiba",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(code, "01327D9F03358DCC40549BF90DBD61D36906") {
		t.Errorf("code %q does not hold the stripped key", code)
	}

	// The hyphenated form must be a canonical UUID.
	for _, key := range []string{"7d9f03358dcc40549bf90dbd61d36906", "abc"} {
		_, err := Build(Payload{Key: key, KeyType: KeyRandomUUID, Name: "Maria", City: "Curitiba"})
		if !errors.Is(err, pixqr.ErrInvalidKey) {
			t.Errorf("Build(%q as uuid) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestNonASCIIKey(t *testing.T) {
	p := Payload{Key: "joão@example.com", Name: "Jose", City: "Rio"}
	if _, err := Build(p); !errors.Is(err, pixqr.ErrInvalidKey) {
		t.Errorf("Build err = %v, want ErrInvalidKey", err)
	}

	code, err := BuildManual(p)
	if err != nil {
		t.Fatal(err)
	}
	want := "00020126380014BR.GOV.BCB.PIX0116joão@example.com5204000053039865802BR5904JOSE6003RIO6304"
	if !strings.HasPrefix(code, want) {
		t.Errorf("BuildManual =\n%s\nwant prefix\n%s", code, want)
	}
	parsed, err := Parse(code)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Key != "joão@example.com" {
		t.Errorf("parsed key = %q", parsed.Key)
	}
}

func TestManualKeyTruncation(t *testing.T) {
	key := strings.Repeat("ç", 80) + "@example.com"
	code, err := BuildManual(Payload{Key: key, KeyType: KeyEmail, Name: "Jose", City: "Rio"})
	if err != nil {
		t.Fatal(err)
	}
	if !utf8.ValidString(code) {
		t.Fatalf("code is not valid UTF-8: %q", code)
	}
	want := "0177" + strings.Repeat("ç", 77)
	if !strings.Contains(code, want) {
		t.Errorf("code %q does not hold a 77 character key", code)
	}
	if _, err := Parse(code); err != nil {
		t.Errorf("Parse: %v", err)
	}
}

func TestInferKeyType(t *testing.T) {
	tests := []struct {
		key  string
		want KeyType
	}{
		{"fulano@example.com", KeyEmail},
		{"+5511999999999", KeyPhone},
		{"11999999999", KeyCPF},
		{"123.456.789-01", KeyCPF},
		{"12345678000190", KeyCNPJ},
		{"12.345.678/0001-90", KeyCNPJ},
		{"1199999999", KeyPhone},
		{"(11) 9999-9999", KeyPhone},
		{"7d9f0335-8dcc-4054-9bf9-0dbd61d36906", KeyRandom},
		{"7d9f03358dcc40549bf90dbd61d36906", KeyRandom},
		{"abc", KeyRandom},
		{"123", KeyRandom},
	}
	for _, test := range tests {
		if got := InferKeyType(test.key); got != test.want {
			t.Errorf("InferKeyType(%q) = %v, want %v", test.key, got, test.want)
		}
	}
}

func TestFormatKey(t *testing.T) {
	tests := []struct {
		key  string
		kt   KeyType
		want string
	}{
		{"Fulano@Example.COM", KeyAuto, "fulano@example.com"},
		{"+55 (11) 99999-9999", KeyAuto, "+5511999999999"},
		{"11 99999-9999", KeyPhone, "+5511999999999"},
		{"123.456.789-01", KeyAuto, "12345678901"},
		{"12.345.678/0001-90", KeyCNPJ, "12345678000190"},
		{"7D9F0335-8DCC-4054-9BF9-0DBD61D36906", KeyAuto, "7D9F03358DCC40549BF90DBD61D36906"},
		{"7D9F0335-8DCC-4054-9BF9-0DBD61D36906", KeyRandomUUID, "7d9f0335-8dcc-4054-9bf9-0dbd61d36906"},
		{" {7D9F0335} ", KeyRandom, "7D9F0335"},
	}
	for _, test := range tests {
		if got := FormatKey(test.key, test.kt); got != test.want {
			t.Errorf("FormatKey(%q, %v) = %q, want %q", test.key, test.kt, got, test.want)
		}
	}
}

func TestDisplayKey(t *testing.T) {
	tests := []struct {
		key  string
		kt   KeyType
		want string
	}{
		{"12345678901", KeyCPF, "123.456.789-01"},
		{"12345678000190", KeyAuto, "12.345.678/0001-90"},
		{"+5511987654321", KeyAuto, "+55 (11) 98765-4321"},
		{"1132654321", KeyPhone, "+55 (11) 3265-4321"},
		{"Fulano@Example.com", KeyAuto, "fulano@example.com"},
	}
	for _, test := range tests {
		if got := DisplayKey(test.key, test.kt); got != test.want {
			t.Errorf("DisplayKey(%q, %v) = %q, want %q", test.key, test.kt, got, test.want)
		}
	}
}

func TestParseKeyType(t *testing.T) {
	for _, kt := range []KeyType{KeyAuto, KeyEmail, KeyPhone, KeyCPF, KeyCNPJ, KeyRandom, KeyRandomUUID} {
		got, err := ParseKeyType(kt.String())
		if err != nil || got != kt {
			t.Errorf("ParseKeyType(%q) = %v, %v", kt.String(), got, err)
		}
	}
	if got, _ := ParseKeyType("EVP"); got != KeyRandom {
		t.Errorf("ParseKeyType(EVP) = %v, want random", got)
	}
	if _, err := ParseKeyType("iban"); !errors.Is(err, pixqr.ErrInvalidKey) {
		t.Errorf("ParseKeyType(iban) err = %v, want ErrInvalidKey", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"São Paulo", maxCityLength, "SAO PAULO"},
		{"Florianópolis - SC", maxCityLength, "FLORIANOPOLIS"},
		{"Condomínio Residencial das Palmeiras", maxNameLength, "CONDOMINIO RESIDENCIAL DA"},
		{"  João  d'Ávila!  ", maxNameLength, "JOAO  DAVILA"},
		{"Ação_Social\t2", maxNameLength, "ACAO_SOCIAL 2"},
		{"!!!", maxNameLength, ""},
	}
	for _, test := range tests {
		if got := Normalize(test.in, test.maxLen); got != test.want {
			t.Errorf("Normalize(%q, %d) = %q, want %q", test.in, test.maxLen, got, test.want)
		}
	}
}

func TestParse(t *testing.T) {
	got, err := Parse(emailCode)
	if err != nil {
		t.Fatal(err)
	}
	want := &Payload{
		Key:           "fulano@example.com",
		KeyType:       KeyEmail,
		Name:          "CONDOMINIO SAO JOSE",
		City:          "SAO PAULO",
		TransactionID: "FAT2024031500001",
		Description:   "ALUGUEL MARCO",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	got, err = Parse(manualCode)
	if err != nil {
		t.Fatal(err)
	}
	want = &Payload{
		Key:        "+5511987654321",
		KeyType:    KeyPhone,
		Name:       "MARIA",
		City:       "CURITIBA",
		Amount:     Amount(150),
		Expiration: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	if err := Verify(fieldOrderCode); err != nil {
		t.Errorf("Verify: %v", err)
	}
	if err := Verify(strings.TrimSuffix(fieldOrderCode, "CE3F") + "ce3f"); err != nil {
		t.Errorf("Verify with a lower case CRC: %v", err)
	}

	corrupt := strings.Replace(fieldOrderCode, "10.50", "99.50", 1)
	if err := Verify(corrupt); !errors.Is(err, pixqr.ErrChecksum) {
		t.Errorf("Verify(corrupt) err = %v, want ErrChecksum", err)
	}
	if _, err := Parse(corrupt); !errors.Is(err, pixqr.ErrChecksum) {
		t.Errorf("Parse(corrupt) err = %v, want ErrChecksum", err)
	}
	for _, bad := range []string{"", "6304", "000201", "0002016305ABCD"} {
		if err := Verify(bad); !errors.Is(err, pixqr.ErrFormat) {
			t.Errorf("Verify(%q) err = %v, want ErrFormat", bad, err)
		}
	}
}

func TestParseTLV(t *testing.T) {
	got, err := ParseTLV("0002010104abcd")
	if err != nil {
		t.Fatal(err)
	}
	want := []Field{{"00", "01"}, {"01", "abcd"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseTLV mismatch (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"000", "0005abc", "00xx", "00-1"} {
		if _, err := ParseTLV(bad); !errors.Is(err, pixqr.ErrFormat) {
			t.Errorf("ParseTLV(%q) err = %v, want ErrFormat", bad, err)
		}
	}
}

func TestDescriptionFitsMerchantAccount(t *testing.T) {
	key := strings.Repeat("a", 60) + "@example.com"
	code, err := Build(Payload{
		Key:         key,
		Name:        "Maria",
		City:        "Curitiba",
		Description: strings.Repeat("taxa ", 20),
	})
	if err != nil {
		t.Fatal(err)
	}
	p, err := Parse(code)
	if err != nil {
		t.Fatal(err)
	}
	// 99 - GUI (18) - key (4+72) - description header (4).
	if got := len(p.Description); got != 1 {
		t.Errorf("description length = %d, want 1", got)
	}
}

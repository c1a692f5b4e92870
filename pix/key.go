package pix

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ericlevine/pixqr"
)

// KeyType is the kind of alias a PIX key is.
type KeyType int

const (
	// KeyAuto infers the type from the shape of the key.
	KeyAuto KeyType = iota
	KeyEmail
	KeyPhone
	KeyCPF
	KeyCNPJ
	// KeyRandom is a random key (EVP), a UUID issued by the bank. It is
	// written as bare letters and digits.
	KeyRandom
	// KeyRandomUUID is a random key written in its canonical hyphenated
	// UUID form. It is never inferred.
	KeyRandomUUID
)

func (k KeyType) String() string {
	switch k {
	case KeyAuto:
		return "auto"
	case KeyEmail:
		return "email"
	case KeyPhone:
		return "phone"
	case KeyCPF:
		return "cpf"
	case KeyCNPJ:
		return "cnpj"
	case KeyRandom:
		return "random"
	case KeyRandomUUID:
		return "uuid"
	}
	return fmt.Sprintf("KeyType(%d)", int(k))
}

// ParseKeyType parses a key type name as printed by String. "evp" is
// accepted for random keys.
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KeyAuto, nil
	case "email":
		return KeyEmail, nil
	case "phone", "telefone":
		return KeyPhone, nil
	case "cpf":
		return KeyCPF, nil
	case "cnpj":
		return KeyCNPJ, nil
	case "random", "evp", "aleatoria":
		return KeyRandom, nil
	case "uuid":
		return KeyRandomUUID, nil
	}
	return KeyAuto, fmt.Errorf("%w: unknown key type %q", pixqr.ErrInvalidKey, s)
}

var (
	documentShape = regexp.MustCompile(`^[0-9.\-/() ]+$`)
	randomShape   = regexp.MustCompile(`^[0-9A-Za-z-]{32,36}$`)
	emailShape    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneShape    = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)
)

// InferKeyType guesses the type of key from its shape. Checks run in order:
// an '@' means email and a leading '+' means phone; for keys made of digits
// and punctuation, 11 digits mean CPF, 14 mean CNPJ and 10 mean phone.
// Anything else, including a 32 to 36 character UUID-like key, is random.
func InferKeyType(key string) KeyType {
	key = strings.TrimSpace(key)
	switch {
	case strings.Contains(key, "@"):
		return KeyEmail
	case strings.HasPrefix(key, "+"):
		return KeyPhone
	case documentShape.MatchString(key):
		switch n := len(onlyDigits(key)); {
		case n == 11:
			return KeyCPF
		case n == 14:
			return KeyCNPJ
		case n == 10 || n == 11:
			return KeyPhone
		}
	case randomShape.MatchString(key):
		return KeyRandom
	}
	return KeyRandom
}

// FormatKey returns key as it is written into the BR Code. kt KeyAuto
// infers the type first.
func FormatKey(key string, kt KeyType) string {
	key = strings.TrimSpace(key)
	if kt == KeyAuto {
		kt = InferKeyType(key)
	}
	switch kt {
	case KeyEmail:
		return strings.ToLower(key)
	case KeyPhone:
		if strings.HasPrefix(key, "+") {
			return "+" + onlyDigits(key)
		}
		return "+55" + onlyDigits(key)
	case KeyCPF, KeyCNPJ:
		return onlyDigits(key)
	case KeyRandomUUID:
		return strings.ToLower(keepRunes(key, func(r rune) bool { return isAlphanumeric(r) || r == '-' }))
	}
	return keepRunes(key, isAlphanumeric)
}

func isAlphanumeric(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func keepRunes(s string, keep func(rune) bool) string {
	var sb strings.Builder
	for _, r := range s {
		if keep(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// DisplayKey returns key punctuated for people to read: CPF as
// 000.000.000-00, CNPJ as 00.000.000/0000-00 and Brazilian phones as
// +55 (00) 00000-0000. It is never used inside a payload.
func DisplayKey(key string, kt KeyType) string {
	if kt == KeyAuto {
		kt = InferKeyType(key)
	}
	formatted := FormatKey(key, kt)
	d := onlyDigits(formatted)
	switch {
	case kt == KeyCPF && len(d) == 11:
		return fmt.Sprintf("%s.%s.%s-%s", d[0:3], d[3:6], d[6:9], d[9:11])
	case kt == KeyCNPJ && len(d) == 14:
		return fmt.Sprintf("%s.%s.%s/%s-%s", d[0:2], d[2:5], d[5:8], d[8:12], d[12:14])
	case kt == KeyPhone && strings.HasPrefix(d, "55") && len(d) == 13:
		return fmt.Sprintf("+55 (%s) %s-%s", d[2:4], d[4:9], d[9:13])
	case kt == KeyPhone && strings.HasPrefix(d, "55") && len(d) == 12:
		return fmt.Sprintf("+55 (%s) %s-%s", d[2:4], d[4:8], d[8:12])
	}
	return formatted
}

// validateKey checks a formatted key against the shape its type requires.
// explicit is true when the caller named the type instead of relying on
// inference; only then must a random key be a UUID. Keys are ASCII, so
// their length in bytes is their length in characters.
func validateKey(key string, kt KeyType, explicit bool) error {
	for i := 0; i < len(key); i++ {
		if key[i] >= utf8.RuneSelf {
			return fmt.Errorf("%w: %q has non-ASCII characters", pixqr.ErrInvalidKey, key)
		}
	}
	var ok bool
	switch kt {
	case KeyEmail:
		ok = emailShape.MatchString(key) && len(key) <= 77
	case KeyPhone:
		ok = phoneShape.MatchString(key)
	case KeyCPF:
		ok = len(key) == 11
	case KeyCNPJ:
		ok = len(key) == 14
	case KeyRandom:
		ok = key != ""
		if explicit {
			_, err := uuid.Parse(key)
			ok = err == nil
		}
	case KeyRandomUUID:
		u, err := uuid.Parse(key)
		ok = err == nil && u.String() == key
	}
	if !ok {
		return fmt.Errorf("%w: %q is not a valid %v key", pixqr.ErrInvalidKey, key, kt)
	}
	return nil
}

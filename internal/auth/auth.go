package auth

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/dynmodel/internal/value"
)

const (
	// DefaultTokenName is the name recorded for tokens issued without one.
	DefaultTokenName = "auth_token"

	// DefaultTokenTable is where tokens are persisted.
	DefaultTokenTable = "personal_access_tokens"

	// SecretBytes is the number of random bytes in a token secret.
	SecretBytes = 32

	// TokenSeparator splits the subject id from the secret.
	TokenSeparator = "|"
)

// Token table columns.
const (
	ColumnTokenableType = "tokenable_type"
	ColumnTokenableID   = "tokenable_id"
	ColumnName          = "name"
	ColumnToken         = "token"
	ColumnAbilities     = "abilities"
)

// DefaultPasswordFields are the credential keys treated as the password.
var DefaultPasswordFields = []string{"password", "contraseña"}

var (
	// ErrTooManyFields is returned when credentials carry more than two keys.
	ErrTooManyFields = errors.New("credentials accept at most two fields")

	// ErrNoPasswordField is returned when no password-like key is present.
	ErrNoPasswordField = errors.New("credentials require a password field")

	// ErrMalformedCredentials is returned when credentials are not exactly
	// one identifier and one password.
	ErrMalformedCredentials = errors.New("credentials must be one identifier field and one password field")

	// ErrMalformedToken is returned for tokens without a subject portion.
	ErrMalformedToken = errors.New("malformed token")
)

// Outcome is the result of a login attempt that reached the database.
type Outcome int

const (
	// UnknownSubject means no row matched the identifying field.
	UnknownSubject Outcome = iota

	// WrongPassword means a row matched but the password did not.
	WrongPassword

	// Authenticated means the password matched the stored hash.
	Authenticated
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Authenticated:
		return "authenticated"
	case WrongPassword:
		return "wrong_password"
	default:
		return "unknown_subject"
	}
}

// Credentials is a parsed login request.
type Credentials struct {
	IdentityField string      // column used to look up the subject
	Identity      value.Value // value that column must equal
	PasswordField string      // column holding the stored hash
	Password      string      // plaintext supplied by the caller
}

// Token is a freshly issued bearer token.
type Token struct {
	SubjectID string
	Secret    string // hex-encoded random bytes
}

// String returns the full bearer value: <subject>|<secret>.
func (t Token) String() string {
	return t.SubjectID + TokenSeparator + t.Secret
}

// Authenticator holds the stateless parts of the login and token workflow.
// It performs no database access; the query facade drives it.
type Authenticator struct {
	// PasswordFields lists credential keys treated as the password.
	PasswordFields []string

	// Random is the entropy source for token secrets.
	Random io.Reader

	// Cost is the bcrypt cost used by HashPassword.
	Cost int
}

// New returns an Authenticator with the default password fields,
// crypto/rand and bcrypt.DefaultCost.
func New() *Authenticator {
	return &Authenticator{
		PasswordFields: DefaultPasswordFields,
		Random:         rand.Reader,
		Cost:           bcrypt.DefaultCost,
	}
}

// ParseCredentials checks the shape of a login request: exactly two fields,
// one of which is a password field. Keys are compared after NFC
// normalisation so "contraseña" matches however the ñ was encoded.
func (a *Authenticator) ParseCredentials(creds value.Record) (Credentials, error) {
	if creds.Len() > 2 {
		return Credentials{}, ErrTooManyFields
	}

	var out Credentials
	var passwords int
	for _, pair := range creds {
		key := norm.NFC.String(pair.Key)
		if a.isPasswordField(key) {
			passwords++
			text, ok := pair.Value.(value.Text)
			if !ok {
				return Credentials{}, fmt.Errorf("%w: password must be text", ErrMalformedCredentials)
			}
			out.PasswordField = key
			out.Password = string(text)
			continue
		}
		if out.IdentityField == "" {
			out.IdentityField = key
			out.Identity = pair.Value
		}
	}

	if passwords == 0 {
		return Credentials{}, ErrNoPasswordField
	}
	if passwords > 1 || out.IdentityField == "" {
		return Credentials{}, ErrMalformedCredentials
	}
	return out, nil
}

func (a *Authenticator) isPasswordField(key string) bool {
	fields := a.PasswordFields
	if len(fields) == 0 {
		fields = DefaultPasswordFields
	}
	for _, f := range fields {
		if norm.NFC.String(f) == key {
			return true
		}
	}
	return false
}

// Verify compares a plaintext password against a stored bcrypt hash in
// constant time. A mismatch is (false, nil); a malformed hash is an error.
func (a *Authenticator) Verify(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}

// HashPassword returns a bcrypt hash suitable for storing in a password column.
func (a *Authenticator) HashPassword(password string) (string, error) {
	cost := a.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// IssueToken creates a token for subject with SecretBytes of randomness.
func (a *Authenticator) IssueToken(subject value.Value) (Token, error) {
	if value.IsNull(subject) {
		return Token{}, fmt.Errorf("issue token: subject id is empty")
	}
	src := a.Random
	if src == nil {
		src = rand.Reader
	}

	secret := make([]byte, SecretBytes)
	if _, err := io.ReadFull(src, secret); err != nil {
		return Token{}, fmt.Errorf("issue token: read random: %w", err)
	}

	return Token{
		SubjectID: value.String(subject),
		Secret:    hex.EncodeToString(secret),
	}, nil
}

// TokenRecord builds the row persisted for tok. Abilities are stored as a
// JSON list; a nil list is stored as [].
func (a *Authenticator) TokenRecord(tok Token, owner, name string, abilities []string) (value.Record, error) {
	if name == "" {
		name = DefaultTokenName
	}
	if abilities == nil {
		abilities = []string{}
	}
	encoded, err := json.Marshal(abilities)
	if err != nil {
		return nil, fmt.Errorf("encode abilities: %w", err)
	}

	return value.NewRecord(
		value.P(ColumnTokenableType, value.Text(owner)),
		value.P(ColumnTokenableID, value.Parse(tok.SubjectID)),
		value.P(ColumnName, value.Text(name)),
		value.P(ColumnToken, value.Text(tok.String())),
		value.P(ColumnAbilities, value.Text(encoded)),
	), nil
}

// SubjectOf returns the subject id portion of a bearer token. The secret
// is hex, so the last separator ends the subject.
func SubjectOf(token string) (value.Value, error) {
	i := strings.LastIndex(token, TokenSeparator)
	if i <= 0 {
		return nil, ErrMalformedToken
	}
	return value.Parse(token[:i]), nil
}

// OwningType derives the owner label stored with a token from a table name:
// singular and capitalised, so "users" becomes "User".
func OwningType(table string) string {
	return cases.Title(language.Und).String(Singular(table))
}

// Singular applies a few English plural rules to a table name.
func Singular(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "sses"),
		strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "ss"):
		return word
	case strings.HasSuffix(lower, "s") && len(word) > 1:
		return word[:len(word)-1]
	default:
		return word
	}
}

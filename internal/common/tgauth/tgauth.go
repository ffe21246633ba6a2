// Package tgauth verifies Telegram WebApp init data and extracts the user it carries.
//
// See https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
package tgauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

const (
	hashKey     = "hash"
	userKey     = "user"
	authDateKey = "auth_date"

	webAppDataKey = "WebAppData"
)

var (
	ErrInvalidPayload     = errors.New("INVALID_PAYLOAD")
	ErrMissingHash        = errors.New("MISSING_HASH")
	ErrSignatureMismatch  = errors.New("SIGNATURE_MISMATCH")
	ErrMalformedIdentity  = errors.New("MALFORMED_IDENTITY")
	ErrExpired            = errors.New("EXPIRED")
	ErrMissingAuthDate    = errors.New("MISSING_AUTH_DATE")
	ErrBotTokenNotDefined = errors.New("bot token is not configured")
)

type pair struct {
	key   string
	value string
}

// parse splits the payload into its signed pairs and the detached hash.
func parse(payload string) ([]pair, string, error) {
	values, err := url.ParseQuery(payload)
	if err != nil {
		return nil, "", errors.Join(ErrInvalidPayload, err)
	}

	hashes := values[hashKey]
	if len(hashes) == 0 {
		return nil, "", ErrMissingHash
	}
	return sortedPairs(values), hashes[0], nil
}

// sortedPairs orders every pair except the hash by key. Repeated keys keep their relative order.
func sortedPairs(values url.Values) []pair {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != hashKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]pair, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			pairs = append(pairs, pair{key: k, value: v})
		}
	}
	return pairs
}

func dataCheckString(pairs []pair) string {
	lines := make([]string, len(pairs))
	for i, p := range pairs {
		lines[i] = p.key + "=" + p.value
	}
	return strings.Join(lines, "\n")
}

// secretKey derives the WebApp signing key from the bot token.
func secretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(webAppDataKey))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func sign(pairs []pair, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(dataCheckString(pairs)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign returns the hex digest Telegram would attach to values. Any "hash" entry in values is ignored.
func Sign(values url.Values, botToken string) string {
	return sign(sortedPairs(values), secretKey(botToken))
}

func verify(payload string, secret []byte) error {
	pairs, hash, err := parse(payload)
	if err != nil {
		return err
	}

	expected := sign(pairs, secret)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Verify reports whether payload was signed by Telegram for botToken.
// The returned error tells why verification failed; it is nil when the result is true.
func Verify(payload, botToken string) (bool, error) {
	if err := verify(payload, secretKey(botToken)); err != nil {
		return false, err
	}
	return true, nil
}

// ExtractIdentity decodes the "user" field. It returns nil without error when the field is absent.
func ExtractIdentity(payload string) (*initdata.User, error) {
	values, err := url.ParseQuery(payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	raw := values.Get(userKey)
	if raw == "" {
		return nil, nil
	}

	var user initdata.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, errors.Join(ErrMalformedIdentity, err)
	}
	return &user, nil
}

// AuthDate returns the auth_date field of payload.
func AuthDate(payload string) (time.Time, error) {
	values, err := url.ParseQuery(payload)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidPayload, err)
	}

	raw := values.Get(authDateKey)
	if raw == "" {
		return time.Time{}, ErrMissingAuthDate
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errors.Join(ErrInvalidPayload, err)
	}
	return time.Unix(sec, 0), nil
}

// Verifier authenticates init data for a single bot.
type Verifier struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewVerifier creates a Verifier. A zero maxAge disables the auth_date expiry check.
func NewVerifier(botToken string, maxAge time.Duration) (*Verifier, error) {
	if botToken == "" {
		return nil, ErrBotTokenNotDefined
	}
	return &Verifier{
		secret: secretKey(botToken),
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

// Authenticate verifies the payload signature and freshness and returns the embedded user.
// The user is nil when the payload carries none.
func (v *Verifier) Authenticate(payload string) (*initdata.User, error) {
	if err := verify(payload, v.secret); err != nil {
		return nil, err
	}

	if v.maxAge > 0 {
		authDate, err := AuthDate(payload)
		if err != nil {
			return nil, err
		}
		if authDate.Add(v.maxAge).Before(v.now()) {
			return nil, ErrExpired
		}
	}

	return ExtractIdentity(payload)
}

package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	initDataMaxAge    = time.Hour
	initDataClockSkew = 5 * time.Minute
)

// ValidateTelegramInitData checks the signature of a Telegram WebApp
// init_data payload against the bot token and rejects payloads whose
// auth_date has gone stale. Returns the parsed fields on success.
func ValidateTelegramInitData(initData, botToken string) (url.Values, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	provided, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(provided) == 0 {
		return nil, false
	}
	values.Del("hash")

	lines := make([]string, 0, len(values))
	for key, vals := range values {
		lines = append(lines, key+"="+strings.Join(vals, ""))
	}
	sort.Strings(lines)

	// the signing key is itself an HMAC of the bot token under the
	// literal "WebAppData"
	keyMAC := hmac.New(sha256.New, []byte("WebAppData"))
	keyMAC.Write([]byte(botToken))
	sigMAC := hmac.New(sha256.New, keyMAC.Sum(nil))
	sigMAC.Write([]byte(strings.Join(lines, "\n")))
	if !hmac.Equal(sigMAC.Sum(nil), provided) {
		return nil, false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, false
	}
	age := time.Since(time.Unix(authDate, 0))
	if age > initDataMaxAge || age < -initDataClockSkew {
		return nil, false
	}

	return values, true
}

// TelegramUserID extracts the numeric user id from validated init_data
// fields as a decimal string, the form player ids take everywhere else.
func TelegramUserID(values url.Values) (string, bool) {
	var user struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return "", false
	}
	return strconv.FormatInt(user.ID, 10), true
}

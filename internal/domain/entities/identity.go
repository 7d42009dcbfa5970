package entities

import (
	"strconv"
	"strings"
)

// Identity is an opaque caller reference supplied by the transport.
type Identity string

const telegramPrefix = "telegram:"

// TelegramIdentity returns the identity of a Telegram user.
func TelegramIdentity(userID int64) Identity {
	return Identity(telegramPrefix + strconv.FormatInt(userID, 10))
}

// ParseIdentity trims s and rejects empty values.
func ParseIdentity(s string) (Identity, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return Identity(s), true
}

func (id Identity) String() string {
	return string(id)
}

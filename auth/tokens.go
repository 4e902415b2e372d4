package auth

import (
	"encoding/base64"
	"errors"
	"strconv"
)

var ErrInvalidUID = errors.New("invalid uid")

// EncodeUID turns a user id into the URL-safe form used in reset links.
func EncodeUID(id uint64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(id, 10)))
}

func DecodeUID(uidb64 string) (uint64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uidb64)
	if err != nil {
		return 0, ErrInvalidUID
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidUID
	}
	return id, nil
}

package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// GenerateRoomId returns a 16 character hex token used to name a livestream
// room. The token is the externally shareable handle for both the session
// and its signaling mailbox.
func GenerateRoomId() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func IsVideoFile(mimetype string) bool {
	return strings.HasPrefix(mimetype, "video/")
}

func IsImageFile(mimetype string) bool {
	return strings.HasPrefix(mimetype, "image/")
}

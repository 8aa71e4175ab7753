package service

import (
	"crypto/md5"
	"encoding/hex"
)

const (
	gravatarBase    = "//www.gravatar.com/avatar/"
	gravatarOptions = "?s=200&r=pg&d=mm"
)

// GravatarURL derives the avatar for an email: 200px, pg rated, mystery-man fallback.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return gravatarBase + hex.EncodeToString(sum[:]) + gravatarOptions
}

package httpx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
)

const replayWindow = 5 * time.Minute

// verifySignature checks the v0 HMAC-SHA256 scheme the chat platform signs
// slash commands with: base string "v0:<ts>:<body>", hex digest prefixed
// "v0=". Requests outside the replay window are rejected regardless of
// signature.
func verifySignature(secret, ts, sig string, body []byte, now time.Time) error {
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errors.New("bad timestamp")
	}
	age := now.Sub(time.Unix(unix, 0))
	if age > replayWindow || age < -replayWindow {
		return errors.New("request too old")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + ts + ":"))
	mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return errors.New("invalid signature")
	}
	return nil
}

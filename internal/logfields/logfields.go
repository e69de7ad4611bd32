package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyPosts      = "posts"
	KeyStage      = "stage"
	KeyReason     = "reason"
	KeyError      = "error"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyURL        = "url"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Posts(n int) slog.Attr           { return slog.Int(KeyPosts, n) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Reason(r string) slog.Attr       { return slog.String(KeyReason, r) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration reports d in milliseconds under the duration_ms key.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

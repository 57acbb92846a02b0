package report

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/phuslu/log"
)

var (
	reBearer    = regexp.MustCompile(`(?i)\b(bearer\s+)([a-z0-9\-\._~\+\/]+=*)`)
	reApiKeyKV  = regexp.MustCompile(`(?i)\b(api[_-]?key|access[_-]?token|token|secret|authorization)\s*[:=]\s*([^\s,;]+)`)
	reLongToken = regexp.MustCompile(`\b[a-zA-Z0-9_\-]{32,}\b`)
)

// Sanitizer redacts credentials that backend messages may echo, plus any
// extra patterns from the settings file.
type Sanitizer struct {
	custom []*regexp.Regexp
}

// NewSanitizer compiles patterns; invalid ones are skipped.
func NewSanitizer(patterns []string) *Sanitizer {
	s := &Sanitizer{}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			log.Warn().Err(err).Str("pattern", p).Msg("skipping invalid redaction pattern")
			continue
		}
		s.custom = append(s.custom, re)
	}
	return s
}

// Text redacts s. A nil Sanitizer applies only the built-in rules.
func (sn *Sanitizer) Text(s string) string {
	out := s
	out = reBearer.ReplaceAllString(out, "${1}<redacted>")
	out = reApiKeyKV.ReplaceAllString(out, "${1}=<redacted>")
	out = reLongToken.ReplaceAllStringFunc(out, func(tok string) string {
		return tok[:4] + "...<redacted>..." + tok[len(tok)-4:]
	})
	if sn != nil {
		for _, re := range sn.custom {
			out = re.ReplaceAllString(out, "<redacted>")
		}
	}
	return out
}

// SanitizeText applies the built-in redaction rules.
func SanitizeText(s string) string {
	return (*Sanitizer)(nil).Text(s)
}

// SanitizeURL masks credential-like query parameters in news links.
// Non-http(s) links collapse to "#".
func SanitizeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "#"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "#"
	}

	q := u.Query()
	changed := false
	for k := range q {
		kl := strings.ToLower(k)
		if strings.Contains(kl, "token") ||
			strings.Contains(kl, "key") ||
			strings.Contains(kl, "secret") ||
			strings.Contains(kl, "auth") ||
			strings.Contains(kl, "session") ||
			strings.Contains(kl, "pass") {
			q.Set(k, "<redacted>")
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

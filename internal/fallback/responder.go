// Package fallback produces canned, keyword-matched replies without any
// network access. It backs demo mode and offline use.
package fallback

import (
	"math/rand/v2"

	"github.com/kalambet/helene/internal/health"
)

// Responder picks a canned reply for a message. The zero value is not
// usable; construct with New.
type Responder struct {
	intn func(n int) int
}

// Option configures a Responder.
type Option func(*Responder)

// WithIntn replaces the random source used to pick a generic reply.
// intn must return a value in [0, n).
func WithIntn(intn func(n int) int) Option {
	return func(r *Responder) { r.intn = intn }
}

// New returns a Responder using math/rand/v2 unless overridden.
func New(opts ...Option) *Responder {
	r := &Responder{intn: rand.IntN}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Respond never fails. The reply language is inferred from the message
// itself and only falls back to the profile language when the text is
// ambiguous.
func (r *Responder) Respond(message string, uc health.UserContext) string {
	reply, _ := r.Match(message, uc)
	return reply
}

// Match is Respond that also names the rule that fired, or "generic".
func (r *Responder) Match(message string, uc health.UserContext) (reply, rule string) {
	if DetectLocale(message, uc.Language) == "en" {
		for _, rl := range englishRules {
			if rl.match(message) {
				return rl.reply, rl.name
			}
		}
		return englishGeneric, "generic"
	}

	for _, rl := range frenchRules {
		if rl.match(message) {
			return rl.reply, rl.name
		}
	}
	return frenchGeneric[r.intn(len(frenchGeneric))], "generic"
}

// DetectLocale returns "fr" or "en" for message. French markers win over
// English ones; with neither, profileLanguage decides and French is the
// default.
func DetectLocale(message, profileLanguage string) string {
	looksFrench := frenchDiacritics.MatchString(message) || frenchKeywords.MatchString(message)
	looksEnglish := englishKeywords.MatchString(message)

	switch {
	case looksEnglish && !looksFrench:
		return "en"
	case looksFrench:
		return "fr"
	}
	return health.LocaleOf(profileLanguage)
}

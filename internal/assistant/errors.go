package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kalambet/helene/internal/proxy"
)

// Kind classifies a failed live call.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindConnectivity  Kind = "connectivity"
	KindProvider      Kind = "provider"
)

// Error is the only error Reply returns. Its message is fixed per kind and
// locale and is safe to show to the end user.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status a server should answer with.
	Status int
	// ProviderStatus is the upstream HTTP status, 0 when there was none.
	ProviderStatus int
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the Kind of an *Error in err's chain, or "" when there is
// none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

var userMessages = map[string]map[Kind]string{
	"fr": {
		KindConfiguration: "Problème de configuration API. Contactez le support 🙏",
		KindConnectivity:  "Problème de connexion. Vérifiez votre internet 📡",
		KindProvider:      "Je rencontre un problème technique. Réessayez dans un instant 🙏",
	},
	"en": {
		KindConfiguration: "There is a problem with the API configuration. Please contact support 🙏",
		KindConnectivity:  "Connection problem. Please check your internet 📡",
		KindProvider:      "I'm having a technical problem. Please try again in a moment 🙏",
	},
}

var httpStatus = map[Kind]int{
	KindConfiguration: http.StatusInternalServerError,
	KindConnectivity:  http.StatusServiceUnavailable,
	KindProvider:      http.StatusBadGateway,
}

// UserMessage returns the localized text for kind.
func UserMessage(locale string, kind Kind) string {
	msgs, ok := userMessages[locale]
	if !ok {
		msgs = userMessages["fr"]
	}
	return msgs[kind]
}

// classify maps a raw failure onto a Kind. Credential problems are checked
// first. An upstream status is otherwise a provider failure whatever its
// body says; only errors without a status can be transport failures.
func classify(err error) Kind {
	msg := err.Error()
	var se *proxy.StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusForbidden || strings.Contains(msg, "API key") {
			return KindConfiguration
		}
		return KindProvider
	}
	if strings.Contains(msg, "API key") {
		return KindConfiguration
	}

	var te *proxy.TransportError
	switch {
	case errors.As(err, &te),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		strings.Contains(strings.ToLower(msg), "network"):
		return KindConnectivity
	}
	return KindProvider
}

func newError(err error, locale string) *Error {
	kind := classify(err)
	e := &Error{
		Kind:    kind,
		Message: UserMessage(locale, kind),
		Status:  httpStatus[kind],
	}
	var se *proxy.StatusError
	if errors.As(err, &se) {
		e.ProviderStatus = se.StatusCode
	}
	return e
}

package youtube

import (
	"regexp"
	"strings"
)

type Kind int

const (
	KindCanonicalID Kind = iota + 1
	KindChannelURL
	KindUsernameURL
	KindHandle
	KindCustomURL
	KindFreeText
)

func (k Kind) String() string {
	switch k {
	case KindCanonicalID:
		return "canonical-id"
	case KindChannelURL:
		return "channel-url"
	case KindUsernameURL:
		return "username-url"
	case KindHandle:
		return "handle"
	case KindCustomURL:
		return "custom-url"
	case KindFreeText:
		return "free-text"
	default:
		return "unknown"
	}
}

var (
	canonicalIDPattern = regexp.MustCompile(`UC[0-9A-Za-z_-]{20,}`)
	channelPathPattern = regexp.MustCompile(`(?i)/channel/(UC[0-9A-Za-z_-]{20,})`)
	userPathPattern    = regexp.MustCompile(`(?i)/user/([A-Za-z0-9._-]+)`)
	handlePattern      = regexp.MustCompile(`@([A-Za-z0-9._-]+)`)
	customPathPattern  = regexp.MustCompile(`(?i)/c/([A-Za-z0-9._-]+)`)
)

// Reference is a classified channel reference. Value holds the channel ID,
// username, lower-cased handle (without @), custom slug or trimmed free text
// depending on Kind.
type Reference struct {
	Raw   string
	Kind  Kind
	Value string
}

// Classify applies the rules in priority order; the first match wins.
func Classify(raw string) (Reference, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Reference{}, ErrInvalidReference
	}
	ref := Reference{Raw: raw}

	if id := canonicalIDPattern.FindString(text); id != "" {
		ref.Kind, ref.Value = KindCanonicalID, id
		if m := channelPathPattern.FindStringSubmatch(text); m != nil && m[1] == id {
			ref.Kind = KindChannelURL
		}
		return ref, nil
	}
	if m := userPathPattern.FindStringSubmatch(text); m != nil {
		ref.Kind, ref.Value = KindUsernameURL, m[1]
		return ref, nil
	}
	if m := handlePattern.FindStringSubmatch(text); m != nil {
		ref.Kind, ref.Value = KindHandle, strings.ToLower(m[1])
		return ref, nil
	}
	if m := customPathPattern.FindStringSubmatch(text); m != nil {
		ref.Kind, ref.Value = KindCustomURL, m[1]
		return ref, nil
	}

	ref.Kind, ref.Value = KindFreeText, text
	return ref, nil
}

// Canonical reports whether the reference already carries the channel ID.
func (r Reference) Canonical() bool {
	return r.Kind == KindCanonicalID || r.Kind == KindChannelURL
}

// Handle is the form used with forHandle lookups: "@" plus the lower-cased name.
func (r Reference) Handle() string {
	switch r.Kind {
	case KindHandle, KindCustomURL:
		return "@" + strings.ToLower(r.Value)
	}
	return ""
}

// Query is the text sent to the fuzzy channel search.
func (r Reference) Query() string {
	return r.Value
}

func (r Reference) String() string {
	return r.Kind.String() + ":" + r.Value
}

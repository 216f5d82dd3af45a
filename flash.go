package passage

import (
	"cmp"

	"go.inout.gg/passage/passagestrategy"
)

// resolveFlash computes the effective flash message from the
// configured flash and the strategy-supplied source: the first failed
// challenge on failure, the success info on success. Empty configured
// fields fall back to the source, then to defaultType.
//
// The message is only recorded when one resolves to a string; a
// structured source without a message yields nothing.
func resolveFlash(configured *Flash, source any, defaultType string) (Flash, bool) {
	srcType, srcMessage := messageSource(source)

	flash := Flash{
		Type:    cmp.Or(configured.Type, srcType, defaultType),
		Message: cmp.Or(configured.Message, srcMessage),
	}
	if flash.Message == "" {
		return Flash{}, false
	}

	return flash, true
}

// resolveMessage resolves the configured session message, deriving it
// from the strategy-supplied source when the configured value is
// empty.
func resolveMessage(configured string, source any) string {
	if configured != "" {
		return configured
	}

	_, msg := messageSource(source)

	return msg
}

// messageSource extracts the type and message carried by a
// strategy-supplied challenge or info value. Plain strings are the
// message itself.
func messageSource(source any) (typ, message string) {
	switch s := source.(type) {
	case string:
		return "", s
	case passagestrategy.Challenge:
		return s.Type, s.Message
	case *passagestrategy.Challenge:
		if s != nil {
			return s.Type, s.Message
		}
	case Flash:
		return s.Type, s.Message
	}

	return "", ""
}

package pathutil

import (
	"unicode"
	"unicode/utf8"

	"github.com/mtt-project/mtt/pkg/errclass"
)

// ValidateTimerName rejects names that cannot be typed or printed safely.
// Names are otherwise kept verbatim: no case folding, trimming or
// Unicode normalization.
func ValidateTimerName(name string) error {
	if name == "" {
		return errclass.ErrNameInvalid.WithMessage("timer name must not be empty")
	}
	if !utf8.ValidString(name) {
		return errclass.ErrNameInvalid.WithMessagef("timer name must be valid UTF-8: %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errclass.ErrNameInvalid.WithMessagef("timer name must not contain control characters: %q", name)
		}
	}
	return nil
}

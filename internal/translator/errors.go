package translator

import (
	"errors"
	"fmt"

	"codeberg.org/snonux/lingocard/internal/script"
)

// ErrStaleRequest marks a provider response that arrived after the user
// already resubmitted newer input. The response is discarded.
var ErrStaleRequest = errors.New("translation request superseded by newer input")

// MismatchError reports that input text failed the forced-language
// constraint. User-facing and retryable by editing the input or the
// constraint.
type MismatchError struct {
	Expected script.Language
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("text does not appear to be %s; edit the text or change the language setting", e.Expected)
}

// ProviderError reports that the external translator was unreachable or
// returned an error. User-facing and retryable.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("translation service error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

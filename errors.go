package text2png

import "fmt"

// FontRegistrationError is returned when LocalFontPath (or RegisterFont)
// names a font that cannot be read or parsed. Nothing is measured or drawn.
type FontRegistrationError struct {
	Path string
	Err  error
}

func (e *FontRegistrationError) Error() string {
	return fmt.Sprintf("failed to load local font from path: %s, error: %v", e.Path, e.Err)
}

func (e *FontRegistrationError) Unwrap() error {
	return e.Err
}

// UnsupportedOutputError is returned for an unknown Options.Output. It is
// detected only after the image has been rendered.
type UnsupportedOutputError struct {
	Output string
}

func (e *UnsupportedOutputError) Error() string {
	return fmt.Sprintf("output type:%s is not supported", e.Output)
}

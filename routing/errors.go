package routing

import (
	"fmt"
	"strings"
)

// ErrUnrecognizedProfileName is returned when a string is not the canonical
// name of any SearchProfile
type ErrUnrecognizedProfileName struct {
	Name string
}

func (e *ErrUnrecognizedProfileName) Error() string {
	return fmt.Sprintf("unrecognized search profile %q: must be one of: %s",
		e.Name, strings.Join(ProfileNames(), ", "))
}

// ErrUnrecognizedModeName is returned when a string is not the canonical name
// of any Mode
type ErrUnrecognizedModeName struct {
	Name string
}

func (e *ErrUnrecognizedModeName) Error() string {
	names := make([]string, 0, len(Modes()))
	for _, m := range Modes() {
		names = append(names, m.String())
	}
	return fmt.Sprintf("unrecognized mode %q: must be one of: %s", e.Name, strings.Join(names, ", "))
}

package catalog

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned while the menu repository circuit is open
var ErrUnavailable = errors.New("menu catalog unavailable")

var errFetchTimeout = fmt.Errorf("%w: menu fetch timed out", ErrUnavailable)

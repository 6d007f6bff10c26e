//go:build !tinygo && !cgo

package hal

import (
	"context"
	"errors"
)

func RunWindow(_ func(context.Context, HAL) error, _ Keys) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}

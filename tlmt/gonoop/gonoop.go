// Package gonoop is the telemetry used when no analytics key is configured.
package gonoop

import (
	"context"

	"github.com/Vector/usuarios-api/tlmt"
)

type noop struct{}

var _ tlmt.Telemetry = noop{}

func New() tlmt.Telemetry {
	return noop{}
}

func (noop) Send(context.Context, tlmt.Event) error {
	return nil
}

func (noop) Close() error {
	return nil
}

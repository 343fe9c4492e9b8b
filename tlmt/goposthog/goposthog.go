package goposthog

import (
	"context"
	"errors"
	"time"

	"github.com/posthog/posthog-go"

	"github.com/Vector/usuarios-api/tlmt"
)

type service struct {
	client posthog.Client
}

// New returns a posthog backed telemetry. Events are batched and flushed in
// the background; Close flushes whatever is pending.
func New(publicAPIKey, endpointURL string) (tlmt.Telemetry, error) {
	if publicAPIKey == "" {
		return nil, errors.New("posthog api key is empty")
	}

	client, err := posthog.NewWithConfig(publicAPIKey, posthog.Config{
		Endpoint:  endpointURL,
		Interval:  5 * time.Second,
		BatchSize: 50,
	})
	if err != nil {
		return nil, err
	}

	return &service{client: client}, nil
}

func (s *service) Send(_ context.Context, event tlmt.Event) error {
	props := posthog.NewProperties()
	for k, v := range event.Properties {
		props.Set(k, v)
	}

	capture := posthog.Capture{
		DistinctId: event.AnonymousID,
		Event:      event.Name,
		Properties: props,
	}

	if err := capture.Validate(); err != nil {
		return err
	}

	return s.client.Enqueue(capture)
}

func (s *service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}

	return nil
}

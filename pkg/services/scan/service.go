package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/stalkiq/dzera-sub000/pkg/models/domain"
)

// ErrInvalidCredentials marks a credential pair the provider rejected
// outright. This is the only scan failure surfaced to the caller; every
// later probe error degrades to a partial result instead.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service is the single entry point shared by every adapter (web handler,
// CLI). It owns the lifecycle of a scan: build clients from the submitted
// credentials, verify them, run the aggregator, discard everything.
type Service struct {
	newFactory func(ctx context.Context, creds domain.Credentials) (ClientFactory, error)
}

func NewService() *Service {
	return &Service{newFactory: NewClientFactory}
}

// NewServiceWithFactory injects a client factory constructor; used by
// tests to run scans against fakes.
func NewServiceWithFactory(
	newFactory func(ctx context.Context, creds domain.Credentials) (ClientFactory, error),
) *Service {
	return &Service{newFactory: newFactory}
}

// Scan verifies the credentials and runs all probes. The result is held
// only in memory; no state survives the call.
func (s *Service) Scan(
	ctx context.Context,
	creds domain.Credentials,
	opts domain.ScanOptions,
) (*domain.ScanResult, error) {
	clients, err := s.newFactory(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to build provider clients: %w", err)
	}

	if err := VerifyCredentials(ctx, clients.STS()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, err)
	}

	return NewAggregator(clients).Scan(ctx, opts), nil
}

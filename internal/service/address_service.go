package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/laicai0810/addr-parser-cn/internal/gazetteer"
	"github.com/laicai0810/addr-parser-cn/internal/models"
)

// AddressService contains the core business logic for address parsing
type AddressService struct {
	repo     RegionRepository
	resolver atomic.Pointer[gazetteer.Resolver]
}

// Repository interface for dependency injection
type RegionRepository interface {
	LoadRegions(ctx context.Context) (*gazetteer.Store, error)
}

// NewAddressService creates a new address service
func NewAddressService(repo RegionRepository) *AddressService {
	return &AddressService{repo: repo}
}

// Load builds the matching index from the repository and publishes it. The
// resolver is immutable, so a refresh builds a full replacement and swaps the
// reference atomically; concurrent Parse calls never observe a partially
// built index.
func (s *AddressService) Load(ctx context.Context) error {
	store, err := s.repo.LoadRegions(ctx)
	if err != nil {
		return fmt.Errorf("service: failed to load gazetteer: %w", err)
	}
	s.resolver.Store(gazetteer.NewResolver(gazetteer.NewIndex(store)))
	return nil
}

// Reload rebuilds the index from the repository and swaps it in
func (s *AddressService) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Parse resolves an address string against the live index. It errors only
// when no gazetteer has been loaded yet; parsing itself never fails.
func (s *AddressService) Parse(ctx context.Context, addr string) (models.ResolvedAddress, error) {
	resolver := s.resolver.Load()
	if resolver == nil {
		return models.ResolvedAddress{}, fmt.Errorf("service: gazetteer not loaded")
	}
	return resolver.Parse(addr), nil
}

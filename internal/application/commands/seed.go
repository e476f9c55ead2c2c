package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"managerof/internal/application"
	"managerof/internal/domain"
	"managerof/internal/ports"
)

// MaxSeedUsers bounds how many people a single seed run creates
const MaxSeedUsers = 10000

// SeedResult contains the result of seeding a lab hierarchy
type SeedResult struct {
	Created int
	Linked  int
	Message string
}

// SeedCommand populates a lab container with a fictional management hierarchy
type SeedCommand struct {
	writer      ports.DirectoryWriter
	ContainerDN string
	Users       int
	Fanout      int
}

// NewSeedCommand creates a new SeedCommand
func NewSeedCommand(writer ports.DirectoryWriter, containerDN string, users, fanout int) *SeedCommand {
	return &SeedCommand{
		writer:      writer,
		ContainerDN: containerDN,
		Users:       users,
		Fanout:      fanout,
	}
}

// Validate checks the seed parameters
func (c *SeedCommand) Validate() error {
	if err := application.ValidateRequired("container", c.ContainerDN); err != nil {
		return err
	}
	if c.Users < 1 || c.Users > MaxSeedUsers {
		return &application.ValidationError{
			Field:   "users",
			Message: fmt.Sprintf("must be between 1 and %d, got: %d", MaxSeedUsers, c.Users),
		}
	}
	if c.Fanout < 1 {
		return &application.ValidationError{
			Field:   "fanout",
			Message: fmt.Sprintf("must be at least 1, got: %d", c.Fanout),
		}
	}
	return nil
}

// Execute creates every person first, then links each to its manager
func (c *SeedCommand) Execute(ctx context.Context) (*SeedResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	people, err := domain.GenerateHierarchy(c.Users, c.Fanout)
	if err != nil {
		return nil, err
	}

	if err := c.writer.EnsureContainer(ctx, c.ContainerDN); err != nil {
		return nil, fmt.Errorf("failed to prepare %s: %w", c.ContainerDN, err)
	}

	log := zerolog.Ctx(ctx)
	dns := make([]string, len(people))
	for i, p := range people {
		dn, err := c.writer.AddPerson(ctx, c.ContainerDN, p)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", p.CommonName, err)
		}
		dns[i] = dn
		log.Debug().Str("dn", dn).Str("title", p.Title).Msg("created person")
	}

	linked := 0
	for i, p := range people {
		if p.IsRoot() {
			continue
		}
		if err := c.writer.SetManager(ctx, dns[i], dns[p.ManagerIndex]); err != nil {
			return nil, fmt.Errorf("failed to link %s to %s: %w", p.CommonName, p.ManagerName, err)
		}
		linked++
	}

	return &SeedResult{
		Created: len(people),
		Linked:  linked,
		Message: fmt.Sprintf("Created %d people (%d with a manager) under %s", len(people), linked, c.ContainerDN),
	}, nil
}

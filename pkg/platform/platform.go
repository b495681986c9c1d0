// Package platform serves the user API over HTTP (GraphQL and REST)
package platform

import (
	"github.com/userdock/server/pkg/platform/graphql"
	"github.com/userdock/server/pkg/store"
	"go.uber.org/zap"
)

// Platform wires the record store into the application-level engines
type Platform struct {
	store     store.UserStore
	logger    *zap.Logger
	gqlEngine *graphql.Engine
}

func NewPlatform(st store.UserStore, logger *zap.Logger) *Platform {
	return &Platform{
		store:     st,
		logger:    logger,
		gqlEngine: graphql.NewEngine(st, logger),
	}
}

// Start initializes the platform subsystems
func (p *Platform) Start() error {
	p.logger.Info("Starting userdock platform...")

	if err := p.gqlEngine.BuildSchema(); err != nil {
		p.logger.Error("Failed to build GraphQL schema", zap.Error(err))
		return err
	}

	return nil
}

package graphql

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/userdock/server/pkg/store"
	"go.uber.org/zap"
)

// Engine owns the GraphQL schema and resolves operations against the store
type Engine struct {
	store     store.UserStore
	logger    *zap.Logger
	schema    graphql.Schema
	hasSchema bool
}

func NewEngine(st store.UserStore, logger *zap.Logger) *Engine {
	return &Engine{
		store:  st,
		logger: logger,
	}
}

// BuildSchema constructs the User type and the Query/Mutation roots
func (e *Engine) BuildSchema() error {
	e.logger.Info("Building GraphQL Schema...")

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					// The id crosses the boundary in its canonical hex form
					switch u := p.Source.(type) {
					case store.User:
						return u.ID.Hex(), nil
					case *store.User:
						return u.ID.Hex(), nil
					}
					return nil, fmt.Errorf("unexpected source type %T", p.Source)
				},
			},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryFields := graphql.Fields{
		"users": &graphql.Field{
			Type: graphql.NewList(graphql.NewNonNull(userType)),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return e.store.ListAll(p.Context)
			},
		},
		"userById": &graphql.Field{
			Type: userType,
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				u, err := e.store.GetByID(p.Context, id)
				if errors.Is(err, store.ErrNotFound) {
					// Absent is a null result, never an error
					return nil, nil
				}
				if err != nil {
					return nil, err
				}
				return u, nil
			},
		},
	}

	mutationFields := graphql.Fields{
		"addUser": &graphql.Field{
			Type: graphql.NewNonNull(userType),
			Args: graphql.FieldConfigArgument{
				"name":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				name, _ := p.Args["name"].(string)
				email, _ := p.Args["email"].(string)
				return e.store.Insert(p.Context, name, email)
			},
		},
		"deleteUser": &graphql.Field{
			Type: graphql.NewNonNull(graphql.Boolean),
			Args: graphql.FieldConfigArgument{
				"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				id, _ := p.Args["id"].(string)
				return e.store.DeleteByID(p.Context, id)
			},
		},
	}

	schemaConfig := graphql.SchemaConfig{
		Query:    graphql.NewObject(graphql.ObjectConfig{Name: "Query", Fields: queryFields}),
		Mutation: graphql.NewObject(graphql.ObjectConfig{Name: "Mutation", Fields: mutationFields}),
	}

	schema, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		return fmt.Errorf("failed to create schema: %v", err)
	}

	e.schema = schema
	e.hasSchema = true
	return nil
}

// Execute runs a GraphQL query
func (e *Engine) Execute(ctx context.Context, query string, variables map[string]interface{}) *graphql.Result {
	if !e.hasSchema {
		// Try to build schema lazily
		if err := e.BuildSchema(); err != nil {
			return &graphql.Result{Errors: []gqlerrors.FormattedError{{Message: err.Error()}}}
		}
	}

	params := graphql.Params{
		Schema:         e.schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        ctx,
	}

	return graphql.Do(params)
}

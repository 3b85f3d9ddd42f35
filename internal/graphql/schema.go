// internal/graphql/schema.go
package graphql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/enescucu1/auto/internal/middleware"
	"github.com/enescucu1/auto/internal/models"
	"github.com/enescucu1/auto/internal/services"
	"github.com/enescucu1/auto/internal/utils"
)

// AutoReader and AutoWriter mirror the service surface the resolvers
// need; the concrete services satisfy them.
type AutoReader interface {
	FindByID(ctx context.Context, id uint, withAbbildungen bool) (*models.Auto, error)
	Find(ctx context.Context, filter map[string]any, pageable utils.Pageable) ([]models.Auto, int64, error)
}

type AutoWriter interface {
	Create(ctx context.Context, auto *models.Auto) (uint, error)
	Update(ctx context.Context, id uint, auto *models.Auto, versionToken string) (int, error)
	Delete(ctx context.Context, id uint) (bool, error)
}

// badUserInput surfaces a domain failure as a GraphQL error entry with
// extensions.code = BAD_USER_INPUT while the transport status stays 200.
type badUserInput struct {
	message string
}

func (e badUserInput) Error() string { return e.message }

func (e badUserInput) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "BAD_USER_INPUT"}
}

type forbidden struct {
	message string
}

func (e forbidden) Error() string { return e.message }

func (e forbidden) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": "FORBIDDEN"}
}

func requireRoles(ctx context.Context, roles ...string) error {
	claims, ok := middleware.ClaimsFromContext(ctx)
	if !ok || !claims.HasRole(roles...) {
		return forbidden{message: "access denied"}
	}
	return nil
}

var kategorieEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "Kategorie",
	Values: graphql.EnumValueConfigMap{
		"SUV":       &graphql.EnumValueConfig{Value: string(models.KategorieSUV)},
		"LIMOUSINE": &graphql.EnumValueConfig{Value: string(models.KategorieLimousine)},
		"KOMBI":     &graphql.EnumValueConfig{Value: string(models.KategorieKombi)},
		"COUPE":     &graphql.EnumValueConfig{Value: string(models.KategorieCoupe)},
	},
})

var suchparameterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SuchparameterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"fahrgestellnummer": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"kategorie":         &graphql.InputObjectFieldConfig{Type: kategorieEnum},
		"preis":             &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"rabatt":            &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"lieferbar":         &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		"datum":             &graphql.InputObjectFieldConfig{Type: graphql.String},
		"modell":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"schlagwort":        &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var autoInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AutoInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"fahrgestellnummer": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"kategorie":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(kategorieEnum)},
		"preis":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"rabatt":            &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"lieferbar":         &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		"datum":             &graphql.InputObjectFieldConfig{Type: graphql.String},
		"schlagwoerter":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"modell":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
	},
})

var updateInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AutoUpdateInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"id":                &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"version":           &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"fahrgestellnummer": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"kategorie":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(kategorieEnum)},
		"preis":             &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		"rabatt":            &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"lieferbar":         &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		"datum":             &graphql.InputObjectFieldConfig{Type: graphql.String},
		"schlagwoerter":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
	},
})

func newAutoType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Auto",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.ID,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return int(p.Source.(*models.Auto).ID), nil
				},
			},
			"version": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Auto).Version, nil
				},
			},
			"fahrgestellnummer": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Auto).Fahrgestellnummer, nil
				},
			},
			"kategorie": &graphql.Field{
				Type: kategorieEnum,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(*models.Auto).Kategorie), nil
				},
			},
			"preis": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Auto).Preis.InexactFloat64(), nil
				},
			},
			"rabatt": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"short": &graphql.ArgumentConfig{Type: graphql.Boolean, DefaultValue: false},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rabatt := p.Source.(*models.Auto).Rabatt
					if short, _ := p.Args["short"].(bool); short {
						return rabatt.String() + " %", nil
					}
					return rabatt.String() + " Prozent", nil
				},
			},
			"lieferbar": &graphql.Field{
				Type: graphql.Boolean,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*models.Auto).Lieferbar, nil
				},
			},
			"datum": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					datum := p.Source.(*models.Auto).Datum
					if datum == nil {
						return nil, nil
					}
					return datum.Format("2006-01-02"), nil
				},
			},
			"schlagwoerter": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return []string(p.Source.(*models.Auto).Schlagwoerter), nil
				},
			},
			"modell": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					modell := p.Source.(*models.Auto).Modell
					if modell == nil {
						return nil, nil
					}
					return modell.Modell, nil
				},
			},
		},
	})
}

// NewSchema builds the executable schema. Field-to-resolver binding is an
// explicit runtime-built dispatch table.
func NewSchema(reader AutoReader, writer AutoWriter) (graphql.Schema, error) {
	autoType := newAutoType()

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"auto": &graphql.Field{
				Type: autoType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := idArg(p.Args["id"])
					if err != nil {
						return nil, err
					}

					auto, err := reader.FindByID(p.Context, id, false)
					if err != nil {
						return nil, asGraphQLError(err)
					}
					return auto, nil
				},
			},
			"autos": &graphql.Field{
				Type: graphql.NewList(autoType),
				Args: graphql.FieldConfigArgument{
					"suchparameter": &graphql.ArgumentConfig{Type: suchparameterInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter, _ := p.Args["suchparameter"].(map[string]interface{})

					pageable := utils.NewPageable(0, utils.MaxPageSize)
					autos, _, err := reader.Find(p.Context, filter, pageable)
					if err != nil {
						return nil, asGraphQLError(err)
					}

					result := make([]*models.Auto, len(autos))
					for i := range autos {
						result[i] = &autos[i]
					}
					return result, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"create": &graphql.Field{
				Type: graphql.ID,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(autoInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireRoles(p.Context, middleware.RoleAdmin, middleware.RoleUser); err != nil {
						return nil, err
					}

					input := p.Args["input"].(map[string]interface{})
					auto, err := autoFromInput(input)
					if err != nil {
						return nil, err
					}

					if modell, ok := input["modell"].(string); ok {
						auto.Modell = &models.Modell{Modell: modell}
					}

					id, err := writer.Create(p.Context, auto)
					if err != nil {
						return nil, asGraphQLError(err)
					}
					return int(id), nil
				},
			},
			"update": &graphql.Field{
				Type: graphql.Int,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireRoles(p.Context, middleware.RoleAdmin, middleware.RoleUser); err != nil {
						return nil, err
					}

					input := p.Args["input"].(map[string]interface{})

					id, err := idArg(input["id"])
					if err != nil {
						return nil, err
					}

					auto, err := autoFromInput(input)
					if err != nil {
						return nil, err
					}

					// Clients send the bare version number; the quoted
					// token shape is an HTTP ETag detail.
					version, _ := input["version"].(string)
					newVersion, err := writer.Update(p.Context, id, auto, strconv.Quote(version))
					if err != nil {
						return nil, asGraphQLError(err)
					}
					return newVersion, nil
				},
			},
			"delete": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := requireRoles(p.Context, middleware.RoleAdmin); err != nil {
						return nil, err
					}

					id, err := idArg(p.Args["id"])
					if err != nil {
						return nil, err
					}

					deleted, err := writer.Delete(p.Context, id)
					if err != nil {
						return nil, asGraphQLError(err)
					}
					return deleted, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func idArg(value interface{}) (uint, error) {
	idStr := fmt.Sprintf("%v", value)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, badUserInput{message: fmt.Sprintf("invalid id %q", idStr)}
	}
	return uint(id), nil
}

// autoFromInput maps the already coerced GraphQL input values onto the
// domain record, with the same range checks as the REST boundary.
func autoFromInput(input map[string]interface{}) (*models.Auto, error) {
	auto := &models.Auto{Schlagwoerter: pq.StringArray{}}

	if v, ok := input["fahrgestellnummer"].(string); ok {
		auto.Fahrgestellnummer = v
	}
	if v, ok := input["kategorie"].(string); ok {
		auto.Kategorie = models.Kategorie(v)
	}

	if v, ok := input["preis"].(float64); ok {
		auto.Preis = decimal.NewFromFloat(v)
	}
	if auto.Preis.IsNegative() {
		return nil, badUserInput{message: "preis must not be negative"}
	}

	if v, ok := input["rabatt"].(float64); ok {
		auto.Rabatt = decimal.NewFromFloat(v)
	}
	if auto.Rabatt.IsNegative() || auto.Rabatt.GreaterThan(decimal.NewFromInt(100)) {
		return nil, badUserInput{message: "rabatt must be between 0 and 100"}
	}

	if v, ok := input["lieferbar"].(bool); ok {
		auto.Lieferbar = v
	}

	if v, ok := input["datum"].(string); ok && v != "" {
		datum, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, badUserInput{message: "datum must be an ISO date"}
		}
		auto.Datum = &datum
	}

	if v, ok := input["schlagwoerter"].([]interface{}); ok {
		for _, s := range v {
			if str, ok := s.(string); ok {
				auto.Schlagwoerter = append(auto.Schlagwoerter, str)
			}
		}
	}

	return auto, nil
}

// asGraphQLError maps domain failures onto BAD_USER_INPUT errors and
// passes everything else through unchanged.
func asGraphQLError(err error) error {
	var exists *services.FahrgestellnummerExistsError
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrVersionInvalid),
		errors.Is(err, services.ErrVersionOutdated),
		errors.As(err, &exists):
		return badUserInput{message: err.Error()}
	default:
		return err
	}
}

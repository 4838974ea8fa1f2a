package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/oceanhelm/internal/core/domain"
)

// buildSchema creates the read-only GraphQL schema over console state.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"name": &graphql.Field{Type: graphql.String},
			"lat":  &graphql.Field{Type: graphql.Float},
			"lng":  &graphql.Field{Type: graphql.Float},
		},
	})

	missionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mission",
		Fields: graphql.Fields{
			"active":      &graphql.Field{Type: graphql.Boolean},
			"origin":      &graphql.Field{Type: waypointType},
			"destination": &graphql.Field{Type: waypointType},
			"summary":     &graphql.Field{Type: graphql.String},
		},
	})

	cameraType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Camera",
		Fields: graphql.Fields{
			"lat":  &graphql.Field{Type: graphql.Float},
			"lng":  &graphql.Field{Type: graphql.Float},
			"zoom": &graphql.Field{Type: graphql.Float},
		},
	})

	floatType := graphql.NewObject(graphql.ObjectConfig{
		Name: "FloatReading",
		Fields: graphql.Fields{
			"LATITUDE":    &graphql.Field{Type: graphql.Float},
			"LONGITUDE":   &graphql.Field{Type: graphql.Float},
			"TEMP":        &graphql.Field{Type: graphql.Float},
			"PSU":         &graphql.Field{Type: graphql.Float},
			"DOXY":        &graphql.Field{Type: graphql.Float},
			"WAVE_HEIGHT": &graphql.Field{Type: graphql.Float},
			"WIND_WAVE":   &graphql.Field{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"mission": &graphql.Field{
				Type:        missionType,
				Description: "Current mission context",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return missionToMap(deps.Mission.Snapshot()), nil
				},
			},
			"camera": &graphql.Field{
				Type:        cameraType,
				Description: "Last-known globe viewport",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Camera.Snapshot(), nil
				},
			},
			"oceanFloats": &graphql.Field{
				Type:        graphql.NewList(floatType),
				Description: "Float overlay records",
				Args: graphql.FieldConfigArgument{
					"count": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 25},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					count := p.Args["count"].(int)
					records := deps.OceanData.Snapshot(p.Context)
					if count > 0 && count < len(records) {
						records = records[:count]
					}
					return records, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// missionToMap flattens the embedded waypoint coordinates for GraphQL
// field resolution.
func missionToMap(m domain.Mission) map[string]interface{} {
	return map[string]interface{}{
		"active": m.Active,
		"origin": map[string]interface{}{
			"name": m.Origin.Name,
			"lat":  m.Origin.Lat,
			"lng":  m.Origin.Lng,
		},
		"destination": map[string]interface{}{
			"name": m.Destination.Name,
			"lat":  m.Destination.Lat,
			"lng":  m.Destination.Lng,
		},
		"summary": m.Summary,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}

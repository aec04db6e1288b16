package http

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiYAML)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// swaggerDoc serves the OpenAPI document to the Swagger UI.
type swaggerDoc struct {
	json string
}

func (d swaggerDoc) ReadDoc() string { return d.json }

var registerSwagger sync.Once

func registerSwaggerDoc(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}
	registerSwagger.Do(func() {
		swag.Register(swag.Name, swaggerDoc{json: string(raw)})
	})
	return nil
}

// ValidateRequest checks the request against the operation of the document.
// Authentication is left to Authenticate.
func ValidateRequest(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
		MultiError:         false,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return routeError(err)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err)).SetInternal(err)
			}
			return next(c)
		}
	}, nil
}

func routeError(err error) error {
	if errors.Is(err, routers.ErrMethodNotAllowed) {
		return echo.ErrMethodNotAllowed
	}
	return echo.ErrNotFound.WithInternal(err)
}

func validationMessage(err error) string {
	switch e := err.(type) {
	case *openapi3filter.RequestError:
		return e.Error()
	case *openapi3filter.SecurityRequirementsError:
		return "security requirements are not met"
	default:
		return err.Error()
	}
}

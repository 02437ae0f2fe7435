package internal

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// routeDecl is one entry of a YAML route file.
type routeDecl struct {
	Method     string   `yaml:"method"`
	Path       string   `yaml:"path"`
	Handler    string   `yaml:"handler"`
	Middleware []string `yaml:"middleware"`
}

type routeFile struct {
	Routes []routeDecl `yaml:"routes"`
}

// YAMLRoutes returns a loader that declares the routes of a YAML document:
//
//	routes:
//	  - method: GET
//	    path: /dashboard-client
//	    handler: compteController@showDashboardClient
//	    middleware: [auth]
func YAMLRoutes(data []byte) RouteLoader {
	return func(t *RouteTable) error {
		var f routeFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("parse routes: %w", err)
		}

		var errs []error
		for i, d := range f.Routes {
			controller, action, ok := strings.Cut(d.Handler, "@")
			if !ok {
				errs = append(errs, fmt.Errorf("%w: route %d: handler %q is not controller@action", ErrInvalidRoute, i, d.Handler))
				continue
			}
			if err := t.Add(d.Method, d.Path, controller, action, d.Middleware...); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

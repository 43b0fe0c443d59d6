// Package config loads routegen configuration.
//
// A Loader searches the working directory and its parents for, in order:
//
//	package.json ("routegen" key)
//	.routegenrc (JSON or YAML)
//	.routegenrc.json, .routegenrc.yaml, .routegenrc.yml
//	routegen.json, routegen.yaml, routegen.yml
//
// A file holds one target or a list of targets:
//
//	[
//	  {"input": "app/api", "output": "routes/api_gen.go"},
//	  {"input": "app/admin", "output": "routes/admin.json", "basePrefix": "/internal/admin"}
//	]
//
// Relative paths are resolved against the directory of the config file.
// When no file is found, Resolve falls back to a single default target.
//
// # Usage
//
//	f, err := config.NewLoader(logger).Resolve("", ".")
//	if err != nil {
//	    return err
//	}
//	for _, t := range f.Targets {
//	    fmt.Println(t.InputPath(), "→", t.OutputPath(), t.Prefix())
//	}
package config

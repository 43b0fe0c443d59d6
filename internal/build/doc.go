// Package build runs the route generation pipeline for one configured
// target: scan the input directory, validate the tree, render it as Go
// source or a JSON manifest and write the result when it differs from what
// is already on disk.
//
// # Usage
//
//	metrics := build.NewMetrics()
//	b := build.New(target, build.Options{Metrics: metrics})
//	result, err := b.Build(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("%d routes in %s\n", result.Routes, result.Duration)
//
// Every build is traced with the global OpenTelemetry tracer provider
// (spans routegen.build, routegen.scan and routegen.emit) and counted in
// Metrics, which can be dumped for the node_exporter textfile collector
// with Metrics.WriteTextfile.
package build

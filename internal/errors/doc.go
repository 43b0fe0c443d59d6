// Package errors provides structured, actionable error messages for routegen.
//
// Each error carries a registered code that maps to a category, a short
// message, a longer explanation and a documentation URL:
//
//   - E100-E119: scanning the route directory
//   - E120-E139: configuration
//   - E140-E149: command line usage
//   - E150-E169: code generation and output
//
// # Usage
//
//	err := errors.New("E120").
//	    WithLocationFromError(".routegenrc.yaml", yamlErr).
//	    WithSuggestion("Check the indentation of the targets list")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E120: Invalid routegen configuration
//	//
//	//   .routegenrc.yaml:3
//	//
//	//        1 │ - input: app/api
//	//        2 │   output: routes/api_gen.go
//	//   →    3 │  format go
//	//
//	//   Hint: Check the indentation of the targets list
package errors

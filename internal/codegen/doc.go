// Package codegen writes route trees out as source code or data.
//
// GoGenerator emits a self-contained Go file whose types mirror the path
// builder shapes:
//
//	routes.Routes.Collections().Posts().PostId("123") // "/api/posts/123"
//	routes.Routes.Users().UserId("7").Href()          // "/api/users/7"
//
// GenerateJSON emits a manifest with the serialized tree and the list of
// builder routes, for consumers outside Go.
package codegen

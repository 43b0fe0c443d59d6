// Package pathbuilder turns a scanned route tree into a nested path builder.
//
// Every child of a tree node becomes a member of an Object whose calling
// convention depends on the child's Shape:
//
//	posts/[postId]        → posts.$postId(123)        "/api/posts/123"
//	users/[userId]/posts  → users.$userId(7).posts()  "/api/users/7/posts"
//	(internal)/health     → internal.health()         "/api/health"
//	users (route + kids)  → users.$()                 "/api/users"
//
// Display keys are camel-cased, group parentheses are removed and dynamic
// keys carry a "$" prefix. Group directories never appear in emitted paths.
//
// The builder is computed once from the tree; calling members only joins
// path segments.
package pathbuilder

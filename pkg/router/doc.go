// Package router builds route trees from file-system routing conventions.
//
// The router provides:
//   - Directory scanning into a RouteNode tree
//   - Dynamic segment parsing with optional type annotations
//   - Tree validation (conflicting or duplicate parameters)
//   - An order-preserving JSON encoding of the tree
//
// # Directory Convention
//
// Every directory is a path segment. A directory is a route when it contains
// a marker file (route.ts, page.tsx, ...):
//
//	app/api/
//	├── hyphened-route/
//	│   └── route.ts          → /api/hyphened-route
//	├── (collections)/        → group: organizes, never emitted
//	│   └── posts/
//	│       └── [postId]/
//	│           └── route.ts  → /api/posts/:postId
//	├── _private/             → ignored, with its whole subtree
//	└── docs/
//	    └── [...slug]/
//	        └── page.tsx      → /api/docs/*slug
//
// # Parameters
//
// Dynamic route segments are defined with brackets:
//
//	[id]        → id (string by default)
//	[id:int]    → id (typed as int in generated code)
//	[...slug]   → slug (catch-all, []string)
//
// # Usage
//
//	scanner := router.NewScanner("app/api")
//	root, err := scanner.Scan(ctx)
//
// Trees are plain data: they can be encoded with encoding/json, cached, or
// written by hand and fed to the path builder.
package router

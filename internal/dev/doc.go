// Package dev implements watch mode.
//
// A polling Watcher reports file changes under the input directories of
// the configured targets. Changes to marker files (route.ts, page.tsx and
// so on) are ChangeRoute and trigger a full rebuild of every target whose
// input contains them; other files are ChangeOther and are ignored.
//
//	err := dev.Run(ctx, targets, dev.Options{
//	    OnBuild: func(t config.Target, r *build.Result, err error) { ... },
//	})
package dev

// Package runtime ties configuration, the archive database and parser
// construction together for the CLI.
//
//	rt, err := runtime.Open(runtime.Options{Config: cfg, Logger: logger})
//	if err != nil {
//		return err
//	}
//	defer rt.Close()
//	meta, stats, err := rt.Import(ctx, "trace.log", "boot")
package runtime

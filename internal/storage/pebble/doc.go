// Package pebblestore wraps Pebble with a commit fsync policy and a few
// helpers used by the event archive.
//
//	db, err := pebblestore.Open(pebblestore.Options{DataDir: dir, Fsync: pebblestore.FsyncModeAlways})
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	b := db.NewBatch()
//	_ = b.Set([]byte("k"), []byte("v"), nil)
//	err = db.CommitBatch(ctx, b)
//	b.Close()
//
//	err = db.ScanPrefix([]byte("arc/"), func(k, v []byte) bool { return true })
package pebblestore

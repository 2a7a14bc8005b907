package activedb

import "context"

// Close waits for any in-flight reorganization to finish and, when a
// snapshot store is configured, writes a final snapshot. The write is
// best-effort: a failure is returned (and logged) but nothing is retried.
func (db *DB) Close() error {
	db.reorg.Wait()
	if db.snapshots == nil {
		return nil
	}
	return db.Save(context.Background())
}

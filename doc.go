// Package batch provides bounded-concurrency batch transfers between a
// local directory and an S3 bucket. It wraps AWS SDK v2 behind a small
// orchestration layer: enumerate the work, fan out to a fixed pool of
// workers, and fan the outcomes back in as one result per item.
//
// The module guarantees deterministic partial-failure semantics: a batch
// either fails before any transfer starts (enumeration or configuration
// error) or returns exactly one result for every enumerated item, with
// each item's failure captured in its result rather than aborting the
// batch.
//
// Key properties:
//   - One result per task, no duplicates, no omissions
//   - Per-item failure isolation; siblings are never cancelled
//   - Bounded concurrency with a hardware-derived default
//   - Deterministic enumeration (non-recursive, lexicographic)
//   - Serializable results for downstream reporting
//
// Example usage:
//
//	client, err := batch.New(batch.WithRegion("us-west-2"))
//	if err != nil {
//	    return err
//	}
//
//	outcome, err := client.UploadDirectory(ctx, "my-bucket", "/data/exports")
//	if err != nil {
//	    return err
//	}
//	for _, r := range outcome.Failures() {
//	    log.Printf("failed %s: %s", r.Key, r.FailureDetail())
//	}
package batch

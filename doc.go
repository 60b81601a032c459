// Package snapline implements inline snapshot testing for Go.
//
// An inline snapshot assertion embeds its expected value directly in the
// test source, as the body of a trailing closure argument. When no
// expected value is present, or record mode is on, the engine rewrites the
// test file on disk so the embedded value matches the freshly produced
// one on the next run.
//
// Usage:
//
//	func TestMain(m *testing.M) {
//		os.Exit(snapline.Main(m))
//	}
//
//	func TestGreeting(t *testing.T) {
//		snapline.AssertSnapshot(t, snapline.Lines(), greet("world"))
//	}
//
// The first run fails with "automatically recorded a new snapshot" and
// rewrites the assertion to
//
//	snapline.AssertSnapshot(t, snapline.Lines(), greet("world"), snapline.Matches(func() string {
//		return `
//		Hello, world!
//		`
//	}))
//
// Subsequent runs compare against the embedded value and pass silently.
// Set SNAPLINE_RECORD=1 (or record: true in .snapline.yaml) to re-record
// all snapshots, or call [Record] to re-record just one test.
//
// Snapshot rendering and comparison are pluggable through [Strategy];
// [Lines] and [JSON] cover plain text and structured values.
//
// The companion snapline CLI lists, checks, and strips the inline
// snapshots of a test tree.
package snapline

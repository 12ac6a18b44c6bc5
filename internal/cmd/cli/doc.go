// Package cli contains the Cobra commands of the dunfell binary.
//
//	dunfell check trace-a.log trace-b.log.zst
//	dunfell events trace.log --decode --filter 'params.acquired' --format json
//	dunfell threads trace.log --decode
//	dunfell import trace.log --name boot --decode
//	dunfell archive list
//	dunfell archive show boot --limit 20
//	dunfell archive delete boot
//	dunfell types
//
// Global flags --config, --data-dir, --decode, --log-level and --log-format
// override the config file and DUNFELL_* variables.
package cli

// Package core implements the insecure LDAP bind export cleanup.
//
// A run is a strictly sequential pipeline:
//
//  1. [Scan] / [Discover] walk the input directory for *.csv files
//  2. [LoadAll] parses each file into a [Dataset] and concatenates them
//  3. [DropDuplicates] keeps the first row for each (ipAddress, hostName, user)
//  4. [Export] writes the result as CSV with a leading index column
//
// [Run] wires the stages together and reports a [RunResult]; it never ends
// the process itself. Callers hand the result's outcome to the lifecycle
// controller which decides the exit status.
//
// # Error Handling
//
// Every stage returns an error instead of aborting. Errors wrap one of the
// sentinels in errors.go so the runner can tell the recoverable cases
// ([ErrEmptyData], [ErrNoData]) from fatal ones with errors.Is.
package core

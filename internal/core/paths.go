package core

import (
	"path/filepath"
	"time"
)

const (
	outputSuffix = "_insecure_ldap_binds_unique.csv"
	logInfix     = "_insecure_ldap_binds_"

	// LogTimeLayout stamps log file names with the run start minute.
	LogTimeLayout = "2006-01-02_15_04"
)

// InputName returns the base name of the input directory used to name the
// output and log files. Relative inputs are made absolute first so "." maps
// to the working directory's name.
func InputName(input string) string {
	if abs, err := filepath.Abs(input); err == nil {
		input = abs
	}
	name := filepath.Base(filepath.Clean(input))
	if name == string(filepath.Separator) || name == "." {
		return ""
	}
	return name
}

// OutputPath returns <outputDir>/<input name>_insecure_ldap_binds_unique.csv,
// with the compression extension appended.
func OutputPath(outputDir, input string, compress Compression) string {
	return filepath.Join(outputDir, InputName(input)+outputSuffix+compress.Extension())
}

// LogPath returns <logDir>/<input name>_insecure_ldap_binds_<YYYY-MM-DD_HH_MM>.log.
func LogPath(logDir, input string, start time.Time) string {
	return filepath.Join(logDir, InputName(input)+logInfix+start.Format(LogTimeLayout)+".log")
}

// Package utils provides shared helpers for oauthvault.
//
// # System Utilities
//
//   - GetUsername, GetHostname: identify the operator
//   - DefaultOwner: suggested owner label for new envelopes
//
// # Terminal and I/O Utilities
//
//   - ReadPassphrase: reads a password from the terminal without echo
//   - ReadLine: reads one line, keeping surrounding spaces
//   - IsTerminal: checks whether stdin is a terminal
//
// # Filesystem Utilities
//
//   - ExpandHome: resolves ~ in configured paths
//   - FileExists: checks for a regular file
//
// # String Utilities
//
//   - ParseParams: key=value flags to url.Values
//   - SplitScopes: OAuth permission lists
package utils

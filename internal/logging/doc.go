// Package logger provides leveled logging for oauthvault commands.
//
// # Verbosity Levels
//
//   - --verbose: info and warning messages
//   - --debug: everything, including debug details and errors
//
// Without flags only WarnfAlways output is shown; command results are
// printed by the commands themselves.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Loading envelope from %s", path)
//
// Only log paths, owners and parameter values. Passwords, derived keys and
// credential record fields must never reach a Logger.
package logger

// Package ui provides semantic text formatting for CLI output.
//
// Formatters colorize content when the terminal supports it and fall back
// to plain decorations when NO_COLOR is set or output is not a TTY:
//
//	ui.Code.Sprint("oauthvault verify")   // `oauthvault verify`
//	ui.Path.Sprint("creds.vault")         // creds.vault
//	ui.Highlight.Sprint("alice")          // 'alice'
//	ui.Muted.Sprint("legacy header")      // (legacy header)
//	ui.URL.Sprint("https://...")          // <https://...>
//
// Mask renders credential identifiers for display without revealing them.
package ui

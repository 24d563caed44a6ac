package main

import (
	"regexp"
	"strings"
)

// Precompiled redaction regexes. Unlike a node's CLI, txtool's sensitive
// surface is private keys and signed transaction payloads, not peer URLs
// or datadir paths.
var (
	reHexKey  = regexp.MustCompile(`(?i)(0x)?[0-9a-f]{64}`)
	reRawTx   = regexp.MustCompile(`(?i)0x[0-9a-f]{68,}`)
	reKeyFlag = regexp.MustCompile(`(-{1,2}key[=\s]+)\S+`)
)

// RedactArgs joins args into a loggable command line with private keys and
// raw transaction hex replaced by placeholders.
func RedactArgs(args []string) string {
	if len(args) == 0 {
		return ""
	}

	redacted := make([]string, len(args))
	copy(redacted, args)
	redacted[0] = "txtool"

	return RedactString(strings.Join(redacted, " "))
}

// RedactString redacts sensitive substrings from s: the --key flag's value,
// then any 0x-prefixed run of 68 or more hex digits (long enough to be a
// raw signed transaction), then any remaining run of 64 hex digits (a
// private key or r/s component).
func RedactString(s string) string {
	s = reKeyFlag.ReplaceAllString(s, "${1}<redacted-key>")
	s = reRawTx.ReplaceAllString(s, "<redacted-tx>")
	s = reHexKey.ReplaceAllString(s, "<redacted-key>")
	return s
}

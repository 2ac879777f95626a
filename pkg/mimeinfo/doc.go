// Package mimeinfo reads the shared-mime-info source database
// (<datadir>/mime/packages/*.xml) for human-readable descriptions, aliases
// and parent types.
//
// Content sniffing is out of scope: magic and glob rules are not used to
// detect anything. Globs are kept only so they can be displayed.
package mimeinfo

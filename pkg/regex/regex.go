package regex

import "regexp"

// this package contains no tests because the regexes are being tested in the corresponding packages in *_ExtractLinks tests

// Url captures absolute http(s) URLs up to the next whitespace.
var Url = regexp.MustCompile(`https?://\S+`)

// GitHubRepo detects repository file links (blob/tree/raw/blame) on github.com.
var GitHubRepo = regexp.MustCompile(`(?i)^https?://github\.com/[^/\s]+/[^/\s]+/(blob|tree|raw|blame)/`)

// GitHubRepoParts splits a repository file link into owner, repo, kind, ref,
// path and fragment.
var GitHubRepoParts = regexp.MustCompile(
	`https://github\.com/` +
		`([^/\s"'()?#\]]+)/` + // 1: org/user
		`([^/\s"'()?#\]]+)/` + // 2: repo
		`(blob|tree|raw|blame)/` + // 3: kind
		`([^/\s"'()?#\]]+)` + // 4: ref (branch/tag/SHA)
		`(?:/([^\s"'()?#\]]+))?` + // 5: path (optional, may include /)
		`(?:#([^\s)\]]+))?`, // 6: fragment (no '#', optional)
)

// LocalPath captures local Markdown links [text](path), relative or
// root-relative, with an optional fragment.
var LocalPath = regexp.MustCompile(`\[[^\]]*\]\((` +
	`(?:` +
	`(?:\./|\.\./)+(?:[A-Za-z0-9_.-]+(?:/[A-Za-z0-9_.-]+)*)?` + // ./... or ../... any depth
	`|` +
	`/?[A-Za-z0-9_.-]+(?:/[A-Za-z0-9_.-]+)*` + // bare filename or root-relative path
	`|` +
	`#[^)\s]+` + // pure fragment into the same file
	`)` +
	`(?:#[^)\s]*)?` + // optional fragment
	`)\)`)

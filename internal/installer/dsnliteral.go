package installer

import (
	"fmt"
	"os"
	"regexp"
)

// dsnLiteral compiles a line-anchored pattern whose group 1 is prefix and group 2 is the
// quoted literal that follows it. RE2 has no backreferences, so each quote style is its
// own alternative.
func dsnLiteral(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^([ \t]*` + prefix + `)("[^"\n]*"|'[^'\n]*')`)
}

// Fallback DSN literals of the generated client files, one per template line that
// carries the DSN.
var (
	// <name>dsn = "..." and SENTRY_DSN='...', case-insensitive on the dsn suffix.
	pythonDSN = dsnLiteral(`[A-Za-z_]*(?i:dsn)[ \t]*=[ \t]*`)
	goDSN     = dsnLiteral(`(?:const[ \t]+)?[A-Za-z_]*(?i:dsn)[ \t]*=[ \t]*`)
	javaDSN   = dsnLiteral(`(?:(?:private|public|static|final)[ \t]+)*String[ \t]+[A-Za-z_]*(?i:dsn)[ \t]*=[ \t]*`)
	dotnetDSN = dsnLiteral(`(?:(?:private|public|internal|static)[ \t]+)*const[ \t]+string[ \t]+[A-Za-z_]*(?i:dsn)[ \t]*=[ \t]*`)
	nodeDSN   = dsnLiteral(`dsn:[ \t]*process\.env\.SENTRY_DSN[ \t]*(?:\|\||\?\?)[ \t]*`)
	phpDSN    = dsnLiteral(`\$dsn[ \t]*=[ \t]*getenv\(['"]SENTRY_DSN['"]\)[ \t]*\?:[ \t]*`)
	rubyDSN   = dsnLiteral(`config\.dsn[ \t]*=[ \t]*ENV\.fetch\(['"]SENTRY_DSN['"],[ \t]*`)
)

// replaceDSNLiteral swaps every literal matched by re for dsn, keeping the quote style.
// Nothing else in content changes.
func replaceDSNLiteral(re *regexp.Regexp, content, dsn string) string {
	return re.ReplaceAllStringFunc(content, func(match string) string {
		m := re.FindStringSubmatch(match)
		quote := m[2][:1]
		return m[1] + quote + dsn + quote
	})
}

// rewriteDSNLiterals points the fallback literal of every generated client file at the
// configured DSN. Files that were never generated are skipped.
func (b *base) rewriteDSNLiterals(r *Report) error {
	for _, f := range b.files {
		if f.dsn == nil {
			continue
		}
		path := b.project.Path(f.dest)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", f.dest, err)
		}
		out := replaceDSNLiteral(f.dsn, string(data), b.cfg.DSN)
		if out == string(data) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", f.dest, err)
		}
		if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", f.dest, err)
		}
		b.logger.Debug("rewrote DSN literal", "file", f.dest)
		r.done("updated DSN literal in %s", f.dest)
	}
	return nil
}

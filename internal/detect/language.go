// Package detect classifies a project directory by language, framework and package manager.
package detect

// Language is the enumerated language tag of a classified project.
type Language string

const (
	Python     Language = "python"
	NodeJS     Language = "nodejs"
	TypeScript Language = "typescript"
	Java       Language = "java"
	DotNet     Language = "dotnet"
	Go         Language = "go"
	PHP        Language = "php"
	Ruby       Language = "ruby"
	Unknown    Language = "unknown"
)

// DisplayName returns the human-readable language name.
func (l Language) DisplayName() string {
	switch l {
	case Python:
		return "Python"
	case NodeJS:
		return "Node.js"
	case TypeScript:
		return "TypeScript"
	case Java:
		return "Java"
	case DotNet:
		return ".NET"
	case Go:
		return "Go"
	case PHP:
		return "PHP"
	case Ruby:
		return "Ruby"
	default:
		return "unknown"
	}
}

// IsNodeFamily reports whether the language shares the Node.js toolchain.
func (l Language) IsNodeFamily() bool {
	return l == NodeJS || l == TypeScript
}

// Supported returns every language the classifier can detect, in priority order.
func Supported() []Language {
	out := make([]Language, 0, len(languageRules))
	for _, r := range languageRules {
		out = append(out, r.language)
	}
	return out
}

// ParseLanguage converts a tag into a Language; unrecognised tags map to Unknown.
func ParseLanguage(tag string) Language {
	for _, l := range Supported() {
		if string(l) == tag {
			return l
		}
	}
	return Unknown
}

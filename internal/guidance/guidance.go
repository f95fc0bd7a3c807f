// Package guidance turns stabilizer states into short localized hints for
// the player holding the camera.
//
// Messages live in YAML files under locales/<tag>/, one file per namespace,
// and are embedded in the binary. en-US is the base locale; a request for
// any other language falls back to it through a language matcher.
package guidance

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/faraway-mcp/internal/stabilizer"
)

// BaseLocale is the locale every other catalog falls back to.
const BaseLocale = "en-US"

// Message keys.
const (
	KeyNoData        = "guidance.no_data"
	KeyNotEnoughData = "guidance.not_enough_data"
	KeyNotConfident  = "guidance.not_confident"
	KeyLocked        = "guidance.locked"
)

//go:embed locales/*/*.yaml
var embedded embed.FS

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Guide resolves guidance messages for a requested locale.
type Guide struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

// Load reads the embedded catalogs.
func Load() (*Guide, error) {
	return LoadFS(embedded)
}

// LoadFS reads every locales/*/*.yaml file in fsys.
func LoadFS(fsys fs.FS) (*Guide, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	sort.Strings(paths)

	base := language.MustParse(BaseLocale)
	builder := catalog.NewBuilder(catalog.Fallback(base))
	seen := map[language.Tag]bool{}
	tags := []language.Tag{base}

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		tag, err := checkFile(p, file)
		if err != nil {
			return nil, err
		}
		for key, value := range file.Messages {
			if err := builder.SetString(tag, strings.TrimSpace(key), value); err != nil {
				return nil, fmt.Errorf("catalog %s: set %q: %w", p, key, err)
			}
		}
		seen[tag] = true
		if tag != base {
			tags = append(tags, tag)
		}
	}
	if !seen[base] {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	return &Guide{
		builder: builder,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

func checkFile(p string, file catalogFile) (language.Tag, error) {
	dir := path.Base(path.Dir(p))
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))

	if strings.TrimSpace(file.Locale) != dir {
		return language.Tag{}, fmt.Errorf("catalog %s: locale %q must match path locale %q", p, file.Locale, dir)
	}
	if strings.TrimSpace(file.Namespace) != name {
		return language.Tag{}, fmt.Errorf("catalog %s: namespace %q must match filename %q", p, file.Namespace, name)
	}
	if len(file.Messages) == 0 {
		return language.Tag{}, fmt.Errorf("catalog %s: messages map is required", p)
	}
	tag, err := language.Parse(dir)
	if err != nil {
		return language.Tag{}, fmt.Errorf("catalog %s: parse locale tag: %w", p, err)
	}
	return tag, nil
}

// Locales returns the available locales, base locale first.
func (g *Guide) Locales() []string {
	out := make([]string, len(g.tags))
	for i, t := range g.tags {
		out[i] = t.String()
	}
	return out
}

// Match returns the supported tag closest to locale. Unparsable or empty
// input yields the base locale.
func (g *Guide) Match(locale string) language.Tag {
	want, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(want) == 0 {
		return g.tags[0]
	}
	_, index, _ := g.matcher.Match(want...)
	return g.tags[index]
}

// Printer returns a printer bound to the catalogs for locale.
func (g *Guide) Printer(locale string) *message.Printer {
	return message.NewPrinter(g.Match(locale), message.Catalog(g.builder))
}

// Message returns the hint for a not-ready Query error. It returns an empty
// string when err carries no game state.
func (g *Guide) Message(err error, locale string) string {
	key, ok := KeyFor(err)
	if !ok {
		return ""
	}
	return g.Printer(locale).Sprintf(key)
}

// Locked returns the message shown once the final score is known.
func (g *Guide) Locked(total int, locale string) string {
	return g.Printer(locale).Sprintf(KeyLocked, total)
}

// KeyFor maps a stabilizer game state error to its message key.
func KeyFor(err error) (string, bool) {
	var gse *stabilizer.GameStateError
	if !errors.As(err, &gse) {
		return "", false
	}
	switch gse.Reason {
	case stabilizer.NoData:
		return KeyNoData, true
	case stabilizer.NotEnoughData:
		return KeyNotEnoughData, true
	case stabilizer.NotConfident:
		return KeyNotConfident, true
	default:
		return "", false
	}
}

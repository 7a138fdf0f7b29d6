// Package i18n loads the embedded string tables and hands out per-request
// localizers. Nothing here is process-global: each render receives the
// Localizer for its locale explicitly.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	"github.com/khoahotran/folio/internal/domain/locale"
)

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the compiled catalog for every locale found on disk.
type Bundle struct {
	cat      *catalog.Builder
	messages map[locale.Locale]map[string]string
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS reads every locales/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		cat:      catalog.NewBuilder(catalog.Fallback(locale.English.Tag())),
		messages: map[locale.Locale]map[string]string{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	code := strings.TrimSpace(file.Locale)
	if want := strings.TrimSuffix(path.Base(p), path.Ext(p)); code != want {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, code, want)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale tag: %w", p, err)
	}

	l := locale.Locale(code)
	if _, exists := b.messages[l]; exists {
		return fmt.Errorf("catalog %s: locale %q already loaded", p, code)
	}
	msgs := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		if err := b.cat.SetString(tag, key, value); err != nil {
			return fmt.Errorf("catalog %s: set %q: %w", p, key, err)
		}
		msgs[key] = value
	}
	b.messages[l] = msgs
	return nil
}

// Has reports whether a catalog exists for l.
func (b *Bundle) Has(l locale.Locale) bool {
	_, ok := b.messages[l]
	return ok
}

// Locales lists the loaded locales in sorted order.
func (b *Bundle) Locales() []locale.Locale {
	out := make([]locale.Locale, 0, len(b.messages))
	for l := range b.messages {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Keys returns the sorted message keys for l.
func (b *Bundle) Keys(l locale.Locale) []string {
	msgs := b.messages[l]
	keys := make([]string, 0, len(msgs))
	for k := range msgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Require fails when any of the locales has no catalog.
func (b *Bundle) Require(locales ...locale.Locale) error {
	for _, l := range locales {
		if !b.Has(l) {
			return fmt.Errorf("no message catalog for locale %q", l)
		}
	}
	return nil
}

// Localizer returns the string table for l.
func (b *Bundle) Localizer(l locale.Locale) *Localizer {
	return &Localizer{
		locale:  l,
		printer: message.NewPrinter(l.Tag(), message.Catalog(b.cat)),
	}
}

// Localizer formats messages for one locale.
type Localizer struct {
	locale  locale.Locale
	printer *message.Printer
}

func (l *Localizer) Locale() locale.Locale {
	return l.locale
}

// T returns the translated message for key. Unknown keys render as the key.
func (l *Localizer) T(key string, args ...any) string {
	if l == nil {
		return key
	}
	return l.printer.Sprintf(key, args...)
}

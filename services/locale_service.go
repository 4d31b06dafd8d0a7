package services

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	LangEnglish = "en"
	LangKannada = "kn"

	dateLayoutKey  = "date_layout"
	placeholderKey = "pending"
)

//go:embed locales/*.yaml
var localeFiles embed.FS

// LocaleService serves the string tables for the supported display languages
type LocaleService interface {
	Languages() []string
	Supported(lang string) bool
	Resolve(query, cookie, acceptLanguage string) string
	Translate(lang, key string) string
	Table(lang string) map[string]string
	FormatDate(lang string, t *time.Time) string
}

type localeService struct {
	fallback string
	tables   map[string]map[string]string
}

func NewLocaleService(defaultLang string) (LocaleService, error) {
	s := &localeService{tables: map[string]map[string]string{}}
	for _, lang := range []string{LangEnglish, LangKannada} {
		raw, err := localeFiles.ReadFile("locales/" + lang + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read %s strings: %v", lang, err)
		}
		var tree map[string]interface{}
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("parse %s strings: %v", lang, err)
		}
		table := map[string]string{}
		flatten("", tree, table)
		s.tables[lang] = table
	}

	s.fallback = LangEnglish
	if s.Supported(defaultLang) {
		s.fallback = defaultLang
	}
	return s, nil
}

// flatten turns nested YAML maps into dotted keys such as "nav.home"
func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func (s *localeService) Languages() []string {
	langs := make([]string, 0, len(s.tables))
	for lang := range s.tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (s *localeService) Supported(lang string) bool {
	_, ok := s.tables[lang]
	return ok
}

// Resolve picks the display language from the query parameter, the
// language cookie and the Accept-Language header, in that order.
func (s *localeService) Resolve(query, cookie, acceptLanguage string) string {
	for _, candidate := range []string{query, cookie} {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if s.Supported(candidate) {
			return candidate
		}
	}
	if acceptLanguage != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil {
			for _, tag := range tags {
				base, _ := tag.Base()
				if s.Supported(base.String()) {
					return base.String()
				}
			}
		}
	}
	return s.fallback
}

// Translate looks key up in lang, then in English. Unknown keys come back
// unchanged.
func (s *localeService) Translate(lang, key string) string {
	if v, ok := s.tables[lang][key]; ok {
		return v
	}
	if v, ok := s.tables[LangEnglish][key]; ok {
		return v
	}
	return key
}

// Table returns lang's strings with English filling any gaps
func (s *localeService) Table(lang string) map[string]string {
	out := make(map[string]string, len(s.tables[LangEnglish]))
	for k, v := range s.tables[LangEnglish] {
		out[k] = v
	}
	if lang != LangEnglish {
		for k, v := range s.tables[lang] {
			out[k] = v
		}
	}
	return out
}

func (s *localeService) FormatDate(lang string, t *time.Time) string {
	if t == nil || t.IsZero() {
		return s.Translate(lang, placeholderKey)
	}
	return t.Format(s.Translate(lang, dateLayoutKey))
}

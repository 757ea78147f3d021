package knowledge

import (
	"strings"
	"unicode"

	"github.com/Veraticus/soilsense/internal/model"
)

// Resolution is the outcome of a knowledge-base lookup.
type Resolution struct {
	Profile model.FertilizerProfile
	Match   model.MatchKind
}

// Pattern maps name fragments onto a profile key. Names and fragments are compared as
// lowercase words split on anything but letters, digits and decimal points. Fragments
// match anywhere in the name ("cowmanure" hits "manure"), except short fragments and
// grade analyses, which must match whole words so "uan" misses "guano" and "0-0-60"
// misses "10-0-60".
type Pattern struct {
	Name     string   `yaml:"name"`
	Key      string   `yaml:"key"`
	Contains []string `yaml:"contains"`
}

const anchoredFragmentLen = 3

func (p Pattern) matches(haystack string) bool {
	for _, fragment := range p.Contains {
		fragment = strings.Join(nameWords(fragment), " ")
		if fragment == "" {
			continue
		}
		if len(fragment) <= anchoredFragmentLen || strings.ContainsFunc(fragment, unicode.IsDigit) {
			if strings.Contains(haystack, " "+fragment+" ") {
				return true
			}
			continue
		}
		if strings.Contains(haystack, fragment) {
			return true
		}
	}
	return false
}

// nameWords lowercases s and splits it into words.
func nameWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
	words := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "."); f != "" {
			words = append(words, f)
		}
	}
	return words
}

type query struct {
	fertilizerType model.FertilizerType
	key            string
	compositeKey   string
	haystack       string
}

func newQuery(fertilizerType model.FertilizerType, name string) query {
	t := model.FertilizerType(model.NormalizeKey(string(fertilizerType)))
	return query{
		fertilizerType: t,
		key:            model.NormalizeKey(name),
		compositeKey:   model.NormalizeKey(string(t) + "_" + name),
		haystack:       " " + strings.Join(nameWords(name), " ") + " ",
	}
}

type resolutionStep struct {
	match func(*Base, query) (string, bool)
	kind  model.MatchKind
}

// resolutionChain is tried in order; the type default applies when every step misses.
var resolutionChain = []resolutionStep{
	{kind: model.MatchExact, match: matchExact},
	{kind: model.MatchComposite, match: matchComposite},
	{kind: model.MatchPattern, match: matchPattern},
}

func matchExact(b *Base, q query) (string, bool) {
	if q.key == "" {
		return "", false
	}
	_, ok := b.profiles[q.key]
	return q.key, ok
}

func matchComposite(b *Base, q query) (string, bool) {
	if q.key == "" {
		return "", false
	}
	if _, ok := b.profiles[q.compositeKey]; ok {
		return q.compositeKey, true
	}
	key, ok := b.aliases[q.compositeKey]
	if !ok {
		return "", false
	}
	_, ok = b.profiles[key]
	return key, ok
}

func matchPattern(b *Base, q query) (string, bool) {
	for _, p := range b.patterns {
		if !p.matches(q.haystack) {
			continue
		}
		if _, ok := b.profiles[p.Key]; ok {
			return p.Key, true
		}
	}
	return "", false
}

package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Language is a participant's inferred main language. The zero value means
// no language could be inferred.
type Language struct {
	Name string
	// Share is the integer percentage shown next to the name, 0 when the
	// winner did not dominate enough to be annotated.
	Share int
}

// NoLanguage is the absent value.
var NoLanguage = Language{}

// legacy labels written by older caches for "no language"
var absentLabels = map[string]bool{
	"":       true,
	"none":   true,
	"aucune": true,
}

func (l Language) Known() bool {
	return l.Name != ""
}

// Label renders the language as stored in the cache, e.g. "Go 42%".
func (l Language) Label() string {
	if !l.Known() {
		return ""
	}
	if l.Share > 0 {
		return fmt.Sprintf("%s %d%%", l.Name, l.Share)
	}
	return l.Name
}

func (l Language) String() string {
	if !l.Known() {
		return "None"
	}
	return l.Label()
}

// ParseLanguage reads a label produced by Label, tolerating legacy sentinels.
func ParseLanguage(label string) Language {
	label = strings.TrimSpace(label)
	if absentLabels[strings.ToLower(label)] {
		return NoLanguage
	}
	idx := strings.LastIndex(label, " ")
	if idx > 0 && strings.HasSuffix(label, "%") {
		if share, err := strconv.Atoi(label[idx+1 : len(label)-1]); err == nil {
			return Language{Name: strings.TrimSpace(label[:idx]), Share: share}
		}
	}
	return Language{Name: label}
}

func (l Language) MarshalJSON() ([]byte, error) {
	if !l.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(l.Label())
}

func (l *Language) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = NoLanguage
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("main_language: %w", err)
	}
	*l = ParseLanguage(label)
	return nil
}

// Package locale maps user locale tags onto the two supported UI locales and
// the week-start convention each one implies.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Code is a supported UI locale.
type Code string

const (
	EnglishUS         Code = "en-US"
	SimplifiedChinese Code = "zh-CN"

	Default = EnglishUS
)

// Supported lists every Code in display order.
var Supported = []Code{EnglishUS, SimplifiedChinese}

// WeekConvention selects the first day of a calendar week.
type WeekConvention int

const (
	SundayStart WeekConvention = iota
	MondayStart
)

func (w WeekConvention) String() string {
	if w == MondayStart {
		return "monday"
	}
	return "sunday"
}

// Normalize maps an arbitrary locale tag to a supported Code. Plain "zh" and
// mainland Chinese tags select SimplifiedChinese; anything else, including
// unparseable input, falls back to Default.
func Normalize(tag string) Code {
	tag = strings.TrimSpace(strings.ReplaceAll(tag, "_", "-"))
	if tag == "" {
		return Default
	}
	t, err := language.Parse(tag)
	if err != nil {
		return Default
	}
	base, _ := t.Base()
	if base.String() != "zh" {
		return Default
	}
	if _, conf := t.Script(); conf == language.Exact {
		return Default
	}
	if region, conf := t.Region(); conf == language.Exact && region.String() != "CN" {
		return Default
	}
	return SimplifiedChinese
}

// ConventionFor returns the week-start convention used by code.
func ConventionFor(code Code) WeekConvention {
	if code == SimplifiedChinese {
		return MondayStart
	}
	return SundayStart
}

// Tag returns the BCP 47 tag of code.
func (c Code) Tag() language.Tag {
	return language.Make(string(c))
}

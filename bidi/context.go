package bidi

import (
	jj "github.com/cloudfoundry/jibber_jabber"
	"golang.org/x/text/language"
)

// Context represents information about the environment text is displayed
// in. It provides a default paragraph level for text without strong
// characters.
type Context struct {
	Locale string          // BCP 47 locale string
	Script language.Script // ISO 15924 script identifier
	rtl    bool
}

// ContextFromEnvironment detects the user's locale and creates a context
// for it. If the locale cannot be detected, en-US is assumed.
func ContextFromEnvironment() *Context {
	userLocale, err := jj.DetectIETF()
	if err != nil {
		tracer().Infof("bidi: cannot detect user locale: %v", err)
		userLocale = "en-US"
	}
	tracer().Debugf("bidi: user locale is %v", userLocale)
	return ContextForLocale(userLocale)
}

// ContextForLocale creates a context for a locale string like "he-IL".
func ContextForLocale(locale string) *Context {
	lang := language.Make(locale)
	script, confidence := lang.Script()
	rtl := isRTLScript(script)
	if confidence == language.No { // script unknown, try the language
		rtl = isRTLLanguage(lang)
	}
	return &Context{
		Locale: locale,
		Script: script,
		rtl:    rtl,
	}
}

// IsRTL is true if the context's script is written right-to-left.
func (ctx *Context) IsRTL() bool {
	return ctx != nil && ctx.rtl
}

// ParaLevel returns the default paragraph level for the context, to be used
// with SetText. The first strong character of a paragraph still takes
// precedence.
func (ctx *Context) ParaLevel() Level {
	if ctx.IsRTL() {
		return LevelDefaultRTL
	}
	return LevelDefaultLTR
}

func isRTLScript(script language.Script) bool {
	switch script.String() {
	case "Arab", "Hebr", "Syrc", "Thaa", "Nkoo", "Adlm",
		"Mand", "Samr", "Rohg", "Yezi", "Mend", "Phnx":
		return true
	}
	return false
}

var rtlMatch = language.NewMatcher([]language.Tag{
	language.Und, // fallback, no match
	language.Arabic,
	language.Hebrew,
	language.Persian,
	language.Urdu,
	language.Make("yi"),
	language.Make("ps"),
	language.Make("sd"),
	language.Make("ug"),
	language.Make("dv"),
})

func isRTLLanguage(lang language.Tag) bool {
	_, index, confidence := rtlMatch.Match(lang)
	return index > 0 && confidence >= language.High
}

// Package classify determines what a finalized document is: a free-form
// text document (markdown) or code, and a best-guess language. It runs once,
// on the final accumulated buffer, never on partial updates.
package classify

import (
	"regexp"
	"strings"
)

// Kind distinguishes free-form text from code output.
type Kind string

const (
	KindCode Kind = "code"
	KindText Kind = "text"
)

// DefaultLanguage is the language assumed when no signal matches.
const DefaultLanguage = "javascript"

// Result is the classification of a finalized document.
type Result struct {
	Kind     Kind   `json:"kind"`
	Language string `json:"language"`
}

// rule pairs a predicate with the result it yields. Rules are evaluated in
// order and the first match wins; the list is the single source of truth for
// classification priority. Overlapping signals exist across entries (e.g. a
// fenced block is both a markdown signal and part of many code documents),
// so the order must not be rearranged.
type rule struct {
	match  func(string) bool
	result Result
}

var markdownLinkRe = regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`)

var rules = []rule{
	{isMarkdown, Result{Kind: KindText, Language: "markdown"}},
	{isReactTSX, Result{Kind: KindCode, Language: "tsx"}},
	{isJavaScript, Result{Kind: KindCode, Language: "javascript"}},
	{isPython, Result{Kind: KindCode, Language: "python"}},
	{isVue, Result{Kind: KindCode, Language: "vue"}},
	{isRust, Result{Kind: KindCode, Language: "rust"}},
	{isCPP, Result{Kind: KindCode, Language: "cpp"}},
	{isJava, Result{Kind: KindCode, Language: "java"}},
	{isPHP, Result{Kind: KindCode, Language: "php"}},
	{isSQL, Result{Kind: KindCode, Language: "sql"}},
	{isHTML, Result{Kind: KindCode, Language: "html"}},
	{isCSS, Result{Kind: KindCode, Language: "css"}},
}

// Classify evaluates the rule list against text, first match wins.
// No match falls through to {code, javascript}. Classify is pure: calling it
// twice on the same input yields identical results.
func Classify(text string) Result {
	for _, r := range rules {
		if r.match(text) {
			return r.result
		}
	}
	return Result{Kind: KindCode, Language: DefaultLanguage}
}

// isMarkdown looks for structural markdown signals: heading markers, a
// fenced block, a link pattern, list markers, or bold markers.
func isMarkdown(text string) bool {
	if anyLineHasPrefix(text, "# ", "## ", "### ") {
		return true
	}
	if strings.Contains(text, "```") {
		return true
	}
	if markdownLinkRe.MatchString(text) {
		return true
	}
	if anyLineHasPrefix(text, "* ", "- ") {
		return true
	}
	return strings.Contains(text, "**")
}

func isReactTSX(text string) bool {
	return strings.Contains(text, "import React") ||
		strings.Contains(text, `from "react"`) ||
		strings.Contains(text, "from 'react'")
}

func isJavaScript(text string) bool {
	return strings.Contains(text, "const ") &&
		strings.Contains(text, "let ") &&
		strings.Contains(text, "function")
}

func isPython(text string) bool {
	return strings.Contains(text, "def ") && strings.Contains(text, "import")
}

func isVue(text string) bool {
	return strings.Contains(text, "<template>") && strings.Contains(text, "<script>")
}

func isRust(text string) bool {
	return strings.Contains(text, "struct ") || strings.Contains(text, "fn ")
}

func isCPP(text string) bool {
	return strings.Contains(text, "#include") && strings.Contains(text, "using namespace")
}

func isJava(text string) bool {
	return strings.Contains(text, "public static void main")
}

func isPHP(text string) bool {
	return strings.Contains(text, "<?php") && strings.Contains(text, "echo")
}

func isSQL(text string) bool {
	return strings.Contains(text, "SELECT") && strings.Contains(text, "FROM")
}

func isHTML(text string) bool {
	return strings.Contains(text, "<!DOCTYPE html>") || strings.Contains(text, "<html>")
}

func isCSS(text string) bool {
	if strings.Contains(text, "styles") && strings.Contains(text, "@media") {
		return true
	}
	return strings.Contains(text, "@tailwind") || strings.Contains(text, "bg-")
}

// anyLineHasPrefix reports whether any line of text starts with one of the
// given prefixes.
func anyLineHasPrefix(text string, prefixes ...string) bool {
	for _, line := range strings.Split(text, "\n") {
		for _, p := range prefixes {
			if strings.HasPrefix(line, p) {
				return true
			}
		}
	}
	return false
}

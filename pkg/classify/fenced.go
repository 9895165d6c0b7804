package classify

import "regexp"

// FencedResult is the outcome of fenced-block extraction: the language tag
// of the first fence (or the default) and the code the fence encloses.
type FencedResult struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

var fencedBlockRe = regexp.MustCompile("(?s)```(\\w+)?\\s*(.*?)\\s*```")

// Fenced is the alternative presentation mode: if text contains a
// triple-backtick fenced block, the fence's language tag (defaulting to
// javascript when untagged) and the enclosed text are extracted; otherwise
// the entire text is treated as javascript code.
//
// Fenced and Classify are deliberately separate designs. Classify treats a
// fence purely as a markdown signal and never reads its tag; callers pick
// one mode, not a blend.
func Fenced(text string) FencedResult {
	match := fencedBlockRe.FindStringSubmatch(text)
	if match == nil {
		return FencedResult{Language: DefaultLanguage, Code: text}
	}
	language := match[1]
	if language == "" {
		language = DefaultLanguage
	}
	return FencedResult{Language: language, Code: match[2]}
}

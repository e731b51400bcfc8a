package utils

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var noticePolicy = bluemonday.UGCPolicy()

// SafeHTML sanitizes operator supplied markup (the notice bar) so templates may render it unescaped.
// User submitted text never goes through here; html/template escapes it on output.
func SafeHTML(input string) template.HTML {
	return template.HTML(noticePolicy.Sanitize(input))
}

package domain

import "strings"

// ArgumentKind selects how a TextArgument produces its value.
type ArgumentKind int

const (
	ArgDisplayName ArgumentKind = iota
	ArgGender
	ArgDialogueInt
	ArgDialogueFloat
	ArgClassInt
	ArgClassFloat
	ArgClassText
	ArgCustom
)

var argumentKindNames = map[ArgumentKind]string{
	ArgDisplayName:   "display_name",
	ArgGender:        "gender",
	ArgDialogueInt:   "dialogue_int",
	ArgDialogueFloat: "dialogue_float",
	ArgClassInt:      "class_int",
	ArgClassFloat:    "class_float",
	ArgClassText:     "class_text",
	ArgCustom:        "custom",
}

func (k ArgumentKind) String() string {
	if s, ok := argumentKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseArgumentKind is the inverse of ArgumentKind.String.
func ParseArgumentKind(s string) (ArgumentKind, bool) {
	for k, name := range argumentKindNames {
		if name == s {
			return k, true
		}
	}
	return ArgDisplayName, false
}

// TextArgument fills the {DisplayString} placeholder of a text template.
// Participant may be empty, in which case the node's owner is used.
type TextArgument struct {
	DisplayString string
	Kind          ArgumentKind
	Participant   string
	Variable      string
	Custom        CustomTextArgument
}

// TemplateParameters returns the distinct {name} placeholders of a template, in order of appearance.
func TemplateParameters(template string) []string {
	var params []string
	seen := make(map[string]bool)
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return params
		}
		end := strings.IndexByte(rest[open+1:], '}')
		if end < 0 {
			return params
		}
		name := strings.TrimSpace(rest[open+1 : open+1+end])
		if name != "" && !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
		rest = rest[open+1+end+1:]
	}
}

// SyncTextArguments returns an argument list matching the placeholders of template.
// Existing arguments are kept for placeholders that remain; new placeholders get a
// display-name argument with no participant.
func SyncTextArguments(template string, args []TextArgument) []TextArgument {
	params := TemplateParameters(template)
	out := make([]TextArgument, 0, len(params))
	for _, p := range params {
		arg := TextArgument{DisplayString: p}
		for _, existing := range args {
			if existing.DisplayString == p {
				arg = existing
				break
			}
		}
		out = append(out, arg)
	}
	return out
}

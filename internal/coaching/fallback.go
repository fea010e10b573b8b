package coaching

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/coai/internal/domain"
)

// Mode distinguishes the two fallback shapes: the opening message of a
// session and a reply to a user turn.
type Mode string

const (
	ModeStart    Mode = "start"
	ModeFollowUp Mode = "followUp"
)

// defaultGuidance is used when the session prompt yields no usable line.
const defaultGuidance = "Take a moment to note what you hope to gain from this session."

var (
	bulletPattern   = regexp.MustCompile(`^[-*]\s+`)
	numberedPattern = regexp.MustCompile(`^\d+[.)]?\s+`)
)

// ExtractGuidance derives the single line from a session prompt used to
// personalize fallback text. Precedence, first match wins: a bulleted
// line, a numbered line, a line longer than 25 characters, the first
// non-blank line, then a fixed default. The list marker is stripped
// from the chosen line.
func ExtractGuidance(sessionPrompt string) string {
	var lines []string
	for _, line := range strings.Split(sessionPrompt, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}

	candidate := ""
	for _, line := range lines {
		if bulletPattern.MatchString(line) {
			candidate = line
			break
		}
	}
	if candidate == "" {
		for _, line := range lines {
			if numberedPattern.MatchString(line) {
				candidate = line
				break
			}
		}
	}
	if candidate == "" {
		for _, line := range lines {
			if len(line) > 25 {
				candidate = line
				break
			}
		}
	}
	if candidate == "" && len(lines) > 0 {
		candidate = lines[0]
	}
	if candidate == "" {
		candidate = defaultGuidance
	}

	candidate = bulletPattern.ReplaceAllString(candidate, "")
	candidate = numberedPattern.ReplaceAllString(candidate, "")
	return strings.TrimSpace(candidate)
}

// fallbackCopy is the fixed-sentence table for one language.
type fallbackCopy struct {
	startIntro     string
	focusFormat    string
	followUpThanks string
	keepFormat     string
	captureLocally string
	offlineNote    string
}

var fallbackCopyTables = map[domain.Language]fallbackCopy{
	domain.LangEnglish: {
		startIntro:     "Let's get started while we reconnect.",
		focusFormat:    "Focus for now: %s",
		followUpThanks: "Thanks for sharing that insight.",
		keepFormat:     "Keep reflecting on: %s",
		captureLocally: "Capture your thoughts locally and we'll sync once the connection returns.",
		offlineNote:    "Offline mode: live coaching responses are temporarily unavailable.",
	},
	domain.LangChinese: {
		startIntro:     "我们先开始，稍后再恢复连接。",
		focusFormat:    "当前聚焦：%s",
		followUpThanks: "谢谢你分享这个想法。",
		keepFormat:     "继续思考：%s",
		captureLocally: "先把想法记录在本地，连接恢复后我们再同步。",
		offlineNote:    "离线模式：实时教练回复暂时不可用。",
	},
}

// Fallback deterministically builds a coaching-shaped reply from the
// session prompt when the completion provider yields no text. Pure:
// identical inputs always yield byte-identical output.
func Fallback(sessionPrompt string, lang domain.Language, mode Mode) string {
	copyTable, ok := fallbackCopyTables[lang]
	if !ok {
		copyTable = fallbackCopyTables[domain.LangEnglish]
	}
	guidance := ExtractGuidance(sessionPrompt)

	var paragraphs []string
	if mode == ModeStart {
		paragraphs = []string{
			copyTable.startIntro,
			fmt.Sprintf(copyTable.focusFormat, guidance),
			copyTable.offlineNote,
		}
	} else {
		paragraphs = []string{
			copyTable.followUpThanks,
			fmt.Sprintf(copyTable.keepFormat, guidance),
			copyTable.captureLocally,
			copyTable.offlineNote,
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

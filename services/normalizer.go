package services

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	codeFenceRE    = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n?(.*?)\\s*```$")
	spaceRE        = regexp.MustCompile("[\t\f\v ]+")
	multiSpaceRE   = regexp.MustCompile(` {2,}`)
	multiNewlineRE = regexp.MustCompile(`\n{3,}`)
)

// CleanChatReply normalisiert nur Unicode und Zeilenenden. Einrückungen und Leerzeichen
// bleiben erhalten, weil Chat-Antworten Markdown-Listen und Codeblöcke enthalten.
func CleanChatReply(s string) string {
	s = normalizeUnicodeAndLigatures(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}

// NormalizeReply bereinigt Fließtext aus Modellantworten: NFC, Ligaturen, Leerraum.
func NormalizeReply(s string) string {
	s = normalizeUnicodeAndLigatures(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return collapseWhitespace(s)
}

// ExtractJSONObject entfernt Markdown-Codeblöcke und schneidet das äußerste JSON-Objekt aus.
// Modelle antworten trotz Anweisung gern mit ```json ... ``` oder einem Satz davor.
func ExtractJSONObject(s string) (string, bool) {
	s = strings.TrimSpace(normalizeUnicodeAndLigatures(s))
	if m := codeFenceRE.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// normalizeUnicodeAndLigatures führt NFC-Normalisierung durch und ersetzt gängige Ligaturen
func normalizeUnicodeAndLigatures(s string) string {
	replacer := strings.NewReplacer(
		"ﬁ", "fi",
		"ﬂ", "fl",
		"ﬀ", "ff",
		"ﬃ", "ffi",
		"ﬄ", "ffl",
	)
	s = replacer.Replace(s)
	normalized, _, err := transform.String(norm.NFC, s)
	if err != nil {
		return s
	}
	return normalized
}

func collapseWhitespace(s string) string {
	s = spaceRE.ReplaceAllString(s, " ")
	s = multiSpaceRE.ReplaceAllString(s, " ")
	s = multiNewlineRE.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// cleanList trimmt Einträge und verwirft leere.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

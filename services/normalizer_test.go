package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
		ok   bool
	}{
		"plain":      {in: `{"a":1}`, want: `{"a":1}`, ok: true},
		"fenced":     {in: "```json\n{\"a\":1}\n```", want: `{"a":1}`, ok: true},
		"bare fence": {in: "```\n{\"a\":{\"b\":2}}\n```", want: `{"a":{"b":2}}`, ok: true},
		"preamble":   {in: "Here you go:\n{\"a\":1}\nHope it helps", want: `{"a":1}`, ok: true},
		"no object":  {in: "sorry, I cannot", ok: false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeReply(t *testing.T) {
	in := "  Lotus  leaves are self-cleaning.\r\n\r\n\r\n\r\nThe éffect is ﬁne.  "
	assert.Equal(t, "Lotus leaves are self-cleaning.\n\nThe éffect is fine.", NormalizeReply(in))
}

func TestCleanList(t *testing.T) {
	assert.Equal(t, []string{"HVAC", "efficiency"}, cleanList([]string{" HVAC ", "", "  ", "efficiency"}))
	assert.Empty(t, cleanList(nil))
}

func TestCleanChatReplyKeepsIndentation(t *testing.T) {
	in := "\r\n- ﬁrst\r\n    - nested\r\n\r\n\r\n```\n  code\n```  "
	assert.Equal(t, "- first\n    - nested\n\n\n```\n  code\n```", CleanChatReply(in))
}

package smaato

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAdmBanner(t *testing.T) {
	testCases := []struct {
		description string
		adMarkup    string
		curls       []string
		expected    string
	}{
		{
			description: "without-click-trackers",
			adMarkup:    `<a href="https://example.com"><img src="https://example.com/ad.png"></a>`,
			expected:    `<div style="cursor:pointer"><a href="https://example.com"><img src="https://example.com/ad.png"></a></div>`,
		},
		{
			description: "empty-click-tracker",
			adMarkup:    "<div>ad</div>",
			curls:       []string{""},
			expected:    `<div style="cursor:pointer"><div>ad</div></div>`,
		},
		{
			description: "first-click-tracker-only",
			adMarkup:    "<div>ad</div>",
			curls:       []string{"https://ad.smaato.net/click?id=1", "https://ad.smaato.net/click?id=2"},
			expected:    `<div style="cursor:pointer" onclick="fetch(decodeURIComponent('https%3A%2F%2Fad.smaato.net%2Fclick%3Fid%3D1'), {cache: 'no-cache'});"><div>ad</div></div>`,
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			assert.Equal(t, test.expected, extractAdmBanner(test.adMarkup, test.curls))
		})
	}
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b%2Bc%27d", encodeURIComponent("a b+c'd"))
}

package dataflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{" \n\t ", ""},
		{"Plain description stays as is.", "Plain description stays as is."},
		{"Price < $70k but > $60k", "Price < $70k but > $60k"},
		{"<p>Bitcoin <b>rallies</b></p>\n<ul><li>ETF</li></ul>", "Bitcoin rallies ETF"},
		{"Fees &amp; funding", "Fees & funding"},
		{"<br/>", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "input %q", tt.in)
	}
}

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "whitespace only", input: "  \n\t ", want: []string{}},
		{name: "plain text", input: "Backend engineer", want: []string{"Backend engineer"}},
		{name: "bold collapses to text", input: "<b>Go</b>", want: []string{"Go"}},
		{name: "strong inside sentence", input: "Cut cost by <strong>40%</strong> in Q3", want: []string{"Cut cost by 40% in Q3"}},
		{
			name:  "list items get bullet and no blank lines",
			input: "<ul>\n  <li>Built APIs</li>\n  <li>Led <b>5</b> engineers</li>\n</ul>",
			want:  []string{"• Built APIs", "• Led 5 engineers"},
		},
		{name: "br splits lines", input: "Line one<br>Line two<br/>Line three", want: []string{"Line one", "Line two", "Line three"}},
		{name: "divs are blocks", input: "<div>First</div><div>Second</div>", want: []string{"First", "Second"}},
		{name: "paragraphs", input: "<p>Alpha</p><p></p><p>Beta</p>", want: []string{"Alpha", "Beta"}},
		{name: "literal newlines kept", input: "Alpha\n\nBeta", want: []string{"Alpha", "Beta"}},
		{name: "entities decoded", input: "R&amp;D &lt;team&gt;&nbsp;lead", want: []string{"R&D <team> lead"}},
		{name: "whitespace collapsed", input: "  too    many\tspaces  ", want: []string{"too many spaces"}},
		{name: "unknown tags kept literally", input: "<foo>kept</foo> <blink>too</blink>", want: []string{"<foo>kept</foo> <blink>too</blink>"}},
		{name: "generic type syntax survives", input: "Used C<T> and x<y", want: []string{"Used C<T> and x<y"}},
		{name: "tag cut off at end", input: "Latency a <b", want: []string{"Latency a <b"}},
		{name: "only a cut off tag", input: "<scr", want: []string{"<scr"}},
		{name: "cut off closing tag", input: "<b>Go</b", want: []string{"Go</b"}},
		{name: "unknown tag inside list item", input: "<ul><li>Map<K, V> types</li></ul>", want: []string{"• Map<K, V> types"}},
		{name: "known inline tags still stripped", input: "<i>a</i> <em>b</em> <u>c</u> <span>d</span>", want: []string{"a b c d"}},
		{name: "unclosed tags", input: "<b>bold<ul><li>item", want: []string{"bold", "• item"}},
		{name: "stray angle bracket", input: "latency < 5ms", want: []string{"latency < 5ms"}},
		{name: "script dropped", input: "Hi<script>alert(1)</script> there", want: []string{"Hi there"}},
		{name: "ordered list", input: "<ol><li>One</li><li>Two</li></ol>", want: []string{"• One", "• Two"}},
		{name: "existing bullet not doubled", input: "<ul><li>• Done</li></ul>", want: []string{"• Done"}},
		{name: "empty list item dropped", input: "<ul><li></li><li> </li><li>Real</li></ul>", want: []string{"• Real"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText(""))
	assert.Equal(t, "Summary line\n• Item", PlainText("<div>Summary line</div><ul><li>Item</li></ul>"))
}
